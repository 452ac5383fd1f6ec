//go:build !js

package glview

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	vertexShaderSource = `
		#version 410
		in vec3 vp;
		in vec3 vn;
		uniform mat4 mvp;
		uniform mat4 model;
		out vec3 normal;
		out vec3 world;
		void main() {
			normal = mat3(model) * vn;
			world = vec3(model * vec4(vp, 1.0));
			gl_Position = mvp * vec4(vp, 1.0);
		}
	` + "\x00"

	// Blinn-Phong: ambient plus one directional light.
	fragmentShaderSource = `
		#version 410
		in vec3 normal;
		in vec3 world;
		uniform vec3 color;
		uniform vec3 specular;
		uniform float shininess;
		uniform vec3 ambient;
		uniform vec3 radiance;
		uniform vec3 lightDir;
		uniform vec3 eye;
		out vec4 frag_colour;
		void main() {
			vec3 n = normalize(normal);
			float diffuse = max(dot(n, lightDir), 0.0);
			float spec = 0.0;
			if (diffuse > 0.0) {
				vec3 h = normalize(lightDir + normalize(eye - world));
				spec = pow(max(dot(n, h), 0.0), shininess);
			}
			vec3 lit = color * (ambient + radiance * diffuse) + specular * radiance * spec;
			frag_colour = vec4(lit, 1.0);
		}
	` + "\x00"
)

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile %v: %v", shaderKind(shaderType), log)
	}

	return shader, nil
}

func shaderKind(t uint32) string {
	switch t {
	case gl.VERTEX_SHADER:
		return "vertex shader"
	case gl.FRAGMENT_SHADER:
		return "fragment shader"
	}
	return fmt.Sprintf("shader 0x%x", t)
}
