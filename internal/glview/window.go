//go:build !js

// Package glview renders the scene with OpenGL 4.1 in a GLFW window.
package glview

import (
	"fmt"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"globedrive/internal/app"
	"globedrive/internal/scene"
)

type gpuMesh struct {
	mesh     *scene.Mesh
	vao      uint32
	vbo      uint32
	ebo      uint32
	count    int32
	mode     uint32
	rotation scene.Rotation
}

type uniforms struct {
	mvp, model, eye             int32
	color, specular, shininess  int32
	ambient, radiance, lightDir int32
}

// Window is a scene.Renderer backed by a GLFW window.
type Window struct {
	win     *glfw.Window
	title   string
	program uint32
	loc     uniforms

	meshes []*gpuMesh
	camera scene.Camera
	lights scene.Lights
}

// Open creates the window and GL context. The caller must be locked to
// the main OS thread.
func Open(cfg scene.Config, logger *log.Logger) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glview: initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glview: create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glview: initialize gl: %w", err)
	}
	logger.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))

	program, err := newProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glview: %w", err)
	}

	w := &Window{
		win:     win,
		title:   cfg.Window.Title,
		program: program,
		loc: uniforms{
			mvp:       uniform(program, "mvp"),
			model:     uniform(program, "model"),
			eye:       uniform(program, "eye"),
			color:     uniform(program, "color"),
			specular:  uniform(program, "specular"),
			shininess: uniform(program, "shininess"),
			ambient:   uniform(program, "ambient"),
			radiance:  uniform(program, "radiance"),
			lightDir:  uniform(program, "lightDir"),
		},
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.DepthFunc(gl.LESS)
	return w, nil
}

// Size returns the window size in screen coordinates.
func (w *Window) Size() (width, height int) {
	return w.win.GetSize()
}

// Close releases GL objects and terminates GLFW.
func (w *Window) Close() {
	for _, m := range w.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
	}
	gl.DeleteProgram(w.program)
	glfw.Terminate()
}

func (w *Window) AddMesh(m *scene.Mesh) error {
	if len(m.Vertices) == 0 || len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("glview: mesh %q has %d vertices and %d normals", m.Name, len(m.Vertices), len(m.Normals))
	}

	// Interleaved position + normal.
	data := make([]float32, 0, len(m.Vertices)*6)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		data = append(data, v.X(), v.Y(), v.Z(), n.X(), n.Y(), n.Z())
	}
	indices, mode := m.Triangles, uint32(gl.TRIANGLES)
	if m.Material.Wireframe {
		indices, mode = m.Edges, gl.LINES
	}
	if len(indices) == 0 {
		return fmt.Errorf("glview: mesh %q has no indices", m.Name)
	}

	g := &gpuMesh{mesh: m, count: int32(len(indices)), mode: mode, rotation: m.Rotation}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	posAttrib := uint32(gl.GetAttribLocation(w.program, gl.Str("vp\x00")))
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(0))

	normAttrib := uint32(gl.GetAttribLocation(w.program, gl.Str("vn\x00")))
	gl.EnableVertexAttribArray(normAttrib)
	gl.VertexAttribPointer(normAttrib, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))

	gl.BindVertexArray(0)
	w.meshes = append(w.meshes, g)
	return nil
}

func (w *Window) SetBackground(c scene.Color) {
	bg := c.Vec3()
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1.0)
}

func (w *Window) SetLights(l scene.Lights) {
	w.lights = l
}

func (w *Window) SetCamera(c scene.Camera) {
	w.camera = c
}

func (w *Window) SetRotation(mesh string, r scene.Rotation) {
	for _, g := range w.meshes {
		if g.mesh.Name == mesh {
			g.rotation = r
		}
	}
}

// SetSize matches the GL viewport to the framebuffer, which differs from
// the window size on high-DPI displays.
func (w *Window) SetSize(int, int) {
	fbw, fbh := w.win.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
}

func (w *Window) RenderFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(w.program)

	ambient := w.lights.Ambient.Vec3()
	radiance := w.lights.Sun.Radiance()
	dir := w.lights.Sun.Direction()
	gl.Uniform3f(w.loc.ambient, ambient.X(), ambient.Y(), ambient.Z())
	gl.Uniform3f(w.loc.radiance, radiance.X(), radiance.Y(), radiance.Z())
	gl.Uniform3f(w.loc.lightDir, dir.X(), dir.Y(), dir.Z())
	eye := w.camera.Position
	gl.Uniform3f(w.loc.eye, eye.X(), eye.Y(), eye.Z())

	viewProj := w.camera.Projection().Mul4(w.camera.View())
	for _, g := range w.meshes {
		placed := *g.mesh
		placed.Rotation = g.rotation
		model := placed.Model()
		mvp := viewProj.Mul4(model)
		mat := g.mesh.Material
		col, spec := mat.Color.Vec3(), mat.Specular.Vec3()

		gl.UniformMatrix4fv(w.loc.mvp, 1, false, &mvp[0])
		gl.UniformMatrix4fv(w.loc.model, 1, false, &model[0])
		gl.Uniform3f(w.loc.color, col.X(), col.Y(), col.Z())
		gl.Uniform3f(w.loc.specular, spec.X(), spec.Y(), spec.Z())
		gl.Uniform1f(w.loc.shininess, float32(mat.Shininess))

		gl.BindVertexArray(g.vao)
		gl.DrawElements(g.mode, g.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)
}

// Run wires GLFW input to c and renders until the window is closed.
// Configs arriving on reload are applied between frames; reload may be nil.
func (w *Window) Run(c *app.Controller, reload <-chan scene.Config) {
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press || action == glfw.Repeat {
			c.KeyDown(translateKey(key))
		}
	})
	w.win.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft || action != glfw.Press {
			return
		}
		x, y := win.GetCursorPos()
		c.TouchStart([]app.Point{{X: x, Y: y}})
	})
	w.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		c.Resize(width, height)
	})
	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
	})

	lastFpsTime := glfw.GetTime()
	frameCount := 0

	for !w.win.ShouldClose() {
		select {
		case cfg, ok := <-reload:
			if ok {
				c.Reconfigure(cfg)
			} else {
				reload = nil
			}
		default:
		}

		// FPS Counter Update (every 1 second)
		currentTime := glfw.GetTime()
		frameCount++
		if currentTime-lastFpsTime >= 1.0 {
			w.win.SetTitle(fmt.Sprintf("%s | FPS: %d", w.title, frameCount))
			frameCount = 0
			lastFpsTime = currentTime
		}

		c.Frame()

		w.win.SwapBuffers()
		glfw.PollEvents()
	}
}

func translateKey(k glfw.Key) app.Key {
	switch k {
	case glfw.KeyUp:
		return app.KeyUp
	case glfw.KeyDown:
		return app.KeyDown
	case glfw.KeyLeft:
		return app.KeyLeft
	case glfw.KeyRight:
		return app.KeyRight
	}
	return app.KeyUnknown
}

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

var _ scene.Renderer = (*Window)(nil)
