package raster

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"globedrive/internal/scene"
)

// Canvas is a software scene.Renderer. Wireframe meshes draw their edges;
// solid meshes draw back-face culled triangles far to near.
type Canvas struct {
	Image *image.RGBA

	meshes     []*scene.Mesh
	rotations  map[string]scene.Rotation
	camera     scene.Camera
	light      Light
	background color.RGBA
	proj       Projector
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		rotations:  make(map[string]scene.Rotation),
		background: color.RGBA{A: 0xff},
	}
	c.SetSize(width, height)
	return c
}

func (c *Canvas) AddMesh(m *scene.Mesh) error {
	for _, have := range c.meshes {
		if have.Name == m.Name {
			return fmt.Errorf("raster: duplicate mesh %q", m.Name)
		}
	}
	c.meshes = append(c.meshes, m)
	c.rotations[m.Name] = m.Rotation
	return nil
}

func (c *Canvas) SetLights(l scene.Lights) {
	c.light = Light{
		Ambient:  fromMgl(l.Ambient.Vec3()),
		Radiance: fromMgl(l.Sun.Radiance()),
		Dir:      fromMgl(l.Sun.Direction()),
	}
}

func (c *Canvas) SetBackground(col scene.Color) {
	c.background = col.ToRGBA()
}

func (c *Canvas) SetCamera(cam scene.Camera) {
	c.camera = cam
	c.updateProjector()
}

func (c *Canvas) SetRotation(mesh string, r scene.Rotation) {
	c.rotations[mesh] = r
}

// SetSize reallocates the image when the size changes.
func (c *Canvas) SetSize(width, height int) {
	if c.Image != nil && c.Image.Rect.Dx() == width && c.Image.Rect.Dy() == height {
		return
	}
	c.Image = image.NewRGBA(image.Rect(0, 0, width, height))
	c.updateProjector()
}

func (c *Canvas) updateProjector() {
	b := c.Image.Bounds()
	c.proj = NewProjector(b.Dx(), b.Dy(), c.camera.FOV, float64(c.camera.Position.Z()), c.camera.Near)
}

func (c *Canvas) RenderFrame() {
	Clear(c.Image, c.background)
	if c.camera.FOV == 0 {
		return
	}
	for _, m := range c.meshes {
		c.draw(m)
	}
}

type projected struct {
	world       Vec3
	x, y, depth float64
	ok          bool
}

func (c *Canvas) draw(m *scene.Mesh) {
	rot := c.rotations[m.Name]
	pos := fromMgl(m.Position)
	eye := fromMgl(c.camera.Position)
	offset := Vec3{X: eye.X, Y: eye.Y}

	pts := make([]projected, len(m.Vertices))
	for i, v := range m.Vertices {
		w := fromMgl(v).Euler(rot.X, rot.Y).Add(pos)
		x, y, d, ok := c.proj.Project(w.Sub(offset))
		pts[i] = projected{w, x, y, d, ok}
	}
	normal := func(i uint32) Vec3 {
		return fromMgl(m.Normals[i]).Euler(rot.X, rot.Y)
	}
	view := func(p Vec3) Vec3 {
		return eye.Sub(p).Normalize()
	}
	surf := Surface{
		Base:      fromMgl(m.Material.Color.Vec3()),
		Specular:  fromMgl(m.Material.Specular.Vec3()),
		Shininess: m.Material.Shininess,
	}

	if m.Material.Wireframe {
		for i := 0; i+1 < len(m.Edges); i += 2 {
			a, b := m.Edges[i], m.Edges[i+1]
			pa, pb := pts[a], pts[b]
			if !pa.ok || !pb.ok {
				continue
			}
			mid := pa.world.Add(pb.world).Scale(0.5)
			col := c.light.Shade(surf, normal(a).Add(normal(b)), view(mid))
			DrawLine(c.Image, int(pa.x), int(pa.y), int(pb.x), int(pb.y), col)
		}
		return
	}

	type face struct {
		i     int
		depth float64
	}
	var faces []face
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		p0, p1, p2 := pts[m.Triangles[i]], pts[m.Triangles[i+1]], pts[m.Triangles[i+2]]
		if !p0.ok || !p1.ok || !p2.ok {
			continue
		}
		if Area2(p0.x, p0.y, p1.x, p1.y, p2.x, p2.y) >= 0 {
			continue
		}
		faces = append(faces, face{i, p0.depth + p1.depth + p2.depth})
	}
	sort.Slice(faces, func(a, b int) bool { return faces[a].depth > faces[b].depth })
	for _, f := range faces {
		p0, p1, p2 := pts[m.Triangles[f.i]], pts[m.Triangles[f.i+1]], pts[m.Triangles[f.i+2]]
		center := p0.world.Add(p1.world).Add(p2.world).Scale(1.0 / 3)
		col := c.light.Shade(surf, normal(m.Triangles[f.i]), view(center))
		FillTriangle(c.Image, p0.x, p0.y, p1.x, p1.y, p2.x, p2.y, col)
	}
}

func fromMgl(v mgl32.Vec3) Vec3 {
	return Vec3{X: float64(v.X()), Y: float64(v.Y()), Z: float64(v.Z())}
}
