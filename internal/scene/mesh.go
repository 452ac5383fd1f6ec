package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Material is a Blinn-Phong surface: Color is lit by ambient and diffuse
// light, Specular by the highlight.
type Material struct {
	Color     Color
	Specular  Color
	Shininess float64
	Wireframe bool
}

// Rotation holds Euler angles in radians, applied X then Y (M = Rx * Ry).
type Rotation struct {
	X, Y float64
}

// Mesh is indexed geometry plus its placement. Triangles index Vertices in
// counter-clockwise triples; Edges index them in pairs.
type Mesh struct {
	Name      string
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	Triangles []uint32
	Edges     []uint32
	Material  Material
	Position  mgl32.Vec3
	Rotation  Rotation
}

// Model returns the mesh's model matrix.
func (m *Mesh) Model() mgl32.Mat4 {
	return mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z()).
		Mul4(mgl32.HomogRotate3DX(float32(m.Rotation.X))).
		Mul4(mgl32.HomogRotate3DY(float32(m.Rotation.Y)))
}

// NewSphere builds a UV sphere centered on the origin. The vertex grid is
// (widthSegments+1) x (heightSegments+1); the seam column and the pole rows
// repeat positions so each row maps cleanly onto the grid.
func NewSphere(name string, radius float64, widthSegments, heightSegments int) *Mesh {
	m := &Mesh{Name: name}
	grid := make([][]uint32, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			sinV := math.Sin(v * math.Pi)
			n := mgl32.Vec3{
				float32(-math.Cos(u*2*math.Pi) * sinV),
				float32(math.Cos(v * math.Pi)),
				float32(math.Sin(u*2*math.Pi) * sinV),
			}
			m.Vertices = append(m.Vertices, n.Mul(float32(radius)))
			m.Normals = append(m.Normals, n)
			row[ix] = uint32(len(m.Vertices) - 1)
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			// Pole rows collapse to a point; skip the degenerate half.
			if iy != 0 {
				m.Triangles = append(m.Triangles, a, b, d)
			}
			if iy != heightSegments-1 {
				m.Triangles = append(m.Triangles, b, c, d)
			}
		}
	}

	m.Edges = EdgesOf(m.Triangles)
	return m
}

// NewBox builds an axis-aligned box centered on the origin with flat
// per-face normals.
func NewBox(name string, width, height, depth float64) *Mesh {
	half := mgl32.Vec3{float32(width / 2), float32(height / 2), float32(depth / 2)}
	x, y, z := mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}

	// u x v == n, so corners 0..3 wind counter-clockwise seen from outside.
	faces := []struct{ n, u, v mgl32.Vec3 }{
		{x, z.Mul(-1), y},
		{x.Mul(-1), z, y},
		{y, x, z.Mul(-1)},
		{y.Mul(-1), x, z},
		{z, x, y},
		{z.Mul(-1), x.Mul(-1), y},
	}

	m := &Mesh{Name: name}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, s := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := f.n.Add(f.u.Mul(s[0])).Add(f.v.Mul(s[1]))
			m.Vertices = append(m.Vertices, mgl32.Vec3{p.X() * half.X(), p.Y() * half.Y(), p.Z() * half.Z()})
			m.Normals = append(m.Normals, f.n)
		}
		m.Triangles = append(m.Triangles, base, base+1, base+2, base, base+2, base+3)
		m.Edges = append(m.Edges, base, base+1, base+1, base+2, base+2, base+3, base+3, base)
	}
	return m
}

// EdgesOf returns the unique undirected edges of a triangle list.
func EdgesOf(triangles []uint32) []uint32 {
	type edge struct{ a, b uint32 }
	seen := make(map[edge]struct{}, len(triangles))
	var out []uint32
	add := func(a, b uint32) {
		if a > b {
			a, b = b, a
		}
		e := edge{a, b}
		if _, ok := seen[e]; ok {
			return
		}
		seen[e] = struct{}{}
		out = append(out, a, b)
	}
	for i := 0; i+2 < len(triangles); i += 3 {
		a, b, c := triangles[i], triangles[i+1], triangles[i+2]
		add(a, b)
		add(b, c)
		add(c, a)
	}
	return out
}
