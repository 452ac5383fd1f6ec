package raster

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// RotateX rotates the vector around the X axis
func (v Vec3) RotateX(angle float64) Vec3 {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vec3{
		X: v.X,
		Y: v.Y*cos - v.Z*sin,
		Z: v.Y*sin + v.Z*cos,
	}
}

// RotateY rotates the vector around the Y axis
func (v Vec3) RotateY(angle float64) Vec3 {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Euler applies Rx(x) * Ry(y): Y first, then X.
func (v Vec3) Euler(x, y float64) Vec3 {
	return v.RotateY(y).RotateX(x)
}

// Projector maps world points to screen pixels for a camera at
// (0, 0, CameraZ) looking down -Z.
type Projector struct {
	Width, Height int
	Focal         float64 // pixels per unit at depth 1
	CameraZ       float64
	Near          float64
}

// NewProjector builds a projector from a vertical field of view in degrees.
func NewProjector(width, height int, fovDeg, cameraZ, near float64) Projector {
	half := fovDeg * math.Pi / 360
	return Projector{
		Width:   width,
		Height:  height,
		Focal:   float64(height) / 2 / math.Tan(half),
		CameraZ: cameraZ,
		Near:    near,
	}
}

// Project returns screen coordinates (y down) and the view depth of v.
// ok is false when v is closer than the near plane or behind the camera.
func (p Projector) Project(v Vec3) (x, y, depth float64, ok bool) {
	depth = p.CameraZ - v.Z
	if depth < p.Near {
		return 0, 0, depth, false
	}
	factor := p.Focal / depth
	x = v.X*factor + float64(p.Width)/2
	y = -v.Y*factor + float64(p.Height)/2
	return x, y, depth, true
}
