// Package raster draws projected lines and triangles into an image.RGBA.
package raster

import (
	"image"
	"image/color"
	"math"
)

// Clear fills the whole image with col.
func Clear(img *image.RGBA, col color.RGBA) {
	if len(img.Pix) < 4 {
		return
	}
	img.Pix[0], img.Pix[1], img.Pix[2], img.Pix[3] = col.R, col.G, col.B, col.A
	for filled := 4; filled < len(img.Pix); filled *= 2 {
		copy(img.Pix[filled:], img.Pix[:filled])
	}
}

// DrawLine draws a line on the image from (x1, y1) to (x2, y2) with a DDA walk
func DrawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps == 0 {
		set(img, x1, y1, col)
		return
	}

	xInc := dx / steps
	yInc := dy / steps

	x := float64(x1)
	y := float64(y1)

	for i := 0; i <= int(steps); i++ {
		set(img, int(math.Round(x)), int(math.Round(y)), col)
		x += xInc
		y += yInc
	}
}

// FillTriangle fills the triangle whose corners are given in pixel
// coordinates. A pixel is covered when its center lies inside; either
// winding is accepted.
func FillTriangle(img *image.RGBA, x0, y0, x1, y1, x2, y2 float64, col color.RGBA) {
	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	b := img.Bounds()
	minX := max(b.Min.X, int(math.Floor(min(x0, x1, x2))))
	maxX := min(b.Max.X-1, int(math.Ceil(max(x0, x1, x2))))
	minY := max(b.Min.Y, int(math.Floor(min(y0, y1, y2))))
	maxY := min(b.Max.Y-1, int(math.Ceil(max(y0, y1, y2))))

	for py := minY; py <= maxY; py++ {
		cy := float64(py) + 0.5
		for px := minX; px <= maxX; px++ {
			cx := float64(px) + 0.5
			w0 := edge(x1, y1, x2, y2, cx, cy)
			w1 := edge(x2, y2, x0, y0, cx, cy)
			w2 := edge(x0, y0, x1, y1, cx, cy)
			if area < 0 {
				w0, w1, w2 = -w0, -w1, -w2
			}
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				set(img, px, py, col)
			}
		}
	}
}

// Area2 returns twice the signed screen-space area of a triangle. It is
// negative for triangles that wind counter-clockwise in world space, since
// screen y points down.
func Area2(x0, y0, x1, y1, x2, y2 float64) float64 {
	return edge(x0, y0, x1, y1, x2, y2)
}

func edge(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

func set(img *image.RGBA, x, y int, col color.RGBA) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	offset := img.PixOffset(x, y)
	img.Pix[offset] = col.R
	img.Pix[offset+1] = col.G
	img.Pix[offset+2] = col.B
	img.Pix[offset+3] = col.A
}

// Light is ambient plus one directional light. Colors are 0..1 per channel.
type Light struct {
	Ambient  Vec3
	Radiance Vec3
	Dir      Vec3 // unit vector toward the light
}

// Surface is a Blinn-Phong material.
type Surface struct {
	Base      Vec3
	Specular  Vec3
	Shininess float64
}

// Shade lights s with surface normal n seen along view, the unit vector
// from the surface toward the eye.
func (l Light) Shade(s Surface, n, view Vec3) color.RGBA {
	n = n.Normalize()
	diffuse := math.Max(n.Dot(l.Dir), 0)
	var spec float64
	if diffuse > 0 {
		half := l.Dir.Add(view).Normalize()
		spec = math.Pow(math.Max(n.Dot(half), 0), s.Shininess)
	}
	return color.RGBA{
		R: channel(s.Base.X*(l.Ambient.X+l.Radiance.X*diffuse) + s.Specular.X*l.Radiance.X*spec),
		G: channel(s.Base.Y*(l.Ambient.Y+l.Radiance.Y*diffuse) + s.Specular.Y*l.Radiance.Y*spec),
		B: channel(s.Base.Z*(l.Ambient.Z+l.Radiance.Z*diffuse) + s.Specular.Z*l.Radiance.Z*spec),
		A: 0xff,
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}
