// Package orbit holds the input policies that turn the globe: the
// responsive field of view and the two rotation accumulators.
package orbit

import "math"

const (
	InitialTheta = math.Pi / 4
	InitialPhi   = math.Pi / 2
)

// FOVPolicy picks a vertical field of view in degrees from an aspect ratio.
// The shipped configuration uses 90 for portrait and 75 for landscape.
type FOVPolicy struct {
	Portrait  float64
	Landscape float64
}

// For returns Portrait when aspect < 1, Landscape otherwise.
func (p FOVPolicy) For(aspect float64) float64 {
	if aspect < 1 {
		return p.Portrait
	}
	return p.Landscape
}

// Aspect returns width / height.
func Aspect(width, height int) float64 {
	return float64(width) / float64(height)
}

// Direction is one of the four discrete driving inputs.
type Direction int

const (
	None Direction = iota
	Forward
	Backward
	TurnLeft
	TurnRight
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case TurnLeft:
		return "turn-left"
	case TurnRight:
		return "turn-right"
	}
	return "none"
}

// Quadrant maps a touch point to a direction. The viewport is split by its
// midlines; points on a midline fall into the right or bottom half.
func Quadrant(x, y, width, height float64) Direction {
	left := x < width/2
	top := y < height/2
	switch {
	case left && top:
		return Forward
	case left:
		return Backward
	case top:
		return TurnLeft
	default:
		return TurnRight
	}
}

// Orientation is the pair of accumulated angles driving the sphere.
type Orientation struct {
	Theta float64 // about X, forward/backward
	Phi   float64 // about Y, left/right
}

// Initial returns the startup orientation.
func Initial() Orientation {
	return Orientation{Theta: InitialTheta, Phi: InitialPhi}
}

// Step returns o moved one step of size delta in direction d.
func (o Orientation) Step(d Direction, delta float64) Orientation {
	switch d {
	case Forward:
		o.Theta += delta
	case Backward:
		o.Theta -= delta
	case TurnLeft:
		o.Phi += delta
	case TurnRight:
		o.Phi -= delta
	}
	return o
}

// Wrapped returns o with both angles normalized into [0, 2π).
func (o Orientation) Wrapped() Orientation {
	return Orientation{Theta: wrap(o.Theta), Phi: wrap(o.Phi)}
}

func wrap(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// math.Mod can hand back -0 or round a tiny negative up to 2π.
	if a >= 2*math.Pi || a == 0 {
		return 0
	}
	return a
}
