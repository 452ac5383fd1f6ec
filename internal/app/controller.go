// Package app turns key, touch and resize events into globe rotations and
// camera updates and drives a scene.Renderer once per frame.
package app

import (
	"fmt"
	"log"

	"globedrive/internal/orbit"
	"globedrive/internal/scene"
)

// Key is a backend-neutral key code. Backends translate their own codes
// and pass everything else as KeyUnknown.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Direction maps an arrow key to its driving direction.
func (k Key) Direction() orbit.Direction {
	switch k {
	case KeyUp:
		return orbit.Forward
	case KeyDown:
		return orbit.Backward
	case KeyLeft:
		return orbit.TurnLeft
	case KeyRight:
		return orbit.TurnRight
	}
	return orbit.None
}

// Point is a touch position in viewport coordinates.
type Point struct {
	X, Y float64
}

// Controller owns the orientation and viewport. It is not safe for
// concurrent use; every method must be called from the render goroutine.
type Controller struct {
	renderer scene.Renderer
	scene    *scene.Scene
	logger   *log.Logger

	orient orbit.Orientation
	driven bool // the planet shows orient only after the first input
	step   float64
	wrap   bool
	fov    orbit.FOVPolicy

	width, height int
}

// New mounts s on r, sized width x height. The planet keeps its mesh
// rotation until the first input, which steps from orbit.Initial.
func New(r scene.Renderer, s *scene.Scene, cfg scene.Config, width, height int, logger *log.Logger) (*Controller, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("app: viewport %dx%d must be positive", width, height)
	}
	c := &Controller{
		renderer: r,
		scene:    s,
		logger:   logger,
		orient:   orbit.Initial(),
		width:    width,
		height:   height,
	}
	c.configure(cfg)
	c.updateCamera()
	if err := scene.Mount(r, s, width, height); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) configure(cfg scene.Config) {
	c.step = cfg.Controls.Step
	c.wrap = cfg.Controls.WrapAngles
	c.fov = cfg.Camera.FOV.Policy()
}

// KeyDown applies one arrow-key step. Other keys are ignored.
func (c *Controller) KeyDown(k Key) {
	d := k.Direction()
	if d == orbit.None {
		return
	}
	c.drive(d)
}

// TouchStart applies the quadrant step for the first point only.
func (c *Controller) TouchStart(points []Point) {
	if len(points) == 0 {
		return
	}
	p := points[0]
	c.drive(orbit.Quadrant(p.X, p.Y, float64(c.width), float64(c.height)))
}

func (c *Controller) drive(d orbit.Direction) {
	c.orient = c.orient.Step(d, c.step)
	if c.wrap {
		c.orient = c.orient.Wrapped()
	}
	c.driven = true
	c.updateRotation()
	c.logger.Printf("drive %v theta=%.4f phi=%.4f", d, c.orient.Theta, c.orient.Phi)
}

// Resize updates the aspect ratio and field of view and resizes the
// surface. A zero-sized viewport (minimized window) is ignored.
func (c *Controller) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.updateCamera()
	c.renderer.SetCamera(c.scene.Camera)
	c.renderer.SetSize(width, height)
	c.logger.Printf("resize %dx%d aspect=%.3f fov=%v", width, height, c.scene.Camera.Aspect, c.scene.Camera.FOV)
}

// Reconfigure applies reloaded control and FOV settings.
func (c *Controller) Reconfigure(cfg scene.Config) {
	c.configure(cfg)
	if c.wrap {
		c.orient = c.orient.Wrapped()
		if c.driven {
			c.updateRotation()
		}
	}
	c.updateCamera()
	c.renderer.SetCamera(c.scene.Camera)
	c.logger.Printf("config reloaded: step=%v wrap=%v fov=%+v", c.step, c.wrap, c.fov)
}

// Frame renders the current state.
func (c *Controller) Frame() {
	c.renderer.RenderFrame()
}

func (c *Controller) Orientation() orbit.Orientation {
	return c.orient
}

func (c *Controller) Camera() scene.Camera {
	return c.scene.Camera
}

func (c *Controller) Size() (width, height int) {
	return c.width, c.height
}

func (c *Controller) updateCamera() {
	aspect := orbit.Aspect(c.width, c.height)
	c.scene.Camera.Aspect = aspect
	c.scene.Camera.FOV = c.fov.For(aspect)
}

// updateRotation overwrites the planet rotation from the accumulators.
func (c *Controller) updateRotation() {
	r := scene.Rotation{X: c.orient.Theta, Y: c.orient.Phi}
	c.scene.Planet.Rotation = r
	c.renderer.SetRotation(c.scene.Planet.Name, r)
}
