// Package scene describes the planet, the car, the camera and the lights,
// and defines the Renderer a backend implements to draw them.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"globedrive/internal/orbit"
)

const (
	PlanetName = "planet"
	CarName    = "car"
)

// Camera is a perspective camera looking down -Z from Position.
type Camera struct {
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
	Position mgl32.Vec3
}

func (c Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(float32(c.FOV)), float32(c.Aspect), float32(c.Near), float32(c.Far))
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z())
}

// DirectionalLight shines from Position toward the origin.
type DirectionalLight struct {
	Color     Color
	Intensity float64
	Position  mgl32.Vec3
}

// Direction is the unit vector pointing from the origin toward the light.
func (d DirectionalLight) Direction() mgl32.Vec3 {
	if d.Position.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Position.Normalize()
}

// Radiance is the light color scaled by its intensity.
func (d DirectionalLight) Radiance() mgl32.Vec3 {
	return d.Color.Vec3().Mul(float32(d.Intensity))
}

type Lights struct {
	Ambient Color
	Sun     DirectionalLight
}

type Scene struct {
	Camera     Camera
	Planet     *Mesh
	Car        *Mesh
	Lights     Lights
	Background Color
}

// New lays out the scene for a width x height viewport.
func New(cfg Config, width, height int) *Scene {
	aspect := orbit.Aspect(width, height)
	planet := NewSphere(PlanetName, cfg.Planet.Radius, cfg.Planet.WidthSegments, cfg.Planet.HeightSegments)
	planet.Material = cfg.Planet.Material()

	car := NewBox(CarName, cfg.Car.Width, cfg.Car.Height, cfg.Car.Depth)
	car.Material = cfg.Car.Material()
	car.Position = mgl32.Vec3{0, float32(cfg.Car.Lift), float32(cfg.Planet.Radius + cfg.Car.Altitude)}

	p := cfg.Lights.Directional.Position
	return &Scene{
		Camera: Camera{
			FOV:      cfg.Camera.FOV.Policy().For(aspect),
			Aspect:   aspect,
			Near:     cfg.Camera.Near,
			Far:      cfg.Camera.Far,
			Position: mgl32.Vec3{0, 0, float32(cfg.Camera.Distance)},
		},
		Planet: planet,
		Car:    car,
		Lights: Lights{
			Ambient: cfg.Lights.Ambient,
			Sun: DirectionalLight{
				Color:     cfg.Lights.Directional.Color,
				Intensity: cfg.Lights.Directional.Intensity,
				Position:  mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])},
			},
		},
		Background: cfg.Background,
	}
}

// Meshes returns the meshes in draw order.
func (s *Scene) Meshes() []*Mesh {
	return []*Mesh{s.Planet, s.Car}
}

// Renderer is the backend contract. Calls arrive on a single goroutine.
type Renderer interface {
	AddMesh(m *Mesh) error
	SetBackground(c Color)
	SetLights(l Lights)
	SetCamera(c Camera)
	SetRotation(mesh string, r Rotation)
	SetSize(width, height int)
	RenderFrame()
}

// Mount hands the scene to r.
func Mount(r Renderer, s *Scene, width, height int) error {
	r.SetSize(width, height)
	r.SetBackground(s.Background)
	r.SetLights(s.Lights)
	for _, m := range s.Meshes() {
		if err := r.AddMesh(m); err != nil {
			return fmt.Errorf("scene: add mesh %s: %w", m.Name, err)
		}
	}
	r.SetCamera(s.Camera)
	return nil
}
