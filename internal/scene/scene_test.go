package scene

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Camera.FOV.Portrait != 90 || cfg.Camera.FOV.Landscape != 75 {
		t.Errorf("fov = %+v, want 90/75", cfg.Camera.FOV)
	}
	if cfg.Planet.Radius != 3.5 || cfg.Planet.WidthSegments != 64 || cfg.Planet.HeightSegments != 64 {
		t.Errorf("planet = %+v", cfg.Planet)
	}
	if cfg.Planet.Color != Hex(0x0077ff) || !cfg.Planet.Wireframe {
		t.Errorf("planet material = %v wireframe=%v", cfg.Planet.Color, cfg.Planet.Wireframe)
	}
	if cfg.Car.Color != Hex(0xff0000) {
		t.Errorf("car color = %v", cfg.Car.Color)
	}
	if cfg.Lights.Ambient != Hex(0x404040) || cfg.Lights.Directional.Intensity != 0.5 {
		t.Errorf("lights = %+v", cfg.Lights)
	}
	if cfg.Lights.Directional.Position != [3]float64{5, 10, 7.5} {
		t.Errorf("sun position = %v", cfg.Lights.Directional.Position)
	}
	if cfg.Controls.Step != 0.05 || cfg.Controls.WrapAngles {
		t.Errorf("controls = %+v", cfg.Controls)
	}
	if cfg.Camera.Distance != 8 || cfg.Camera.Near != 0.1 || cfg.Camera.Far != 1000 {
		t.Errorf("camera = %+v", cfg.Camera)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.yaml")
	data := "planet:\n  color: \"0x00ff00\"\ncontrols:\n  step: 0.1\n  wrap_angles: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Planet.Color != Hex(0x00ff00) {
		t.Errorf("planet color = %v, want #00ff00", cfg.Planet.Color)
	}
	if cfg.Controls.Step != 0.1 || !cfg.Controls.WrapAngles {
		t.Errorf("controls = %+v", cfg.Controls)
	}
	// Untouched keys keep their defaults.
	if cfg.Planet.Radius != 3.5 || cfg.Camera.FOV.Landscape != 75 {
		t.Errorf("defaults lost: radius=%v fov=%v", cfg.Planet.Radius, cfg.Camera.FOV)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad color", "car:\n  color: \"#12\"\n", "6 hex digits"},
		{"bad step", "controls:\n  step: 0\n", "step"},
		{"bad clip", "camera:\n  near: 5\n  far: 1\n", "clip planes"},
		{"bad fov", "camera:\n  fov:\n    portrait: 200\n", "field of view"},
		{"bad yaml", "planet: [\n", "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig err = %v, want containing %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"#0077ff", "0x0077ff", "0077FF", " #0077ff "} {
		c, err := ParseColor(s)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", s, err)
			continue
		}
		if c != (Color{R: 0x00, G: 0x77, B: 0xff}) {
			t.Errorf("ParseColor(%q) = %v", s, c)
		}
	}
	if _, err := ParseColor("#zzzzzz"); err == nil {
		t.Error("expected error for non-hex color")
	}
	if got := Hex(0x0077ff).String(); got != "#0077ff" {
		t.Errorf("String = %q", got)
	}
}

func TestSphereVerticesOnRadius(t *testing.T) {
	const radius = 3.5
	m := NewSphere("s", radius, 16, 8)
	if got, want := len(m.Vertices), 17*9; got != want {
		t.Fatalf("vertices = %d, want %d", got, want)
	}
	for i, v := range m.Vertices {
		if math.Abs(float64(v.Len())-radius) > 1e-4 {
			t.Fatalf("vertex %d at distance %v, want %v", i, v.Len(), radius)
		}
		if math.Abs(float64(m.Normals[i].Len())-1) > 1e-4 {
			t.Fatalf("normal %d not unit: %v", i, m.Normals[i])
		}
	}
	// Two triangles per quad except one on each pole row.
	if got, want := len(m.Triangles), 3*(2*16*8-2*16); got != want {
		t.Errorf("triangle indices = %d, want %d", got, want)
	}
}

func TestSphereEdgesUnique(t *testing.T) {
	m := NewSphere("s", 1, 12, 6)
	if len(m.Edges)%2 != 0 {
		t.Fatalf("odd edge index count %d", len(m.Edges))
	}
	seen := map[[2]uint32]bool{}
	for i := 0; i < len(m.Edges); i += 2 {
		a, b := m.Edges[i], m.Edges[i+1]
		if int(a) >= len(m.Vertices) || int(b) >= len(m.Vertices) {
			t.Fatalf("edge %d out of range", i/2)
		}
		if a > b {
			a, b = b, a
		}
		k := [2]uint32{a, b}
		if seen[k] {
			t.Fatalf("duplicate edge %v", k)
		}
		seen[k] = true
	}
}

func TestEdgesOf(t *testing.T) {
	// Two triangles sharing edge 1-2.
	got := EdgesOf([]uint32{0, 1, 2, 2, 1, 3})
	if len(got) != 10 {
		t.Errorf("edges = %v, want 5 edges", got)
	}
}

func TestBoxFacesPointOutward(t *testing.T) {
	m := NewBox("b", 0.2, 0.15, 1)
	if len(m.Vertices) != 24 || len(m.Triangles) != 36 {
		t.Fatalf("box has %d vertices %d indices", len(m.Vertices), len(m.Triangles))
	}
	for i := 0; i < len(m.Triangles); i += 3 {
		a := m.Vertices[m.Triangles[i]]
		b := m.Vertices[m.Triangles[i+1]]
		c := m.Vertices[m.Triangles[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Dot(m.Normals[m.Triangles[i]]) <= 0 {
			t.Errorf("triangle %d winds inward", i/3)
		}
	}
	for _, v := range m.Vertices {
		if math.Abs(float64(v.X())) != float64(float32(0.1)) || math.Abs(float64(v.Z())) != 0.5 {
			t.Fatalf("corner %v off the box", v)
		}
	}
}

func TestNewSceneLayout(t *testing.T) {
	s := New(DefaultConfig(), 1920, 1080)
	if s.Camera.FOV != 75 {
		t.Errorf("landscape fov = %v, want 75", s.Camera.FOV)
	}
	if s.Camera.Position != (mgl32.Vec3{0, 0, 8}) {
		t.Errorf("camera position = %v", s.Camera.Position)
	}
	if s.Car.Position != (mgl32.Vec3{0, 0.5, 4}) {
		t.Errorf("car position = %v", s.Car.Position)
	}
	if !s.Planet.Material.Wireframe || s.Car.Material.Wireframe {
		t.Error("planet must be wireframe and car solid")
	}
	for _, m := range s.Meshes() {
		if m.Material.Specular != Hex(0x111111) || m.Material.Shininess != 30 {
			t.Errorf("%s material = %+v, want phong defaults", m.Name, m.Material)
		}
	}

	portrait := New(DefaultConfig(), 400, 800)
	if portrait.Camera.FOV != 90 || portrait.Camera.Aspect != 0.5 {
		t.Errorf("portrait camera = %+v", portrait.Camera)
	}
}

func TestModelRotationOrder(t *testing.T) {
	m := &Mesh{Rotation: Rotation{X: math.Pi / 2, Y: math.Pi / 2}}
	// Ry(90) takes +X to -Z, then Rx(90) takes -Z to +Y.
	got := m.Model().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec4{0, 1, 0, 1}
	// float32 cos(pi/2) leaves a residue near 4e-8, so compare absolutely.
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Fatalf("Model * X = %v, want %v", got, want)
		}
	}
}

func TestSunDirection(t *testing.T) {
	sun := DirectionalLight{Color: Hex(0xffffff), Intensity: 0.5, Position: mgl32.Vec3{5, 10, 7.5}}
	if d := sun.Direction(); math.Abs(float64(d.Len())-1) > 1e-5 || d.Y() <= 0 {
		t.Errorf("Direction = %v", d)
	}
	if r := sun.Radiance(); !r.ApproxEqual(mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("Radiance = %v", r)
	}
}

type recorder struct {
	meshes     []string
	background Color
	lights     Lights
	camera     Camera
	w, h       int
}

func (r *recorder) AddMesh(m *Mesh) error {
	r.meshes = append(r.meshes, m.Name)
	return nil
}

func (r *recorder) SetBackground(c Color) {
	r.background = c
}

func (r *recorder) SetLights(l Lights) {
	r.lights = l
}

func (r *recorder) SetCamera(c Camera) {
	r.camera = c
}

func (r *recorder) SetRotation(string, Rotation) {}

func (r *recorder) SetSize(width, height int) {
	r.w, r.h = width, height
}

func (r *recorder) RenderFrame() {}

func TestMount(t *testing.T) {
	s := New(DefaultConfig(), 800, 600)
	r := &recorder{}
	if err := Mount(r, s, 800, 600); err != nil {
		t.Fatal(err)
	}
	if len(r.meshes) != 2 || r.meshes[0] != PlanetName || r.meshes[1] != CarName {
		t.Errorf("meshes = %v", r.meshes)
	}
	if r.w != 800 || r.h != 600 || r.camera.FOV != 75 || r.lights.Ambient != Hex(0x404040) {
		t.Errorf("mount state = %+v", r)
	}

	s.Background = Hex(0x102030)
	r = &recorder{}
	if err := Mount(r, s, 800, 600); err != nil {
		t.Fatal(err)
	}
	if r.background != Hex(0x102030) {
		t.Errorf("background = %v, want #102030", r.background)
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.yaml")
	if err := os.WriteFile(path, []byte("controls:\n  step: 0.05\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, path, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := os.WriteFile(path, []byte("controls:\n  step: 0.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-ch:
			if cfg.Controls.Step == 0.2 {
				return
			}
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}

func TestWatchIgnoresTruncatedSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.yaml")
	if err := os.WriteFile(path, []byte("controls:\n  step: 0.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := Watch(ctx, path, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	for i := 0; i < 50; i++ {
		if err := os.Truncate(path, 0); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("controls:\n  step: 0.3\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.After(5 * time.Second)
	var got bool
	for !got {
		select {
		case cfg := <-ch:
			if cfg.Controls.Step != 0.3 {
				t.Fatalf("delivered step %v, want only 0.3", cfg.Controls.Step)
			}
			got = true
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}

	// Anything still in flight must also be the written value.
	settle := time.After(3 * reloadQuiet)
	for {
		select {
		case cfg := <-ch:
			if cfg.Controls.Step != 0.3 {
				t.Fatalf("delivered step %v after settling, want 0.3", cfg.Controls.Step)
			}
		case <-settle:
			return
		}
	}
}

func TestReloadConfigSkipsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globe.yaml")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := reloadConfig(path); !errors.Is(err, errEmptyConfig) {
		t.Errorf("reloadConfig err = %v, want errEmptyConfig", err)
	}

	// LoadConfig still treats an empty file as "all defaults".
	if cfg, err := LoadConfig(path); err != nil || cfg.Controls.Step != 0.05 {
		t.Errorf("LoadConfig = %+v, %v", cfg.Controls, err)
	}
}
