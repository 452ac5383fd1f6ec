package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"globedrive/internal/orbit"
)

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Window     WindowConfig   `yaml:"window"`
	Camera     CameraConfig   `yaml:"camera"`
	Planet     PlanetConfig   `yaml:"planet"`
	Car        CarConfig      `yaml:"car"`
	Lights     LightsConfig   `yaml:"lights"`
	Controls   ControlsConfig `yaml:"controls"`
	Background Color          `yaml:"background"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	Near     float64   `yaml:"near"`
	Far      float64   `yaml:"far"`
	Distance float64   `yaml:"distance"`
	FOV      FOVConfig `yaml:"fov"`
}

type FOVConfig struct {
	Portrait  float64 `yaml:"portrait"`
	Landscape float64 `yaml:"landscape"`
}

// Policy converts the config into an orbit.FOVPolicy.
func (f FOVConfig) Policy() orbit.FOVPolicy {
	return orbit.FOVPolicy{Portrait: f.Portrait, Landscape: f.Landscape}
}

type PlanetConfig struct {
	Radius         float64 `yaml:"radius"`
	WidthSegments  int     `yaml:"width_segments"`
	HeightSegments int     `yaml:"height_segments"`
	Color          Color   `yaml:"color"`
	Specular       Color   `yaml:"specular"`
	Shininess      float64 `yaml:"shininess"`
	Wireframe      bool    `yaml:"wireframe"`
}

func (p PlanetConfig) Material() Material {
	return Material{Color: p.Color, Specular: p.Specular, Shininess: p.Shininess, Wireframe: p.Wireframe}
}

// CarConfig sizes the car box. It sits Altitude above the planet surface
// along +Z and Lift above the equator along +Y.
type CarConfig struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Depth     float64 `yaml:"depth"`
	Lift      float64 `yaml:"lift"`
	Altitude  float64 `yaml:"altitude"`
	Color     Color   `yaml:"color"`
	Specular  Color   `yaml:"specular"`
	Shininess float64 `yaml:"shininess"`
}

func (c CarConfig) Material() Material {
	return Material{Color: c.Color, Specular: c.Specular, Shininess: c.Shininess}
}

type LightsConfig struct {
	Ambient     Color             `yaml:"ambient"`
	Directional DirectionalConfig `yaml:"directional"`
}

type DirectionalConfig struct {
	Color     Color      `yaml:"color"`
	Intensity float64    `yaml:"intensity"`
	Position  [3]float64 `yaml:"position"`
}

type ControlsConfig struct {
	Step       float64 `yaml:"step"`
	WrapAngles bool    `yaml:"wrap_angles"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("scene: embedded default.yaml: %v", err))
	}
	return cfg
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("scene: load %s: %w", path, err)
	}
	if err := ParseConfig(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("scene: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig unmarshals data into cfg, keeping fields data leaves out,
// and validates the result.
func ParseConfig(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip planes near=%v far=%v invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Distance <= c.Planet.Radius {
		errs = append(errs, fmt.Errorf("camera distance %v must exceed planet radius %v", c.Camera.Distance, c.Planet.Radius))
	}
	for _, fov := range []float64{c.Camera.FOV.Portrait, c.Camera.FOV.Landscape} {
		if fov <= 0 || fov >= 180 {
			errs = append(errs, fmt.Errorf("field of view %v outside (0, 180)", fov))
		}
	}
	if c.Planet.Radius <= 0 {
		errs = append(errs, fmt.Errorf("planet radius %v must be positive", c.Planet.Radius))
	}
	if c.Planet.WidthSegments < 3 || c.Planet.HeightSegments < 2 {
		errs = append(errs, fmt.Errorf("planet segments %dx%d too few", c.Planet.WidthSegments, c.Planet.HeightSegments))
	}
	if c.Car.Width <= 0 || c.Car.Height <= 0 || c.Car.Depth <= 0 {
		errs = append(errs, errors.New("car dimensions must be positive"))
	}
	if c.Planet.Shininess < 0 || c.Car.Shininess < 0 {
		errs = append(errs, errors.New("shininess must not be negative"))
	}
	if c.Controls.Step <= 0 {
		errs = append(errs, fmt.Errorf("controls step %v must be positive", c.Controls.Step))
	}
	return errors.Join(errs...)
}
