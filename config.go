package prism

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// MeshShape selects the mesh used for every grid cell.
type MeshShape string

const (
	ShapeQuad MeshShape = "quad"
	ShapeCube MeshShape = "cube"
)

// Config is the complete scene configuration. Zero values are not usable;
// start from DefaultConfig and override.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Camera CameraConfig `yaml:"camera"`
	Input  InputConfig  `yaml:"input"`
	Grid   GridConfig   `yaml:"grid"`

	ClearColor Color `yaml:"clear_color"`

	// RecenterDuration is the recentre animation length in seconds.
	RecenterDuration float32 `yaml:"recenter_duration"`

	// ScreenshotDir is where scripted screenshots are written.
	ScreenshotDir string `yaml:"screenshot_dir"`

	// Debug enables per-frame stats at debug log level.
	Debug bool `yaml:"debug"`
}

// WindowConfig sizes the host window in window coordinates.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// CameraConfig configures the orthographic camera.
type CameraConfig struct {
	Position mgl32.Vec3 `yaml:"position,flow"`

	Zoom     float32 `yaml:"zoom"`
	MinZoom  float32 `yaml:"min_zoom"`
	MaxZoom  float32 `yaml:"max_zoom"`
	ZoomStep float32 `yaml:"zoom_step"`

	// FieldOfView is the vertical field of view in degrees at zoom 1.
	FieldOfView float32 `yaml:"field_of_view"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
}

// InputConfig configures the pan state machine.
type InputConfig struct {
	DragThreshold float32 `yaml:"drag_threshold"`
}

// GridConfig lays out the sample grid.
type GridConfig struct {
	Columns int       `yaml:"columns"`
	Rows    int       `yaml:"rows"`
	Spacing float32   `yaml:"spacing"`
	Shape   MeshShape `yaml:"shape"`

	// Texture is a file path or http(s) URL loaded asynchronously. Empty
	// keeps the placeholder.
	Texture string `yaml:"texture"`

	// Animation is one of "none", "spin", "tumble" or "pulse".
	Animation string `yaml:"animation"`
}

// DefaultConfig returns the configuration of the sample scene.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "prism",
			Width:  1280,
			Height: 720,
		},
		Camera: CameraConfig{
			Position:    mgl32.Vec3{0, 0, 10},
			Zoom:        1,
			MinZoom:     0.1,
			MaxZoom:     3.7,
			ZoomStep:    1.1,
			FieldOfView: 45,
			Near:        0.1,
			Far:         100,
		},
		Input: InputConfig{DragThreshold: DefaultDragThreshold},
		Grid: GridConfig{
			Columns:   8,
			Rows:      3,
			Spacing:   3.4641016,
			Shape:     ShapeQuad,
			Animation: "tumble",
		},
		ClearColor:       ColorBlack,
		RecenterDuration: 0.4,
		ScreenshotDir:    "screenshots",
	}
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Fields missing from data keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	cam := c.Camera
	if cam.MinZoom <= 0 || cam.MaxZoom < cam.MinZoom {
		bad("zoom range [%g, %g]", cam.MinZoom, cam.MaxZoom)
	}
	if cam.ZoomStep <= 1 {
		bad("zoom_step %g must be greater than 1", cam.ZoomStep)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		bad("clip range near=%g far=%g", cam.Near, cam.Far)
	}
	if cam.FieldOfView <= 0 {
		bad("field_of_view %g must be positive", cam.FieldOfView)
	} else if float64(mgl32.DegToRad(cam.FieldOfView)*cam.MaxZoom) >= math.Pi {
		bad("field_of_view %g at max_zoom %g reaches 180 degrees", cam.FieldOfView, cam.MaxZoom)
	}

	if c.Input.DragThreshold < 0 {
		bad("drag_threshold %g is negative", c.Input.DragThreshold)
	}

	g := c.Grid
	if g.Columns < 0 || g.Rows < 0 {
		bad("grid %dx%d is negative", g.Columns, g.Rows)
	}
	if g.Shape != ShapeQuad && g.Shape != ShapeCube {
		bad("unknown shape %q", g.Shape)
	}
	if _, ok := animators[g.Animation]; !ok {
		bad("unknown animation %q", g.Animation)
	}
	if c.RecenterDuration < 0 {
		bad("recenter_duration %g is negative", c.RecenterDuration)
	}
	return errors.Join(errs...)
}
