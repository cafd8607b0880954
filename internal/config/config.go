// Package config loads the YAML scene description.
package config

import (
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/toxichemicals/GO/holycubes/internal/geometry"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid scene config")

// Cube variants.
const (
	VariantColor   = "color"
	VariantTexture = "texture"
)

// Cube layouts.
const (
	LayoutFlat    = "flat"
	LayoutIndexed = "indexed"
)

type Config struct {
	Window     Window     `yaml:"window"`
	ClearColor mgl32.Vec4 `yaml:"clearColor"`
	Camera     Camera     `yaml:"camera"`
	Projection Projection `yaml:"projection"`
	Rotation   Rotation   `yaml:"rotation"`
	// Step is how far one camera nudge moves the eye.
	Step  float32 `yaml:"step"`
	Cubes []Cube  `yaml:"cubes"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Camera struct {
	Eye    mgl32.Vec3 `yaml:"eye"`
	Center mgl32.Vec3 `yaml:"center"`
	Up     mgl32.Vec3 `yaml:"up"`
}

type Projection struct {
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

type Rotation struct {
	DegreesPerFrame float32    `yaml:"degreesPerFrame"`
	Axis            mgl32.Vec3 `yaml:"axis"`
	Enabled         bool       `yaml:"enabled"`
}

type Cube struct {
	Name    string     `yaml:"name,omitempty"`
	Variant string     `yaml:"variant"`
	Layout  string     `yaml:"layout,omitempty"`
	Edge    float32    `yaml:"edge,omitempty"`
	Offset  mgl32.Vec3 `yaml:"offset,omitempty"`
	// Spin cubes follow the interactive rotation; the rest stay put.
	Spin       bool         `yaml:"spin,omitempty"`
	FaceColors []mgl32.Vec4 `yaml:"faceColors,omitempty"`
	Texture    string       `yaml:"texture,omitempty"`
}

// Default reproduces the two-cube demo: a spinning colored cube at the origin
// and a static one behind it.
func Default() Config {
	return Config{
		Window:     Window{Width: 800, Height: 600, Title: "Holy Cubes"},
		ClearColor: mgl32.Vec4{0, 0, 0, 1},
		Camera: Camera{
			Eye:    mgl32.Vec3{0, 0, -2},
			Center: mgl32.Vec3{0, 0, 0},
			Up:     mgl32.Vec3{0, 1, 0},
		},
		Projection: Projection{Near: 1, Far: 10},
		Rotation: Rotation{
			DegreesPerFrame: 0.5,
			Axis:            mgl32.Vec3{0, 1, 0},
			Enabled:         true,
		},
		Step: 0.1,
		Cubes: []Cube{
			{Name: "front", Variant: VariantColor, Layout: LayoutFlat, Edge: 1, Spin: true},
			{Name: "back", Variant: VariantColor, Layout: LayoutFlat, Edge: 1, Offset: mgl32.Vec3{0, 0, 2}},
		},
	}
}

// Load reads and validates the config at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "parse %s", path)
	}
	return cfg, nil
}

// Parse decodes data over Default and validates the result. Fields left out
// of the document keep their default values; a cubes list replaces the
// default cubes entirely.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	for i := range c.Cubes {
		cube := &c.Cubes[i]
		if cube.Layout == "" {
			cube.Layout = LayoutFlat
		}
		if cube.Edge == 0 {
			cube.Edge = 1
		}
	}
}

// Validate reports the first problem with c. Every cube must build.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return errors.Wrapf(ErrInvalid, "window size %dx%d", c.Window.Width, c.Window.Height)
	case !(c.Projection.Near > 0) || !(c.Projection.Far > c.Projection.Near):
		return errors.Wrapf(ErrInvalid, "projection near %v far %v", c.Projection.Near, c.Projection.Far)
	case !finite(c.Rotation.DegreesPerFrame):
		return errors.Wrapf(ErrInvalid, "rotation %v degrees per frame", c.Rotation.DegreesPerFrame)
	case !finite(c.Step) || c.Step < 0:
		return errors.Wrapf(ErrInvalid, "step %v", c.Step)
	case c.Camera.Eye.ApproxEqual(c.Camera.Center):
		return errors.Wrap(ErrInvalid, "camera eye and center coincide")
	case c.Camera.Up.Len() == 0:
		return errors.Wrap(ErrInvalid, "camera up vector is zero")
	case len(c.Cubes) == 0:
		return errors.Wrap(ErrInvalid, "no cubes")
	}
	for i, cube := range c.Cubes {
		if _, err := cube.Geometry(); err != nil {
			return errors.Wrapf(err, "cube %d (%s)", i, cube.Name)
		}
		if cube.Variant == VariantTexture && cube.Texture == "" {
			return errors.Wrapf(ErrInvalid, "cube %d (%s): textured cube without a texture", i, cube.Name)
		}
	}
	return nil
}

// Geometry builds the vertex data the cube describes.
func (c Cube) Geometry() (*geometry.Cube, error) {
	if !(c.Edge > 0) {
		return nil, errors.Wrapf(ErrInvalid, "edge %v", c.Edge)
	}
	b := geometry.NewBuilder().Edge(c.Edge)
	switch c.Layout {
	case LayoutFlat, "":
		b.Layout(geometry.Flat)
	case LayoutIndexed:
		b.Layout(geometry.Indexed)
	default:
		return nil, errors.Wrapf(ErrInvalid, "unknown layout %q", c.Layout)
	}
	switch c.Variant {
	case VariantColor:
		colors := geometry.DefaultFaceColors
		if len(c.FaceColors) != 0 {
			if len(c.FaceColors) != int(geometry.NumFaces) {
				return nil, errors.Wrapf(ErrInvalid, "%d face colors, want %d", len(c.FaceColors), geometry.NumFaces)
			}
			copy(colors[:], c.FaceColors)
		}
		b.FaceColors(colors)
	case VariantTexture:
		b.Textured()
	default:
		return nil, errors.Wrapf(ErrInvalid, "unknown variant %q", c.Variant)
	}
	return b.Build()
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
