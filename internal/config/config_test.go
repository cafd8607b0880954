package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/toxichemicals/GO/holycubes/internal/geometry"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Cubes) != 2 || !cfg.Cubes[0].Spin || cfg.Cubes[1].Spin {
		t.Fatalf("unexpected default cubes %+v", cfg.Cubes)
	}
	if cfg.Cubes[1].Offset != (mgl32.Vec3{0, 0, 2}) {
		t.Fatalf("back cube offset %v", cfg.Cubes[1].Offset)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	doc := `
window:
  width: 640
  height: 480
  title: crates
clearColor: [0.1, 0.1, 0.1, 1]
rotation:
  degreesPerFrame: 1
  axis: [1, 0, 0]
cubes:
  - name: crate
    variant: texture
    layout: indexed
    texture: crate.png
    spin: true
  - name: marker
    variant: color
    edge: 0.25
    offset: [1, 0, 0]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Width != 640 || cfg.Window.Title != "crates" {
		t.Fatalf("window %+v", cfg.Window)
	}
	// Unset fields keep their defaults.
	if cfg.Camera.Eye != (mgl32.Vec3{0, 0, -2}) || cfg.Step != 0.1 || !cfg.Rotation.Enabled {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Rotation.Axis != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("axis %v", cfg.Rotation.Axis)
	}
	if len(cfg.Cubes) != 2 {
		t.Fatalf("expected the document's 2 cubes, got %d", len(cfg.Cubes))
	}
	if cfg.Cubes[1].Layout != LayoutFlat || cfg.Cubes[1].Edge != 0.25 {
		t.Fatalf("marker cube %+v", cfg.Cubes[1])
	}

	g, err := cfg.Cubes[0].Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if g.Layout != geometry.Indexed || !g.Textured() {
		t.Fatalf("crate geometry layout %s textured %v", g.Layout, g.Textured())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		geom bool
	}{
		{"zero window", "window: {width: 0, height: 10}", false},
		{"far before near", "projection: {near: 5, far: 1}", false},
		{"zero near", "projection: {near: 0, far: 10}", false},
		{"eye on center", "camera: {eye: [0, 0, 0], center: [0, 0, 0], up: [0, 1, 0]}", false},
		{"no cubes", "cubes: []", false},
		{"unknown variant", "cubes: [{variant: plaid}]", false},
		{"unknown layout", "cubes: [{variant: color, layout: sparse}]", false},
		{"texture without id", "cubes: [{variant: texture}]", false},
		{"wrong color count", "cubes: [{variant: color, faceColors: [[1, 0, 0, 1]]}]", false},
		{"negative edge", "cubes: [{variant: color, edge: -1}]", false},
		{"colored indexed", "cubes: [{variant: color, layout: indexed}]", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			want := ErrInvalid
			if tt.geom {
				want = geometry.ErrInvalidGeometryRequest
			}
			if !errors.Is(err, want) {
				t.Fatalf("expected %v, got %v", want, err)
			}
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	if _, err := Parse([]byte("window: [")); err == nil {
		t.Fatalf("expected a YAML error")
	}
}

func TestCustomFaceColors(t *testing.T) {
	c := Cube{Variant: VariantColor, Layout: LayoutFlat, Edge: 1, FaceColors: []mgl32.Vec4{
		{1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}, {1, 1, 1, 1}, {0, 0, 0, 1},
	}}
	g, err := c.Geometry()
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	last := g.Colors[len(g.Colors)-geometry.ColorSize:]
	if last[0] != 0 || last[3] != 1 {
		t.Fatalf("bottom face color %v", last)
	}
}
