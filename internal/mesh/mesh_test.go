package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/toxichemicals/GO/holycubes/internal/geometry"
	"github.com/toxichemicals/GO/holycubes/internal/gles"
	"github.com/toxichemicals/GO/holycubes/internal/gles/glestest"
	"github.com/toxichemicals/GO/holycubes/internal/shader"
)

func colored(t *testing.T) *geometry.Cube {
	t.Helper()
	c, err := geometry.NewBuilder().FaceColors(geometry.DefaultFaceColors).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func texturedIndexed(t *testing.T) *geometry.Cube {
	t.Helper()
	c, err := geometry.NewBuilder().Layout(geometry.Indexed).Textured().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func TestDrawFlatColored(t *testing.T) {
	ctx := glestest.New()
	m, err := New(ctx, colored(t), gles.Texture{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Release()

	mvp := mgl32.Translate3D(1, 2, 3)
	if err := m.Draw(mvp); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(ctx.Draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(ctx.Draws))
	}
	d := ctx.Draws[0]
	if d.Indexed || d.Count != geometry.FlatVertexCount || d.Mode != gles.TRIANGLES {
		t.Fatalf("unexpected draw %+v", d)
	}
	if len(d.Enabled) != 2 {
		t.Fatalf("expected position and color arrays enabled, got %v", d.Enabled)
	}
	if d.Program != m.Program().Handle() {
		t.Fatalf("drew with program %d, want %d", d.Program.Value, m.Program().Handle().Value)
	}

	key := glestest.UniformKey{Program: d.Program.Value, Location: ctx.UniformLocation(d.Program, shader.MVPUniform)}
	if got := ctx.Uniforms[key]; mgl32.Mat4(got) != mvp {
		t.Fatalf("uploaded MVP %v, want %v", got, mvp)
	}

	if len(ctx.Enabled()) != 0 {
		t.Fatalf("attribute arrays left enabled after Draw: %v", ctx.Enabled())
	}
}

func TestDrawIndexedTextured(t *testing.T) {
	ctx := glestest.New()
	tex := ctx.CreateTexture()
	m, err := New(ctx, texturedIndexed(t), tex)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Release()

	if err := m.Draw(mgl32.Ident4()); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	d := ctx.Draws[0]
	if !d.Indexed || d.Count != geometry.IndexCount {
		t.Fatalf("expected an indexed draw of %d, got %+v", geometry.IndexCount, d)
	}
	if d.Element.Value == 0 {
		t.Fatalf("no element buffer bound at draw time")
	}
	if d.Texture != tex {
		t.Fatalf("drew with texture %d, want %d", d.Texture.Value, tex.Value)
	}
	if m.Variant() != shader.Textured {
		t.Fatalf("variant %s", m.Variant())
	}
}

// Drawing a textured mesh and then a colored one must not leave the texture
// coordinate array enabled for the second draw.
func TestNoStateLeaksBetweenMeshes(t *testing.T) {
	ctx := glestest.New()
	tex := ctx.CreateTexture()
	a, err := New(ctx, texturedIndexed(t), tex)
	if err != nil {
		t.Fatalf("New textured: %v", err)
	}
	defer a.Release()
	b, err := New(ctx, colored(t), gles.Texture{})
	if err != nil {
		t.Fatalf("New colored: %v", err)
	}
	defer b.Release()

	for i := 0; i < 2; i++ {
		if err := a.Draw(mgl32.Ident4()); err != nil {
			t.Fatalf("Draw textured: %v", err)
		}
		if on := ctx.Enabled(); len(on) != 0 {
			t.Fatalf("round %d: arrays %v still enabled after the textured draw", i, on)
		}
		if err := b.Draw(mgl32.Ident4()); err != nil {
			t.Fatalf("Draw colored: %v", err)
		}
		if on := ctx.Enabled(); len(on) != 0 {
			t.Fatalf("round %d: arrays %v still enabled after the colored draw", i, on)
		}
	}
	if len(ctx.Draws) != 4 {
		t.Fatalf("expected 4 draws, got %d", len(ctx.Draws))
	}
	for i, d := range ctx.Draws {
		if len(d.Enabled) != 2 {
			t.Fatalf("draw %d: enabled arrays %v", i, d.Enabled)
		}
		if i%2 == 1 {
			if d.Texture.Value != 0 {
				t.Fatalf("draw %d: colored cube drawn with texture %d bound", i, d.Texture.Value)
			}
			if d.Element.Value != 0 {
				t.Fatalf("draw %d: element buffer still bound", i)
			}
		}
	}
}

func TestNewRejectsMismatchedTexture(t *testing.T) {
	ctx := glestest.New()
	if _, err := New(ctx, texturedIndexed(t), gles.Texture{}); !errors.Is(err, geometry.ErrInvalidGeometryRequest) {
		t.Fatalf("textured cube without texture: got %v", err)
	}
	if _, err := New(ctx, colored(t), gles.Texture{Value: 9}); !errors.Is(err, geometry.ErrInvalidGeometryRequest) {
		t.Fatalf("colored cube with texture: got %v", err)
	}
	if ctx.Live() != 0 {
		t.Fatalf("%d GL objects leaked", ctx.Live())
	}
}

func TestNewCleansUpOnLinkFailure(t *testing.T) {
	ctx := glestest.New()
	ctx.FailLink = true
	var le *shader.LinkError
	if _, err := New(ctx, colored(t), gles.Texture{}); !errors.As(err, &le) {
		t.Fatalf("expected *shader.LinkError, got %v", err)
	}
	if ctx.Live() != 0 {
		t.Fatalf("%d GL objects leaked", ctx.Live())
	}
}

func TestReleaseFreesEverything(t *testing.T) {
	ctx := glestest.New()
	m, err := New(ctx, texturedIndexed(t), gles.Texture{Value: 1000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Release()
	m.Release()
	if ctx.Live() != 0 {
		t.Fatalf("%d GL objects leaked after Release", ctx.Live())
	}
}
