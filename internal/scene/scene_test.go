package scene

import (
	"math"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/toxichemicals/GO/holycubes/internal/config"
	"github.com/toxichemicals/GO/holycubes/internal/control"
	"github.com/toxichemicals/GO/holycubes/internal/gles"
	"github.com/toxichemicals/GO/holycubes/internal/gles/glestest"
	"github.com/toxichemicals/GO/holycubes/internal/shader"
	"github.com/toxichemicals/GO/holycubes/internal/texture"
)

// View-projection for eye (0,0,-2) looking at the origin with Y up and a
// frustum of (-1, 1, -1, 1, 1, 10), column-major.
var fixtureVP = mgl32.Mat4{
	-1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 11.0 / 9, 1,
	0, 0, 2.0 / 9, 2,
}

func fixtureView() mgl32.Mat4 {
	return mgl32.LookAtV(mgl32.Vec3{0, 0, -2}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

func TestViewProjectionFixture(t *testing.T) {
	proj, err := Projection(1, 1, 1, 10)
	if err != nil {
		t.Fatalf("Projection: %v", err)
	}
	vp := proj.Mul4(fixtureView())
	if !vp.ApproxEqualThreshold(fixtureVP, 1e-5) {
		t.Fatalf("VP =\n%v\nwant\n%v", vp, fixtureVP)
	}

	tests := []struct {
		in, want mgl32.Vec4
	}{
		{mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec4{0, 0, 2.0 / 9, 2}},
		{mgl32.Vec4{0.5, 0.5, 0.5, 1}, mgl32.Vec4{-0.5, 0.5, 5.0 / 6, 2.5}},
	}
	for _, tt := range tests {
		if got := vp.Mul4x1(tt.in); !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Fatalf("VP * %v = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMatrixComposition(t *testing.T) {
	a := mgl32.Translate3D(1, 2, 3)
	b := mgl32.HomogRotate3D(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})
	c := mgl32.Scale3D(2, 2, 2)

	if !a.Mul4(b).Mul4(c).ApproxEqualThreshold(a.Mul4(b.Mul4(c)), 1e-5) {
		t.Fatalf("matrix product is not associative")
	}
	if a.Mul4(b).ApproxEqualThreshold(b.Mul4(a), 1e-5) {
		t.Fatalf("translate and rotate commuted")
	}
}

func TestZeroDimensionProjection(t *testing.T) {
	for _, size := range [][2]int{{640, 0}, {0, 480}, {0, 0}} {
		proj, err := Projection(size[0], size[1], 1, 10)
		if !errors.Is(err, ErrDegenerateViewport) {
			t.Fatalf("%v: expected ErrDegenerateViewport, got %v", size, err)
		}
		for i, v := range proj {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("%v: element %d is %v", size, i, v)
			}
		}
		want, _ := Projection(1, 1, 1, 10)
		if proj != want {
			t.Fatalf("%v: expected the aspect 1 projection", size)
		}
	}
}

func mvpOf(t *testing.T, ctx *glestest.Context, d glestest.Draw) mgl32.Mat4 {
	t.Helper()
	key := glestest.UniformKey{Program: d.Program.Value, Location: ctx.UniformLocation(d.Program, shader.MVPUniform)}
	got := ctx.Uniforms[key]
	if len(got) != 16 {
		t.Fatalf("no MVP uploaded for program %d", d.Program.Value)
	}
	return mgl32.Mat4(got)
}

func TestDrawFrameDefaultScene(t *testing.T) {
	ctx := glestest.New()
	s := New(ctx, config.Default(), nil, nil)
	if err := s.SurfaceCreated(); err != nil {
		t.Fatalf("SurfaceCreated: %v", err)
	}
	if !ctx.IsEnabled(gles.DEPTH_TEST) {
		t.Fatalf("depth test not enabled")
	}
	s.SurfaceChanged(300, 300)
	if ctx.LastViewport() != [4]int{0, 0, 300, 300} {
		t.Fatalf("viewport %v", ctx.LastViewport())
	}

	s.DrawFrame()
	if len(ctx.Draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(ctx.Draws))
	}

	rot := mgl32.HomogRotate3D(mgl32.DegToRad(0.5), mgl32.Vec3{0, 1, 0})
	front := mvpOf(t, ctx, ctx.Draws[0])
	if !front.ApproxEqualThreshold(fixtureVP.Mul4(rot), 1e-5) {
		t.Fatalf("front cube MVP\n%v", front)
	}
	back := mvpOf(t, ctx, ctx.Draws[1])
	if !back.ApproxEqualThreshold(fixtureVP.Mul4(mgl32.Translate3D(0, 0, 2)), 1e-5) {
		t.Fatalf("back cube MVP\n%v", back)
	}
	if s.Frames() != 1 {
		t.Fatalf("frames %d", s.Frames())
	}

	s.Release()
	if ctx.Live() != 0 {
		t.Fatalf("%d GL objects leaked after Release", ctx.Live())
	}
}

func TestTouchStopsRotation(t *testing.T) {
	ctx := glestest.New()
	s := New(ctx, config.Default(), nil, nil)
	if err := s.SurfaceCreated(); err != nil {
		t.Fatalf("SurfaceCreated: %v", err)
	}
	defer s.Release()
	s.SurfaceChanged(100, 100)

	s.DrawFrame()
	s.HandlePress(0.5, 0.5)
	st := s.State()
	if st.Mode() != control.CameraDrag || st.Model != mgl32.Ident4() {
		t.Fatalf("press did not stop rotation: %+v", st)
	}
	if !st.Eye.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1.9}, 1e-5) {
		t.Fatalf("eye %v", st.Eye)
	}

	s.DrawFrame()
	s.DrawFrame()
	if s.State().Model != mgl32.Ident4() {
		t.Fatalf("model rotated while stopped")
	}

	s.HandleDrag(0.9, 0.5)
	if st := s.State(); st.Mode() != control.Rotating || st.Axis != (mgl32.Vec3{0, 1, 0}) {
		t.Fatalf("drag right: %+v", st)
	}

	s.Nudge(control.Backward)
	if !s.State().Eye.ApproxEqualThreshold(mgl32.Vec3{0, 0, -2}, 1e-5) {
		t.Fatalf("eye after nudge %v", s.State().Eye)
	}
}

func TestDegenerateSurfaceStillDraws(t *testing.T) {
	ctx := glestest.New()
	s := New(ctx, config.Default(), nil, nil)
	if err := s.SurfaceCreated(); err != nil {
		t.Fatalf("SurfaceCreated: %v", err)
	}
	defer s.Release()
	s.SurfaceChanged(640, 0)
	s.DrawFrame()
	for _, d := range ctx.Draws {
		for i, v := range mvpOf(t, ctx, d) {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("MVP element %d is %v", i, v)
			}
		}
	}
}

func texturedConfig() config.Config {
	cfg := config.Default()
	cfg.Cubes = []config.Cube{
		{Name: "crate", Variant: config.VariantTexture, Layout: config.LayoutIndexed, Edge: 1, Spin: true, Texture: "crate.png"},
		{Name: "marker", Variant: config.VariantColor, Layout: config.LayoutFlat, Edge: 0.5, Offset: mgl32.Vec3{0, 0, 2}},
	}
	return cfg
}

func TestTexturedScene(t *testing.T) {
	ctx := glestest.New()
	loader := fakeLoader{"crate.png": {Pix: make([]byte, 4*2*2), Width: 2, Height: 2}}
	s := New(ctx, texturedConfig(), loader, nil)
	if err := s.SurfaceCreated(); err != nil {
		t.Fatalf("SurfaceCreated: %v", err)
	}
	s.SurfaceChanged(200, 100)
	s.DrawFrame()

	if len(ctx.Draws) != 2 {
		t.Fatalf("expected 2 draws, got %d", len(ctx.Draws))
	}
	if !ctx.Draws[0].Indexed || ctx.Draws[0].Texture.Value == 0 {
		t.Fatalf("crate draw %+v", ctx.Draws[0])
	}
	if ctx.Draws[1].Indexed || ctx.Draws[1].Texture.Value != 0 {
		t.Fatalf("marker draw %+v", ctx.Draws[1])
	}

	s.Release()
	if ctx.Live() != 0 {
		t.Fatalf("%d GL objects leaked after Release", ctx.Live())
	}
}

func TestSurfaceCreatedFailsCleanly(t *testing.T) {
	ctx := glestest.New()
	// The second cube's texture is missing, so the first cube must be
	// released again.
	cfg := texturedConfig()
	cfg.Cubes[0], cfg.Cubes[1] = cfg.Cubes[1], cfg.Cubes[0]
	s := New(ctx, cfg, texture.FSLoader{FS: fstest.MapFS{}}, nil)

	err := s.SurfaceCreated()
	if !errors.Is(err, texture.ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
	if ctx.Live() != 0 {
		t.Fatalf("%d GL objects leaked after failed SurfaceCreated", ctx.Live())
	}
}

func TestSurfaceRecreated(t *testing.T) {
	ctx := glestest.New()
	s := New(ctx, config.Default(), nil, nil)
	for i := 0; i < 3; i++ {
		if err := s.SurfaceCreated(); err != nil {
			t.Fatalf("SurfaceCreated #%d: %v", i, err)
		}
	}
	s.HandlePress(0, 0)
	if err := s.SurfaceCreated(); err != nil {
		t.Fatalf("SurfaceCreated: %v", err)
	}
	if !s.State().Rotating {
		t.Fatalf("state not reset on surface creation")
	}
	s.Release()
	if ctx.Live() != 0 {
		t.Fatalf("%d GL objects leaked", ctx.Live())
	}
}

type fakeLoader map[string]*texture.Image

func (l fakeLoader) Load(id string) (*texture.Image, error) {
	img, ok := l[id]
	if !ok {
		return nil, errors.Wrapf(texture.ErrAssetNotFound, "%s", id)
	}
	return &texture.Image{Pix: append([]byte(nil), img.Pix...), Width: img.Width, Height: img.Height}, nil
}
