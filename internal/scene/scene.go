// Package scene owns the cubes, the camera and the per-frame transform
// pipeline. Hosts drive it through the surface lifecycle callbacks and feed
// it normalized touch events.
package scene

import (
	"log/slog"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/toxichemicals/GO/holycubes/internal/config"
	"github.com/toxichemicals/GO/holycubes/internal/control"
	"github.com/toxichemicals/GO/holycubes/internal/gles"
	"github.com/toxichemicals/GO/holycubes/internal/mesh"
	"github.com/toxichemicals/GO/holycubes/internal/texture"
)

// ErrDegenerateViewport is logged when the surface has a zero dimension.
var ErrDegenerateViewport = errors.New("degenerate viewport")

// Projection returns the symmetric frustum for a w by h surface. A zero
// dimension falls back to aspect 1 and reports ErrDegenerateViewport along
// with a usable matrix.
func Projection(w, h int, near, far float32) (mgl32.Mat4, error) {
	var err error
	ratio := float32(1)
	if w > 0 && h > 0 {
		ratio = float32(w) / float32(h)
	} else {
		err = errors.Wrapf(ErrDegenerateViewport, "%dx%d", w, h)
	}
	return mgl32.Frustum(-ratio, ratio, -1, 1, near, far), err
}

type object struct {
	name   string
	mesh   *mesh.Mesh
	offset mgl32.Mat4
	spin   bool
}

// Scene is safe for concurrent use: lifecycle callbacks and touch handlers
// may run on different goroutines. GL calls happen only in SurfaceCreated,
// SurfaceChanged, DrawFrame and Release, which must run on the GL thread.
type Scene struct {
	mu sync.Mutex

	ctx    gles.Context
	cfg    config.Config
	loader texture.Loader
	log    *slog.Logger

	ctrl       control.Controller
	state      control.State
	projection mgl32.Mat4
	textures   *texture.Store
	objects    []object
	frames     uint64
}

// New returns a scene for cfg. Nothing touches the GPU until SurfaceCreated.
func New(ctx gles.Context, cfg config.Config, loader texture.Loader, log *slog.Logger) *Scene {
	if log == nil {
		log = slog.Default()
	}
	s := &Scene{
		ctx:    ctx,
		cfg:    cfg,
		loader: loader,
		log:    log,
		ctrl:   control.Controller{Step: cfg.Step},
	}
	s.resetState()
	s.projection, _ = Projection(cfg.Window.Width, cfg.Window.Height, cfg.Projection.Near, cfg.Projection.Far)
	return s
}

func (s *Scene) resetState() {
	s.state = control.State{
		Eye:      s.cfg.Camera.Eye,
		Center:   s.cfg.Camera.Center,
		Up:       s.cfg.Camera.Up,
		Model:    mgl32.Ident4(),
		Axis:     s.cfg.Rotation.Axis,
		Rotating: s.cfg.Rotation.Enabled,
	}
}

// SurfaceCreated sets the fixed pipeline state and builds every cube. It may
// be called again after the GL context is lost; the previous meshes are
// released first and the camera starts over.
func (s *Scene) SurfaceCreated() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()

	c := s.cfg.ClearColor
	s.ctx.ClearColor(c[0], c[1], c[2], c[3])
	s.ctx.Enable(gles.DEPTH_TEST)

	s.textures = texture.NewStore(s.ctx, s.loader, s.log)
	for i, cc := range s.cfg.Cubes {
		obj, err := s.buildObject(cc)
		if err != nil {
			s.releaseLocked()
			return errors.Wrapf(err, "cube %d (%s)", i, cc.Name)
		}
		s.objects = append(s.objects, obj)
	}
	s.resetState()
	s.frames = 0

	s.log.Info("surface created", "cubes", len(s.objects))
	return nil
}

func (s *Scene) buildObject(cc config.Cube) (object, error) {
	geom, err := cc.Geometry()
	if err != nil {
		return object{}, err
	}
	var tex gles.Texture
	if cc.Variant == config.VariantTexture {
		if tex, err = s.textures.Get(cc.Texture); err != nil {
			return object{}, err
		}
	}
	m, err := mesh.New(s.ctx, geom, tex)
	if err != nil {
		return object{}, err
	}
	return object{
		name:   cc.Name,
		mesh:   m,
		offset: mgl32.Translate3D(cc.Offset[0], cc.Offset[1], cc.Offset[2]),
		spin:   cc.Spin,
	}, nil
}

// SurfaceChanged resizes the viewport and rebuilds the projection.
func (s *Scene) SurfaceChanged(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx.Viewport(0, 0, w, h)
	proj, err := Projection(w, h, s.cfg.Projection.Near, s.cfg.Projection.Far)
	if err != nil {
		s.log.Warn("using aspect 1", "error", err)
	}
	s.projection = proj
	s.log.Debug("surface changed", "width", w, "height", h)
}

// DrawFrame clears the surface, advances the rotation and draws every cube in
// configuration order.
func (s *Scene) DrawFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx.Clear(gles.COLOR_BUFFER_BIT | gles.DEPTH_BUFFER_BIT)

	vp := s.projection.Mul4(s.state.View())
	s.state.Advance(s.cfg.Rotation.DegreesPerFrame)

	for _, obj := range s.objects {
		model := obj.offset
		if obj.spin {
			model = s.state.Model.Mul4(obj.offset)
		}
		if err := obj.mesh.Draw(vp.Mul4(model)); err != nil {
			s.log.Error("draw failed", "cube", obj.name, "error", err)
		}
	}
	s.frames++
}

// HandlePress handles a touch-down at normalized (x, y).
func (s *Scene) HandlePress(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Press(&s.state, x, y)
}

// HandleDrag handles touch motion at normalized (x, y).
func (s *Scene) HandleDrag(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Drag(&s.state, x, y)
}

// Nudge moves the camera one step without touching the rotation.
func (s *Scene) Nudge(dir control.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Eye = control.ApplyNudge(s.state.Eye, dir, s.ctrl.Step)
}

// State returns a copy of the interaction state.
func (s *Scene) State() control.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frames reports how many frames were drawn since the surface was created.
func (s *Scene) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Release deletes every GPU object the scene created.
func (s *Scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
	s.log.Info("scene released")
}

func (s *Scene) releaseLocked() {
	for _, obj := range s.objects {
		obj.mesh.Release()
	}
	s.objects = nil
	if s.textures != nil {
		s.textures.Release()
		s.textures = nil
	}
}
