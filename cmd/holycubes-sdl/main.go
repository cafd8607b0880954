// Command holycubes-sdl hosts the cube scene in an SDL2 window. It behaves
// like holycubes but lets SDL pick the GL ES driver, which is what most
// Linux handhelds and Raspberry Pi images ship.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/toxichemicals/GO/holycubes/internal/config"
	"github.com/toxichemicals/GO/holycubes/internal/control"
	"github.com/toxichemicals/GO/holycubes/internal/gles/desktop"
	"github.com/toxichemicals/GO/holycubes/internal/scene"
	"github.com/toxichemicals/GO/holycubes/internal/texture"
)

var (
	configPath = flag.String("config", "", "scene config (YAML); built-in two-cube scene if empty")
	textureDir = flag.String("textures", ".", "directory texture ids are resolved against")
)

// Core owns the SDL window, its GL context and the scene drawn into it.
type Core struct {
	window    *sdl.Window
	glContext sdl.GLContext
	scene     *scene.Scene

	width, height int
	title         string

	running bool
	pressed bool
}

// NewCore returns a Core sized from cfg. Call Init before using it.
func NewCore(cfg config.Config) *Core {
	return &Core{
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
		title:   cfg.Window.Title,
		running: true,
	}
}

// Init creates the window and an OpenGL ES 2.0 context, then builds the scene.
func (c *Core) Init(cfg config.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_ES)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 0)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	window, err := sdl.CreateWindow(c.title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(c.width), int32(c.height), sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create SDL window: %w", err)
	}
	c.window = window

	glContext, err := window.GLCreateContext()
	if err != nil {
		c.Shutdown()
		return fmt.Errorf("failed to create OpenGL ES context: %w", err)
	}
	c.glContext = glContext
	if err := window.GLMakeCurrent(glContext); err != nil {
		c.Shutdown()
		return fmt.Errorf("failed to make context current: %w", err)
	}
	if err := sdl.GLSetSwapInterval(1); err != nil {
		log.Printf("VSync unavailable: %v", err)
	}

	ctx, err := desktop.Init()
	if err != nil {
		c.Shutdown()
		return err
	}
	log.Printf("OpenGL ES context: %s", ctx.Version())

	loader := texture.FSLoader{FS: os.DirFS(*textureDir)}
	c.scene = scene.New(ctx, cfg, loader, slog.Default())
	if err := c.scene.SurfaceCreated(); err != nil {
		c.Shutdown()
		return fmt.Errorf("scene setup failed: %w", err)
	}
	w, h := window.GLGetDrawableSize()
	c.scene.SurfaceChanged(int(w), int(h))
	return nil
}

// ShouldClose reports whether the window was closed or Escape was pressed.
func (c *Core) ShouldClose() bool {
	return !c.running
}

// PollEvents drains the SDL queue. SDL synthesizes mouse events from touch,
// so the left button covers fingers too.
func (c *Core) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event := event.(type) {
		case *sdl.QuitEvent:
			c.running = false
		case *sdl.KeyboardEvent:
			if event.Type != sdl.KEYDOWN {
				continue
			}
			if event.Keysym.Sym == sdl.K_ESCAPE {
				c.running = false
				continue
			}
			if dir, ok := nudgeKeys[event.Keysym.Sym]; ok {
				c.scene.Nudge(dir)
			}
		case *sdl.MouseButtonEvent:
			if event.Button != sdl.BUTTON_LEFT {
				continue
			}
			if event.Type == sdl.MOUSEBUTTONDOWN {
				c.pressed = true
				c.scene.HandlePress(c.normalize(event.X, event.Y))
			} else {
				c.pressed = false
			}
		case *sdl.MouseMotionEvent:
			if c.pressed {
				c.scene.HandleDrag(c.normalize(event.X, event.Y))
			}
		case *sdl.WindowEvent:
			if event.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w, h := c.window.GetSize()
				c.width, c.height = int(w), int(h)
				dw, dh := c.window.GLGetDrawableSize()
				c.scene.SurfaceChanged(int(dw), int(dh))
			}
		}
	}
}

var nudgeKeys = map[sdl.Keycode]control.Direction{
	sdl.K_LEFT:     control.Left,
	sdl.K_RIGHT:    control.Right,
	sdl.K_UP:       control.Up,
	sdl.K_DOWN:     control.Down,
	sdl.K_PAGEUP:   control.Forward,
	sdl.K_PAGEDOWN: control.Backward,
}

func (c *Core) normalize(x, y int32) (float32, float32) {
	if c.width <= 0 || c.height <= 0 {
		return 0, 0
	}
	return float32(x) / float32(c.width), float32(y) / float32(c.height)
}

// DrawFrame renders the scene and presents it.
func (c *Core) DrawFrame() {
	c.scene.DrawFrame()
	c.window.GLSwap()
}

// Shutdown releases GL objects, then the context and window.
func (c *Core) Shutdown() {
	if c.scene != nil {
		c.scene.Release()
		c.scene = nil
	}
	if c.glContext != nil {
		sdl.GLDeleteContext(c.glContext)
		c.glContext = nil
	}
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	sdl.Quit()
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Config: %v", err)
		}
	}

	runtime.LockOSThread()

	core := NewCore(cfg)
	if err := core.Init(cfg); err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}
	defer core.Shutdown()

	for !core.ShouldClose() {
		core.PollEvents()
		core.DrawFrame()
	}
	log.Printf("Drew %d frames.", core.scene.Frames())
}
