package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/toxichemicals/GO/holycubes/internal/config"
	"github.com/toxichemicals/GO/holycubes/internal/control"
	"github.com/toxichemicals/GO/holycubes/internal/gles/desktop"
	"github.com/toxichemicals/GO/holycubes/internal/scene"
	"github.com/toxichemicals/GO/holycubes/internal/texture"
)

var (
	configPath = flag.String("config", "", "scene config (YAML); built-in two-cube scene if empty")
	textureDir = flag.String("textures", ".", "directory texture ids are resolved against")
	exportDir  = flag.String("export-gltf", "", "write every configured cube as a .glb into this directory and exit")
	verbose    = flag.Bool("v", false, "debug logging")
)

// AppCore holds the window and the scene it drives.
type AppCore struct {
	window *glfw.Window
	scene  *scene.Scene
	cfg    config.Config

	// Window dimensions in screen coordinates, used to normalize the cursor.
	width, height int
	title         string

	// Touch emulation: the left button is the finger.
	pressed bool

	// FPS Counter state
	fpsFrames         int
	fpsLastUpdateTime time.Time

	// VSync Control state
	vsyncEnabled   bool
	vKeyWasPressed bool
}

var app *AppCore

// initApp loads the config, opens the window and creates the scene.
func initApp(cfg config.Config) error {
	app = &AppCore{
		cfg:    cfg,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
		title:  cfg.Window.Title,
	}

	if err := app.initializeWindow(); err != nil {
		return fmt.Errorf("window initialization failed: %w", err)
	}

	if err := app.initializeScene(); err != nil {
		return fmt.Errorf("scene setup failed: %w", err)
	}

	app.fpsLastUpdateTime = time.Now()
	return nil
}

// initializeWindow creates an OpenGL ES 2.0 window and wires its callbacks.
func (a *AppCore) initializeWindow() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)

	window, err := glfw.CreateWindow(a.width, a.height, a.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	a.window = window
	a.window.MakeContextCurrent()

	a.vsyncEnabled = true
	glfw.SwapInterval(1)
	log.Println("VSync ON (default)")

	a.window.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		a.width = width
		a.height = height
	})

	a.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if a.scene != nil {
			a.scene.SurfaceChanged(width, height)
		}
	})

	a.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft || a.scene == nil {
			return
		}
		switch action {
		case glfw.Press:
			a.pressed = true
			x, y := a.normalize(w.GetCursorPos())
			a.scene.HandlePress(x, y)
		case glfw.Release:
			a.pressed = false
		}
	})

	a.window.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if !a.pressed || a.scene == nil {
			return
		}
		a.scene.HandleDrag(a.normalize(xpos, ypos))
	})

	a.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Release || a.scene == nil {
			return
		}
		if dir, ok := nudgeKeys[key]; ok {
			a.scene.Nudge(dir)
		}
	})

	return nil
}

var nudgeKeys = map[glfw.Key]control.Direction{
	glfw.KeyLeft:     control.Left,
	glfw.KeyRight:    control.Right,
	glfw.KeyUp:       control.Up,
	glfw.KeyDown:     control.Down,
	glfw.KeyPageUp:   control.Forward,
	glfw.KeyPageDown: control.Backward,
}

// normalize maps a cursor position to [0,1] with y growing downwards, the
// way touch coordinates arrive on a phone.
func (a *AppCore) normalize(x, y float64) (float32, float32) {
	w, h := a.width, a.height
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return float32(x / float64(w)), float32(y / float64(h))
}

// initializeScene binds GL and builds the meshes.
func (a *AppCore) initializeScene() error {
	ctx, err := desktop.Init()
	if err != nil {
		glfw.Terminate()
		return err
	}
	log.Printf("OpenGL ES context: %s", ctx.Version())

	loader := texture.FSLoader{FS: os.DirFS(*textureDir)}
	a.scene = scene.New(ctx, a.cfg, loader, slog.Default())
	if err := a.scene.SurfaceCreated(); err != nil {
		return err
	}
	a.scene.SurfaceChanged(a.window.GetFramebufferSize())
	return nil
}

// processInput polls events and handles the keys that belong to the window.
func (a *AppCore) processInput() {
	glfw.PollEvents()

	if a.window.GetKey(glfw.KeyEscape) == glfw.Press {
		a.window.SetShouldClose(true)
	}

	currentVState := a.window.GetKey(glfw.KeyV)
	if currentVState == glfw.Press && !a.vKeyWasPressed {
		a.vsyncEnabled = !a.vsyncEnabled
		if a.vsyncEnabled {
			glfw.SwapInterval(1)
			log.Println("VSync: ON (FPS capped)")
		} else {
			glfw.SwapInterval(0)
			log.Println("VSync: OFF (FPS uncapped)")
		}
	}
	a.vKeyWasPressed = (currentVState == glfw.Press)
}

// renderScene draws one frame and swaps buffers.
func (a *AppCore) renderScene() {
	a.scene.DrawFrame()
	a.window.SwapBuffers()
}

// updateAndDisplayFPS calculates and displays FPS in the window title.
func (a *AppCore) updateAndDisplayFPS() {
	a.fpsFrames++
	if time.Since(a.fpsLastUpdateTime) >= time.Second {
		fps := float64(a.fpsFrames) / time.Since(a.fpsLastUpdateTime).Seconds()
		a.window.SetTitle(fmt.Sprintf("%s | FPS: %.2f", a.title, fps))
		a.fpsFrames = 0
		a.fpsLastUpdateTime = time.Now()
	}
}

// shutdownApp releases GL objects before the context goes away.
func shutdownApp() {
	if app == nil {
		return
	}
	if app.scene != nil {
		app.scene.Release()
	}
	if app.window != nil {
		app.window.Destroy()
	}
	glfw.Terminate()
}

func loadConfig() (config.Config, error) {
	if *configPath == "" {
		return config.Default(), nil
	}
	return config.Load(*configPath)
}

func main() {
	flag.Parse()
	if *verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	if *exportDir != "" {
		if err := exportCubes(*exportDir, cfg); err != nil {
			log.Fatalf("glTF export failed: %v", err)
		}
		return
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer shutdownApp()

	if err := initApp(cfg); err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	log.Println("Scene initialized. Starting main loop...")

	for !app.window.ShouldClose() {
		app.processInput()
		app.renderScene()
		app.updateAndDisplayFPS()
	}

	log.Println("Shutting down.")
}
