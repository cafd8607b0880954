//go:build darwin || linux || windows

// Command holycubes-mobile is the gomobile build of the cube scene. Touch
// events drive the camera the same way the mouse does on desktop.
//
//	$ gomobile build github.com/toxichemicals/GO/holycubes/cmd/holycubes-mobile
package main

import (
	"io"
	"log"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/mobile/app"
	"golang.org/x/mobile/asset"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
	"golang.org/x/mobile/gl"

	"github.com/toxichemicals/GO/holycubes/internal/config"
	"github.com/toxichemicals/GO/holycubes/internal/gles/mobile"
	"github.com/toxichemicals/GO/holycubes/internal/scene"
	"github.com/toxichemicals/GO/holycubes/internal/texture"
)

func main() {
	cfg := loadConfig()

	app.Main(func(a app.App) {
		var glctx gl.Context
		var s *scene.Scene
		var sz size.Event
		for e := range a.Events() {
			switch e := a.Filter(e).(type) {
			case lifecycle.Event:
				switch e.Crosses(lifecycle.StageVisible) {
				case lifecycle.CrossOn:
					glctx, _ = e.DrawContext.(gl.Context)
					s = scene.New(mobile.New(glctx), cfg, assetLoader{}, slog.Default())
					if err := s.SurfaceCreated(); err != nil {
						log.Printf("error creating scene: %v", err)
						s = nil
						continue
					}
					if sz.WidthPx > 0 {
						s.SurfaceChanged(sz.WidthPx, sz.HeightPx)
					}
					a.Send(paint.Event{})
				case lifecycle.CrossOff:
					if s != nil {
						s.Release()
					}
					s = nil
					glctx = nil
				}
			case size.Event:
				sz = e
				if s != nil {
					s.SurfaceChanged(sz.WidthPx, sz.HeightPx)
				}
			case paint.Event:
				if glctx == nil || s == nil || e.External {
					continue
				}
				s.DrawFrame()
				a.Publish()
				a.Send(paint.Event{})
			case touch.Event:
				if s == nil || sz.WidthPx == 0 || sz.HeightPx == 0 {
					continue
				}
				x := e.X / float32(sz.WidthPx)
				y := e.Y / float32(sz.HeightPx)
				switch e.Type {
				case touch.TypeBegin:
					s.HandlePress(x, y)
				case touch.TypeMove:
					s.HandleDrag(x, y)
				}
			}
		}
	})
}

// loadConfig reads scene.yaml from the app assets, falling back to the
// built-in scene.
func loadConfig() config.Config {
	f, err := asset.Open("scene.yaml")
	if err != nil {
		return config.Default()
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		log.Printf("reading scene.yaml: %v", err)
		return config.Default()
	}
	cfg, err := config.Parse(data)
	if err != nil {
		log.Printf("scene.yaml: %v; using the built-in scene", err)
		return config.Default()
	}
	return cfg
}

// assetLoader decodes textures packaged in the app's assets directory.
type assetLoader struct{}

func (assetLoader) Load(id string) (*texture.Image, error) {
	f, err := asset.Open(id)
	if err != nil {
		return nil, errors.Wrapf(texture.ErrAssetNotFound, "%s: %v", id, err)
	}
	defer f.Close()
	return texture.Decode(id, f)
}
