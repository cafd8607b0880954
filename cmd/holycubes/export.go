package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/toxichemicals/GO/holycubes/internal/config"
	"github.com/toxichemicals/GO/holycubes/internal/geometry/gltfexport"
)

// exportCubes writes each configured cube to dir as <name>.glb.
func exportCubes(dir string, cfg config.Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for i, cube := range cfg.Cubes {
		g, err := cube.Geometry()
		if err != nil {
			return fmt.Errorf("cube %d: %w", i, err)
		}
		name := cube.Name
		if name == "" {
			name = fmt.Sprintf("cube%d", i)
		}
		path := filepath.Join(dir, name+".glb")
		if err := gltfexport.Save(path, name, g); err != nil {
			return err
		}
		log.Printf("Wrote %s (%s, %d vertices)", path, g.Layout, g.VertexCount())
	}
	return nil
}
