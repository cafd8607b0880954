// Package gltfexport writes built cube geometry to glTF so it can be
// inspected in any model viewer.
package gltfexport

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/toxichemicals/GO/holycubes/internal/geometry"
)

// Document converts a cube into a single-mesh, single-node glTF document.
func Document(name string, c *geometry.Cube) *gltf.Document {
	doc := gltf.NewDocument()

	positions := make([][3]float32, 0, c.VertexCount())
	for i := 0; i < len(c.Positions); i += geometry.PositionSize {
		positions = append(positions, [3]float32{c.Positions[i], c.Positions[i+1], c.Positions[i+2]})
	}

	attrs := gltf.PrimitiveAttributes{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}
	if c.Textured() {
		uvs := make([][2]float32, 0, len(c.TexCoords)/geometry.TexCoordSize)
		for i := 0; i < len(c.TexCoords); i += geometry.TexCoordSize {
			uvs = append(uvs, [2]float32{c.TexCoords[i], c.TexCoords[i+1]})
		}
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
	} else {
		colors := make([][4]uint8, 0, len(c.Colors)/geometry.ColorSize)
		for i := 0; i < len(c.Colors); i += geometry.ColorSize {
			colors = append(colors, [4]uint8{
				unorm8(c.Colors[i]), unorm8(c.Colors[i+1]), unorm8(c.Colors[i+2]), unorm8(c.Colors[i+3]),
			})
		}
		attrs[gltf.COLOR_0] = modeler.WriteColor(doc, colors)
	}

	prim := &gltf.Primitive{Attributes: attrs}
	if c.Layout == geometry.Indexed {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, c.Indices))
	}

	doc.Meshes = []*gltf.Mesh{{Name: name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

// Save writes the cube as a binary glTF (.glb) file.
func Save(path, name string, c *geometry.Cube) error {
	if err := gltf.SaveBinary(Document(name, c), path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

func unorm8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
