package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Builder collects a cube description and validates it in Build.
type Builder struct {
	corners  [8]mgl32.Vec3
	layout   Layout
	colors   *[NumFaces]mgl32.Vec4
	quadUV   *[4]mgl32.Vec2
	cornerUV *[8]mgl32.Vec2
}

// NewBuilder starts from a unit cube (edge 1) with the flat layout and no
// attributes.
func NewBuilder() *Builder {
	return &Builder{corners: UnitCorners(1)}
}

// Corners replaces the 8 corner positions, indexed by the FrontBottomLeft..
// BackTopRight constants.
func (b *Builder) Corners(c [8]mgl32.Vec3) *Builder {
	b.corners = c
	return b
}

// Edge resizes the cube to the given edge length around the origin.
func (b *Builder) Edge(edge float32) *Builder {
	b.corners = UnitCorners(edge)
	return b
}

// Layout selects flat or indexed storage.
func (b *Builder) Layout(l Layout) *Builder {
	b.layout = l
	return b
}

// FaceColors gives each face one solid color.
func (b *Builder) FaceColors(c [NumFaces]mgl32.Vec4) *Builder {
	b.colors = &c
	return b
}

// QuadUV maps the same texture quad onto every face of a flat cube.
func (b *Builder) QuadUV(uv [4]mgl32.Vec2) *Builder {
	b.quadUV = &uv
	return b
}

// CornerUV assigns one texture coordinate per corner of an indexed cube.
func (b *Builder) CornerUV(uv [8]mgl32.Vec2) *Builder {
	b.cornerUV = &uv
	return b
}

// Textured picks the default texture mapping for the builder's layout.
func (b *Builder) Textured() *Builder {
	if b.layout == Indexed {
		return b.CornerUV(DefaultCornerUV)
	}
	return b.QuadUV(DefaultQuadUV)
}

func (b *Builder) validate() error {
	textured := b.quadUV != nil || b.cornerUV != nil
	switch {
	case b.colors != nil && textured:
		return errors.Wrap(ErrInvalidGeometryRequest, "a cube is either colored or textured, not both")
	case b.colors == nil && !textured:
		return errors.Wrap(ErrInvalidGeometryRequest, "a cube needs face colors or texture coordinates")
	case b.layout == Indexed && b.colors != nil:
		return errors.Wrap(ErrInvalidGeometryRequest, "face colors need the flat layout")
	case b.layout == Indexed && b.quadUV != nil:
		return errors.Wrap(ErrInvalidGeometryRequest, "per-face texture quads need the flat layout")
	case b.layout == Flat && b.cornerUV != nil:
		return errors.Wrap(ErrInvalidGeometryRequest, "per-corner texture coordinates need the indexed layout")
	case b.layout != Flat && b.layout != Indexed:
		return errors.Wrapf(ErrInvalidGeometryRequest, "unknown layout %d", b.layout)
	}
	return nil
}

// Build produces the vertex arrays. It never returns a partial cube.
func (b *Builder) Build() (*Cube, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if b.layout == Indexed {
		return b.buildIndexed(), nil
	}
	return b.buildFlat(), nil
}

func (b *Builder) buildFlat() *Cube {
	c := &Cube{
		Layout:    Flat,
		Corners:   b.corners,
		Positions: make([]float32, 0, FlatVertexCount*PositionSize),
	}
	if b.colors != nil {
		c.Colors = make([]float32, 0, FlatVertexCount*ColorSize)
	} else {
		c.TexCoords = make([]float32, 0, FlatVertexCount*TexCoordSize)
	}

	for f := Face(0); f < NumFaces; f++ {
		quad := faceQuads[f]
		for _, q := range quadTriangles {
			p := b.corners[quad[q]]
			c.Positions = append(c.Positions, p[0], p[1], p[2])
			if b.colors != nil {
				col := b.colors[f]
				c.Colors = append(c.Colors, col[0], col[1], col[2], col[3])
			} else {
				uv := b.quadUV[q]
				c.TexCoords = append(c.TexCoords, uv[0], uv[1])
			}
		}
	}
	return c
}

func (b *Builder) buildIndexed() *Cube {
	c := &Cube{
		Layout:    Indexed,
		Corners:   b.corners,
		Positions: make([]float32, 0, 8*PositionSize),
		TexCoords: make([]float32, 0, 8*TexCoordSize),
		Indices:   make([]uint16, 0, IndexCount),
	}
	for i, p := range b.corners {
		uv := b.cornerUV[i]
		c.Positions = append(c.Positions, p[0], p[1], p[2])
		c.TexCoords = append(c.TexCoords, uv[0], uv[1])
	}
	for f := Face(0); f < NumFaces; f++ {
		quad := faceQuads[f]
		for _, q := range quadTriangles {
			c.Indices = append(c.Indices, uint16(quad[q]))
		}
	}
	return c
}
