// Package geometry builds the static vertex data for cube meshes.
package geometry

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/mobile/exp/f32"
)

// ErrInvalidGeometryRequest is returned when a cube is asked for an attribute
// combination no shader variant can draw.
var ErrInvalidGeometryRequest = errors.New("invalid geometry request")

// Layout selects how the triangle list is stored.
type Layout int

const (
	// Flat expands every face into 6 vertices (36 for a cube), drawn with
	// DrawArrays.
	Flat Layout = iota
	// Indexed keeps the 8 corners once and references them from 36 indices,
	// drawn with DrawElements.
	Indexed
)

func (l Layout) String() string {
	switch l {
	case Flat:
		return "flat"
	case Indexed:
		return "indexed"
	}
	return "unknown"
}

// Corner indices into Cube.Corners.
const (
	FrontBottomLeft = iota
	FrontBottomRight
	FrontTopLeft
	FrontTopRight
	BackBottomLeft
	BackBottomRight
	BackTopLeft
	BackTopRight
)

// Face names one side of the cube. Faces are emitted in this order.
type Face int

const (
	Front Face = iota
	Back
	Left
	Right
	Top
	Bottom
	NumFaces
)

var faceNames = [NumFaces]string{"front", "back", "left", "right", "top", "bottom"}

func (f Face) String() string {
	if f < 0 || f >= NumFaces {
		return "unknown"
	}
	return faceNames[f]
}

// faceQuads lists each face as bottom-left, bottom-right, top-right,
// top-left as seen from outside the cube, so (0,1,2) and (0,2,3) are
// counter-clockwise front faces.
var faceQuads = [NumFaces][4]int{
	Front:  {FrontBottomLeft, FrontBottomRight, FrontTopRight, FrontTopLeft},
	Back:   {BackBottomRight, BackBottomLeft, BackTopLeft, BackTopRight},
	Left:   {BackBottomLeft, FrontBottomLeft, FrontTopLeft, BackTopLeft},
	Right:  {FrontBottomRight, BackBottomRight, BackTopRight, FrontTopRight},
	Top:    {FrontTopLeft, FrontTopRight, BackTopRight, BackTopLeft},
	Bottom: {BackBottomLeft, BackBottomRight, FrontBottomRight, FrontBottomLeft},
}

// quadTriangles maps the 6 vertices of a face onto its quad corners.
var quadTriangles = [6]int{0, 1, 2, 0, 2, 3}

const (
	VerticesPerFace = 6
	FlatVertexCount = int(NumFaces) * VerticesPerFace
	IndexCount      = FlatVertexCount
)

// Component counts per vertex.
const (
	PositionSize = 3
	ColorSize    = 4
	TexCoordSize = 2
)

// UnitCorners returns the corners of an axis-aligned cube of the given edge
// length centered at the origin.
func UnitCorners(edge float32) [8]mgl32.Vec3 {
	h := edge / 2
	return [8]mgl32.Vec3{
		FrontBottomLeft:  {-h, -h, h},
		FrontBottomRight: {h, -h, h},
		FrontTopLeft:     {-h, h, h},
		FrontTopRight:    {h, h, h},
		BackBottomLeft:   {-h, -h, -h},
		BackBottomRight:  {h, -h, -h},
		BackTopLeft:      {-h, h, -h},
		BackTopRight:     {h, h, -h},
	}
}

// DefaultFaceColors are red, green, blue, yellow, cyan and magenta.
var DefaultFaceColors = [NumFaces]mgl32.Vec4{
	{1, 0, 0, 1},
	{0, 1, 0, 1},
	{0, 0, 1, 1},
	{1, 1, 0, 1},
	{0, 1, 1, 1},
	{1, 0, 1, 1},
}

// DefaultQuadUV maps a whole texture onto one face. Row 0 of an uploaded
// image sits at t=0, so the top of the image lands on the top of the face.
var DefaultQuadUV = [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// DefaultCornerUV gives each shared corner of an indexed cube one texture
// coordinate. The front and back faces map the full texture; the side faces
// see it stretched, as an indexed cube cannot do better.
var DefaultCornerUV = [8]mgl32.Vec2{
	FrontBottomLeft:  {0, 1},
	FrontBottomRight: {1, 1},
	FrontTopLeft:     {0, 0},
	FrontTopRight:    {1, 0},
	BackBottomLeft:   {1, 1},
	BackBottomRight:  {0, 1},
	BackTopLeft:      {1, 0},
	BackTopRight:     {0, 0},
}

// Cube is built vertex data ready for upload. Positions, Colors and
// TexCoords are parallel arrays describing the same vertices in the same
// order; exactly one of Colors and TexCoords is non-empty.
type Cube struct {
	Layout    Layout
	Corners   [8]mgl32.Vec3
	Positions []float32
	Colors    []float32
	TexCoords []float32
	Indices   []uint16
}

// VertexCount is the number of entries in the position array.
func (c *Cube) VertexCount() int { return len(c.Positions) / PositionSize }

// DrawCount is the count passed to the draw call: vertices for the flat
// layout, indices for the indexed one.
func (c *Cube) DrawCount() int {
	if c.Layout == Indexed {
		return len(c.Indices)
	}
	return c.VertexCount()
}

// Textured reports whether the cube carries texture coordinates.
func (c *Cube) Textured() bool { return len(c.TexCoords) > 0 }

// Vertex returns the position of draw-order vertex i, resolving indices for
// the indexed layout.
func (c *Cube) Vertex(i int) mgl32.Vec3 {
	if c.Layout == Indexed {
		i = int(c.Indices[i])
	}
	p := c.Positions[i*PositionSize:]
	return mgl32.Vec3{p[0], p[1], p[2]}
}

// FaceVertices returns the draw-order vertex numbers of face f.
func FaceVertices(f Face) [VerticesPerFace]int {
	var out [VerticesPerFace]int
	for i := range out {
		out[i] = int(f)*VerticesPerFace + i
	}
	return out
}

// PositionBytes packs the positions for BufferData.
func (c *Cube) PositionBytes() []byte { return f32.Bytes(binary.LittleEndian, c.Positions...) }

// AttributeBytes packs the color or texture coordinate array for BufferData.
func (c *Cube) AttributeBytes() []byte {
	if c.Textured() {
		return f32.Bytes(binary.LittleEndian, c.TexCoords...)
	}
	return f32.Bytes(binary.LittleEndian, c.Colors...)
}

// IndexBytes packs the indices as GL_UNSIGNED_SHORT.
func (c *Cube) IndexBytes() []byte {
	b := make([]byte, 2*len(c.Indices))
	for i, v := range c.Indices {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	return b
}
