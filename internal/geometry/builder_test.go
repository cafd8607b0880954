package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const eps = 1e-6

func TestFlatColoredCube(t *testing.T) {
	c, err := NewBuilder().FaceColors(DefaultFaceColors).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.VertexCount() != FlatVertexCount {
		t.Fatalf("expected %d vertices, got %d", FlatVertexCount, c.VertexCount())
	}
	if len(c.Colors)/ColorSize != c.VertexCount() {
		t.Fatalf("color array describes %d vertices, positions %d", len(c.Colors)/ColorSize, c.VertexCount())
	}
	if c.Textured() || len(c.Indices) != 0 {
		t.Fatalf("flat colored cube must carry neither UVs nor indices")
	}
	if c.DrawCount() != FlatVertexCount {
		t.Fatalf("DrawCount = %d", c.DrawCount())
	}

	for f := Face(0); f < NumFaces; f++ {
		want := DefaultFaceColors[f]
		for _, v := range FaceVertices(f) {
			got := c.Colors[v*ColorSize : v*ColorSize+ColorSize]
			if !(mgl32.Vec4{got[0], got[1], got[2], got[3]}).ApproxEqual(want) {
				t.Fatalf("%s face vertex %d has color %v, want %v", f, v, got, want)
			}
		}
	}
}

func TestFacesArePlanarAndOutwardCCW(t *testing.T) {
	flat, err := NewBuilder().Edge(2).QuadUV(DefaultQuadUV).Build()
	if err != nil {
		t.Fatalf("Build flat: %v", err)
	}
	indexed, err := NewBuilder().Edge(2).Layout(Indexed).Textured().Build()
	if err != nil {
		t.Fatalf("Build indexed: %v", err)
	}

	for _, c := range []*Cube{flat, indexed} {
		t.Run(c.Layout.String(), func(t *testing.T) {
			if c.DrawCount() != IndexCount {
				t.Fatalf("DrawCount = %d, want %d", c.DrawCount(), IndexCount)
			}
			for f := Face(0); f < NumFaces; f++ {
				verts := FaceVertices(f)
				a, b, d := c.Vertex(verts[0]), c.Vertex(verts[1]), c.Vertex(verts[2])
				normal := b.Sub(a).Cross(d.Sub(a)).Normalize()

				var centroid mgl32.Vec3
				for _, v := range verts {
					p := c.Vertex(v)
					centroid = centroid.Add(p)
					if dist := p.Sub(a).Dot(normal); dist > eps || dist < -eps {
						t.Fatalf("%s face vertex %d is %g off the face plane", f, v, dist)
					}
				}
				centroid = centroid.Mul(1.0 / VerticesPerFace)
				if centroid.Dot(normal) <= 0 {
					t.Fatalf("%s face winds clockwise seen from outside (normal %v)", f, normal)
				}

				// The second triangle must face the same way as the first.
				a2, b2, d2 := c.Vertex(verts[3]), c.Vertex(verts[4]), c.Vertex(verts[5])
				n2 := b2.Sub(a2).Cross(d2.Sub(a2)).Normalize()
				if !n2.ApproxEqual(normal) {
					t.Fatalf("%s face triangles disagree: %v vs %v", f, normal, n2)
				}
			}
		})
	}
}

func TestFlatTexturedCubeSharesUVPattern(t *testing.T) {
	c, err := NewBuilder().Textured().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(c.TexCoords)/TexCoordSize != c.VertexCount() {
		t.Fatalf("uv array describes %d vertices, positions %d", len(c.TexCoords)/TexCoordSize, c.VertexCount())
	}
	first := c.TexCoords[:VerticesPerFace*TexCoordSize]
	for f := Face(1); f < NumFaces; f++ {
		off := int(f) * VerticesPerFace * TexCoordSize
		face := c.TexCoords[off : off+VerticesPerFace*TexCoordSize]
		for i := range face {
			if face[i] != first[i] {
				t.Fatalf("%s face uv %d = %g, want %g", f, i, face[i], first[i])
			}
		}
	}
}

func TestIndexedCube(t *testing.T) {
	c, err := NewBuilder().Layout(Indexed).Textured().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.VertexCount() != 8 {
		t.Fatalf("expected 8 unique vertices, got %d", c.VertexCount())
	}
	if len(c.TexCoords)/TexCoordSize != 8 {
		t.Fatalf("expected 8 uvs, got %d", len(c.TexCoords)/TexCoordSize)
	}
	if len(c.Indices) != IndexCount {
		t.Fatalf("expected %d indices, got %d", IndexCount, len(c.Indices))
	}
	for f := Face(0); f < NumFaces; f++ {
		unique := map[uint16]bool{}
		for _, v := range FaceVertices(f) {
			unique[c.Indices[v]] = true
		}
		if len(unique) != 4 {
			t.Fatalf("%s face references %d corners, want 4", f, len(unique))
		}
	}
	if got := len(c.IndexBytes()); got != 2*IndexCount {
		t.Fatalf("IndexBytes is %d bytes", got)
	}
}

func TestInvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
	}{
		{"color and texture", NewBuilder().FaceColors(DefaultFaceColors).QuadUV(DefaultQuadUV)},
		{"no attributes", NewBuilder()},
		{"indexed colors", NewBuilder().Layout(Indexed).FaceColors(DefaultFaceColors)},
		{"indexed quad uv", NewBuilder().Layout(Indexed).QuadUV(DefaultQuadUV)},
		{"flat corner uv", NewBuilder().CornerUV(DefaultCornerUV)},
		{"bad layout", NewBuilder().Layout(Layout(7)).QuadUV(DefaultQuadUV)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.b.Build()
			if !errors.Is(err, ErrInvalidGeometryRequest) {
				t.Fatalf("expected ErrInvalidGeometryRequest, got %v", err)
			}
			if c != nil {
				t.Fatalf("expected no cube on error")
			}
		})
	}
}

func TestByteEncoding(t *testing.T) {
	c, err := NewBuilder().FaceColors(DefaultFaceColors).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got, want := len(c.PositionBytes()), 4*len(c.Positions); got != want {
		t.Fatalf("PositionBytes: %d bytes, want %d", got, want)
	}
	if got, want := len(c.AttributeBytes()), 4*len(c.Colors); got != want {
		t.Fatalf("AttributeBytes: %d bytes, want %d", got, want)
	}
}
