package shader

// Variant selects one of the two cube pipelines.
type Variant int

const (
	SolidColor Variant = iota
	Textured
)

func (v Variant) String() string {
	switch v {
	case SolidColor:
		return "solid"
	case Textured:
		return "textured"
	}
	return "unknown"
}

// Names of the inputs shared by both variants.
const (
	MVPUniform     = "u_MVPMatrix"
	PositionAttrib = "a_Position"
	ColorAttrib    = "a_Color"
	TexCoordAttrib = "a_TexCoordinate"
	SamplerUniform = "u_TextureUnit"
)

// Source is a GLSL ES 1.00 vertex/fragment pair and the names the mesh binds.
type Source struct {
	Vertex   string
	Fragment string
	// Attribute is the per-vertex input besides the position: color or
	// texture coordinate.
	Attribute string
	// Sampler is empty for untextured programs.
	Sampler string
}

const solidVertex = `
uniform mat4 u_MVPMatrix;
attribute vec4 a_Position;
attribute vec4 a_Color;
varying vec4 v_Color;

void main() {
	v_Color = a_Color;
	gl_Position = u_MVPMatrix * a_Position;
}
`

const solidFragment = `
precision mediump float;
varying vec4 v_Color;

void main() {
	gl_FragColor = v_Color;
}
`

const texturedVertex = `
uniform mat4 u_MVPMatrix;
attribute vec4 a_Position;
attribute vec2 a_TexCoordinate;
varying vec2 v_TexCoordinate;

void main() {
	v_TexCoordinate = a_TexCoordinate;
	gl_Position = u_MVPMatrix * a_Position;
}
`

const texturedFragment = `
precision mediump float;
uniform sampler2D u_TextureUnit;
varying vec2 v_TexCoordinate;

void main() {
	gl_FragColor = texture2D(u_TextureUnit, v_TexCoordinate);
}
`

// SourceFor returns the embedded shader pair for a variant.
func SourceFor(v Variant) (Source, bool) {
	switch v {
	case SolidColor:
		return Source{Vertex: solidVertex, Fragment: solidFragment, Attribute: ColorAttrib}, true
	case Textured:
		return Source{Vertex: texturedVertex, Fragment: texturedFragment, Attribute: TexCoordAttrib, Sampler: SamplerUniform}, true
	}
	return Source{}, false
}
