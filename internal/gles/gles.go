// Package gles is the narrow slice of the OpenGL ES 2.0 API the renderer
// needs. The method set mirrors golang.org/x/mobile/gl.Context so the mobile
// context adapts one-to-one, while the desktop host backs it with go-gl's
// gles2 bindings. Keeping the renderer on this interface lets tests drive it
// with a recording fake instead of a GPU.
package gles

import "fmt"

// Enum is a GL enumerant.
type Enum uint32

// Handle types. Zero values are never valid objects.
type (
	Shader  struct{ Value uint32 }
	Program struct{ Value uint32 }
	Buffer  struct{ Value uint32 }
	Texture struct{ Value uint32 }
	// Attrib and Uniform are -1 when the name is not active in the program.
	Attrib  struct{ Value int32 }
	Uniform struct{ Value int32 }
)

func (a Attrib) Valid() bool  { return a.Value >= 0 }
func (u Uniform) Valid() bool { return u.Value >= 0 }

// GL ES 2.0 enumerants used by this module.
const (
	FALSE = 0
	TRUE  = 1

	NO_ERROR = 0x0000

	TRIANGLES = 0x0004

	DEPTH_BUFFER_BIT = 0x00000100
	COLOR_BUFFER_BIT = 0x00004000

	CULL_FACE  = 0x0B44
	DEPTH_TEST = 0x0B71
	LEQUAL     = 0x0203
	CCW        = 0x0901
	BACK       = 0x0405

	UNSIGNED_BYTE  = 0x1401
	UNSIGNED_SHORT = 0x1403
	FLOAT          = 0x1406
	RGBA           = 0x1908

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STATIC_DRAW          = 0x88E4

	FRAGMENT_SHADER = 0x8B30
	VERTEX_SHADER   = 0x8B31
	COMPILE_STATUS  = 0x8B81
	LINK_STATUS     = 0x8B82

	TEXTURE_2D           = 0x0DE1
	TEXTURE0             = 0x84C0
	TEXTURE_MAG_FILTER   = 0x2800
	TEXTURE_MIN_FILTER   = 0x2801
	TEXTURE_WRAP_S       = 0x2802
	TEXTURE_WRAP_T       = 0x2803
	LINEAR               = 0x2601
	LINEAR_MIPMAP_LINEAR = 0x2703
	REPEAT               = 0x2901
	CLAMP_TO_EDGE        = 0x812F
)

// Context issues GL ES 2.0 commands. Every call mutates process-wide GPU
// state, so a Context must only be used from the goroutine that owns the
// GL surface.
type Context interface {
	ActiveTexture(texture Enum)
	AttachShader(p Program, s Shader)
	BindBuffer(target Enum, b Buffer)
	BindTexture(target Enum, t Texture)
	BufferData(target Enum, src []byte, usage Enum)
	Clear(mask Enum)
	ClearColor(red, green, blue, alpha float32)
	CompileShader(s Shader)
	CreateBuffer() Buffer
	CreateProgram() Program
	CreateShader(ty Enum) Shader
	CreateTexture() Texture
	CullFace(mode Enum)
	DeleteBuffer(b Buffer)
	DeleteProgram(p Program)
	DeleteShader(s Shader)
	DeleteTexture(t Texture)
	DepthFunc(fn Enum)
	DetachShader(p Program, s Shader)
	Disable(cap Enum)
	DisableVertexAttribArray(a Attrib)
	DrawArrays(mode Enum, first, count int)
	DrawElements(mode Enum, count int, ty Enum, offset int)
	Enable(cap Enum)
	EnableVertexAttribArray(a Attrib)
	FrontFace(mode Enum)
	GenerateMipmap(target Enum)
	GetAttribLocation(p Program, name string) Attrib
	GetError() Enum
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	GetUniformLocation(p Program, name string) Uniform
	LinkProgram(p Program)
	ShaderSource(s Shader, src string)
	TexImage2D(target Enum, level int, internalFormat int, width, height int, format Enum, ty Enum, data []byte)
	TexParameteri(target, pname Enum, param int)
	Uniform1i(dst Uniform, v int)
	UniformMatrix4fv(dst Uniform, src []float32)
	UseProgram(p Program)
	VertexAttribPointer(dst Attrib, size int, ty Enum, normalized bool, stride, offset int)
	Viewport(x, y, width, height int)
}

// Error is a non-zero glGetError code tagged with the operation that
// preceded it.
type Error struct {
	Op   string
	Code Enum
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: glError 0x%04x", e.Op, uint32(e.Code))
}

// CheckError drains the GL error queue and reports the first error seen.
func CheckError(ctx Context, op string) error {
	var first error
	for i := 0; i < 16; i++ {
		code := ctx.GetError()
		if code == NO_ERROR {
			break
		}
		if first == nil {
			first = &Error{Op: op, Code: code}
		}
	}
	return first
}
