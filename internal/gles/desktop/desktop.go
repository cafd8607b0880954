// Package desktop implements gles.Context on top of go-gl's OpenGL ES 2.0
// bindings. A window system (glfw) must have made an ES 2.0 context current
// on the calling OS thread before Init.
package desktop

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"

	"github.com/toxichemicals/GO/holycubes/internal/gles"
)

// Context forwards every call to the current GL context.
type Context struct{}

var _ gles.Context = Context{}

// Init loads the GL entry points and returns a Context for them.
func Init() (Context, error) {
	if err := gl.Init(); err != nil {
		return Context{}, fmt.Errorf("failed to initialize OpenGL ES: %w", err)
	}
	return Context{}, nil
}

// Version reports the driver's version string.
func (Context) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (Context) ActiveTexture(texture gles.Enum) { gl.ActiveTexture(uint32(texture)) }

func (Context) AttachShader(p gles.Program, s gles.Shader) { gl.AttachShader(p.Value, s.Value) }

func (Context) BindBuffer(target gles.Enum, b gles.Buffer) { gl.BindBuffer(uint32(target), b.Value) }

func (Context) BindTexture(target gles.Enum, t gles.Texture) {
	gl.BindTexture(uint32(target), t.Value)
}

func (Context) BufferData(target gles.Enum, src []byte, usage gles.Enum) {
	gl.BufferData(uint32(target), len(src), ptr(src), uint32(usage))
}

func (Context) Clear(mask gles.Enum) { gl.Clear(uint32(mask)) }

func (Context) ClearColor(red, green, blue, alpha float32) { gl.ClearColor(red, green, blue, alpha) }

func (Context) CompileShader(s gles.Shader) { gl.CompileShader(s.Value) }

func (Context) CreateBuffer() gles.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gles.Buffer{Value: b}
}

func (Context) CreateProgram() gles.Program { return gles.Program{Value: gl.CreateProgram()} }

func (Context) CreateShader(ty gles.Enum) gles.Shader {
	return gles.Shader{Value: gl.CreateShader(uint32(ty))}
}

func (Context) CreateTexture() gles.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return gles.Texture{Value: t}
}

func (Context) CullFace(mode gles.Enum) { gl.CullFace(uint32(mode)) }

func (Context) DeleteBuffer(b gles.Buffer) { gl.DeleteBuffers(1, &b.Value) }

func (Context) DeleteProgram(p gles.Program) { gl.DeleteProgram(p.Value) }

func (Context) DeleteShader(s gles.Shader) { gl.DeleteShader(s.Value) }

func (Context) DeleteTexture(t gles.Texture) { gl.DeleteTextures(1, &t.Value) }

func (Context) DepthFunc(fn gles.Enum) { gl.DepthFunc(uint32(fn)) }

func (Context) DetachShader(p gles.Program, s gles.Shader) { gl.DetachShader(p.Value, s.Value) }

func (Context) Disable(cap gles.Enum) { gl.Disable(uint32(cap)) }

func (Context) DisableVertexAttribArray(a gles.Attrib) {
	gl.DisableVertexAttribArray(uint32(a.Value))
}

func (Context) DrawArrays(mode gles.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (Context) DrawElements(mode gles.Enum, count int, ty gles.Enum, offset int) {
	gl.DrawElements(uint32(mode), int32(count), uint32(ty), gl.PtrOffset(offset))
}

func (Context) Enable(cap gles.Enum) { gl.Enable(uint32(cap)) }

func (Context) EnableVertexAttribArray(a gles.Attrib) {
	gl.EnableVertexAttribArray(uint32(a.Value))
}

func (Context) FrontFace(mode gles.Enum) { gl.FrontFace(uint32(mode)) }

func (Context) GenerateMipmap(target gles.Enum) { gl.GenerateMipmap(uint32(target)) }

func (Context) GetAttribLocation(p gles.Program, name string) gles.Attrib {
	return gles.Attrib{Value: gl.GetAttribLocation(p.Value, gl.Str(name+"\x00"))}
}

func (Context) GetError() gles.Enum { return gles.Enum(gl.GetError()) }

func (Context) GetProgrami(p gles.Program, pname gles.Enum) int {
	var v int32
	gl.GetProgramiv(p.Value, uint32(pname), &v)
	return int(v)
}

func (Context) GetProgramInfoLog(p gles.Program) string {
	var logLength int32
	gl.GetProgramiv(p.Value, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(p.Value, logLength, nil, gl.Str(log))
	return log
}

func (Context) GetShaderi(s gles.Shader, pname gles.Enum) int {
	var v int32
	gl.GetShaderiv(s.Value, uint32(pname), &v)
	return int(v)
}

func (Context) GetShaderInfoLog(s gles.Shader) string {
	var logLength int32
	gl.GetShaderiv(s.Value, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(s.Value, logLength, nil, gl.Str(log))
	return log
}

func (Context) GetUniformLocation(p gles.Program, name string) gles.Uniform {
	return gles.Uniform{Value: gl.GetUniformLocation(p.Value, gl.Str(name+"\x00"))}
}

func (Context) LinkProgram(p gles.Program) { gl.LinkProgram(p.Value) }

func (Context) ShaderSource(s gles.Shader, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(s.Value, 1, csources, nil)
	free()
}

func (Context) TexImage2D(target gles.Enum, level int, internalFormat int, width, height int, format gles.Enum, ty gles.Enum, data []byte) {
	gl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(ty), ptr(data))
}

func (Context) TexParameteri(target, pname gles.Enum, param int) {
	gl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (Context) Uniform1i(dst gles.Uniform, v int) { gl.Uniform1i(dst.Value, int32(v)) }

func (Context) UniformMatrix4fv(dst gles.Uniform, src []float32) {
	gl.UniformMatrix4fv(dst.Value, int32(len(src)/16), false, &src[0])
}

func (Context) UseProgram(p gles.Program) { gl.UseProgram(p.Value) }

func (Context) VertexAttribPointer(dst gles.Attrib, size int, ty gles.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointer(uint32(dst.Value), int32(size), uint32(ty), normalized, int32(stride), gl.PtrOffset(offset))
}

func (Context) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// ptr is gl.Ptr for byte slices that may be empty.
func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(b)
}
