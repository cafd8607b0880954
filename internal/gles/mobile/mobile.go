// Package mobile adapts golang.org/x/mobile/gl to gles.Context.
package mobile

import (
	"golang.org/x/mobile/gl"

	"github.com/toxichemicals/GO/holycubes/internal/gles"
)

// Context wraps the draw context delivered with a lifecycle event.
type Context struct {
	GL gl.Context
}

var _ gles.Context = Context{}

// New returns ctx as a gles.Context.
func New(ctx gl.Context) Context { return Context{GL: ctx} }

func program(p gles.Program) gl.Program { return gl.Program{Init: p.Value != 0, Value: p.Value} }

func attrib(a gles.Attrib) gl.Attrib { return gl.Attrib{Value: uint(a.Value)} }

func (c Context) ActiveTexture(texture gles.Enum) { c.GL.ActiveTexture(gl.Enum(texture)) }

func (c Context) AttachShader(p gles.Program, s gles.Shader) {
	c.GL.AttachShader(program(p), gl.Shader{Value: s.Value})
}

func (c Context) BindBuffer(target gles.Enum, b gles.Buffer) {
	c.GL.BindBuffer(gl.Enum(target), gl.Buffer{Value: b.Value})
}

func (c Context) BindTexture(target gles.Enum, t gles.Texture) {
	c.GL.BindTexture(gl.Enum(target), gl.Texture{Value: t.Value})
}

func (c Context) BufferData(target gles.Enum, src []byte, usage gles.Enum) {
	c.GL.BufferData(gl.Enum(target), src, gl.Enum(usage))
}

func (c Context) Clear(mask gles.Enum) { c.GL.Clear(gl.Enum(mask)) }

func (c Context) ClearColor(red, green, blue, alpha float32) {
	c.GL.ClearColor(red, green, blue, alpha)
}

func (c Context) CompileShader(s gles.Shader) { c.GL.CompileShader(gl.Shader{Value: s.Value}) }

func (c Context) CreateBuffer() gles.Buffer { return gles.Buffer{Value: c.GL.CreateBuffer().Value} }

func (c Context) CreateProgram() gles.Program {
	return gles.Program{Value: c.GL.CreateProgram().Value}
}

func (c Context) CreateShader(ty gles.Enum) gles.Shader {
	return gles.Shader{Value: c.GL.CreateShader(gl.Enum(ty)).Value}
}

func (c Context) CreateTexture() gles.Texture {
	return gles.Texture{Value: c.GL.CreateTexture().Value}
}

func (c Context) CullFace(mode gles.Enum) { c.GL.CullFace(gl.Enum(mode)) }

func (c Context) DeleteBuffer(b gles.Buffer) { c.GL.DeleteBuffer(gl.Buffer{Value: b.Value}) }

func (c Context) DeleteProgram(p gles.Program) { c.GL.DeleteProgram(program(p)) }

func (c Context) DeleteShader(s gles.Shader) { c.GL.DeleteShader(gl.Shader{Value: s.Value}) }

func (c Context) DeleteTexture(t gles.Texture) { c.GL.DeleteTexture(gl.Texture{Value: t.Value}) }

func (c Context) DepthFunc(fn gles.Enum) { c.GL.DepthFunc(gl.Enum(fn)) }

func (c Context) DetachShader(p gles.Program, s gles.Shader) {
	c.GL.DetachShader(program(p), gl.Shader{Value: s.Value})
}

func (c Context) Disable(cap gles.Enum) { c.GL.Disable(gl.Enum(cap)) }

func (c Context) DisableVertexAttribArray(a gles.Attrib) { c.GL.DisableVertexAttribArray(attrib(a)) }

func (c Context) DrawArrays(mode gles.Enum, first, count int) {
	c.GL.DrawArrays(gl.Enum(mode), first, count)
}

func (c Context) DrawElements(mode gles.Enum, count int, ty gles.Enum, offset int) {
	c.GL.DrawElements(gl.Enum(mode), count, gl.Enum(ty), offset)
}

func (c Context) Enable(cap gles.Enum) { c.GL.Enable(gl.Enum(cap)) }

func (c Context) EnableVertexAttribArray(a gles.Attrib) { c.GL.EnableVertexAttribArray(attrib(a)) }

func (c Context) FrontFace(mode gles.Enum) { c.GL.FrontFace(gl.Enum(mode)) }

func (c Context) GenerateMipmap(target gles.Enum) { c.GL.GenerateMipmap(gl.Enum(target)) }

func (c Context) GetAttribLocation(p gles.Program, name string) gles.Attrib {
	a := c.GL.GetAttribLocation(program(p), name)
	// x/mobile stores the location unsigned; -1 comes back as all ones.
	return gles.Attrib{Value: int32(uint32(a.Value))}
}

func (c Context) GetError() gles.Enum { return gles.Enum(c.GL.GetError()) }

func (c Context) GetProgrami(p gles.Program, pname gles.Enum) int {
	return c.GL.GetProgrami(program(p), gl.Enum(pname))
}

func (c Context) GetProgramInfoLog(p gles.Program) string { return c.GL.GetProgramInfoLog(program(p)) }

func (c Context) GetShaderi(s gles.Shader, pname gles.Enum) int {
	return c.GL.GetShaderi(gl.Shader{Value: s.Value}, gl.Enum(pname))
}

func (c Context) GetShaderInfoLog(s gles.Shader) string {
	return c.GL.GetShaderInfoLog(gl.Shader{Value: s.Value})
}

func (c Context) GetUniformLocation(p gles.Program, name string) gles.Uniform {
	return gles.Uniform{Value: c.GL.GetUniformLocation(program(p), name).Value}
}

func (c Context) LinkProgram(p gles.Program) { c.GL.LinkProgram(program(p)) }

func (c Context) ShaderSource(s gles.Shader, src string) {
	c.GL.ShaderSource(gl.Shader{Value: s.Value}, src)
}

func (c Context) TexImage2D(target gles.Enum, level int, internalFormat int, width, height int, format gles.Enum, ty gles.Enum, data []byte) {
	c.GL.TexImage2D(gl.Enum(target), level, internalFormat, width, height, gl.Enum(format), gl.Enum(ty), data)
}

func (c Context) TexParameteri(target, pname gles.Enum, param int) {
	c.GL.TexParameteri(gl.Enum(target), gl.Enum(pname), param)
}

func (c Context) Uniform1i(dst gles.Uniform, v int) { c.GL.Uniform1i(gl.Uniform{Value: dst.Value}, v) }

func (c Context) UniformMatrix4fv(dst gles.Uniform, src []float32) {
	c.GL.UniformMatrix4fv(gl.Uniform{Value: dst.Value}, src)
}

func (c Context) UseProgram(p gles.Program) { c.GL.UseProgram(program(p)) }

func (c Context) VertexAttribPointer(dst gles.Attrib, size int, ty gles.Enum, normalized bool, stride, offset int) {
	c.GL.VertexAttribPointer(attrib(dst), size, gl.Enum(ty), normalized, stride, offset)
}

func (c Context) Viewport(x, y, width, height int) { c.GL.Viewport(x, y, width, height) }
