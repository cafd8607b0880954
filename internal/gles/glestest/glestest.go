// Package glestest provides a recording gles.Context for tests.
//
// The fake keeps just enough driver state to catch real mistakes: shader
// sources are checked for a main function and balanced braces, attribute and
// uniform names resolve only if they are declared in the linked sources, and
// every draw call snapshots the program, the enabled attribute arrays and the
// bound texture.
package glestest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/toxichemicals/GO/holycubes/internal/gles"
)

// Draw is a snapshot of pipeline state taken at a draw call.
type Draw struct {
	Mode    gles.Enum
	Count   int
	Indexed bool
	Program gles.Program
	Enabled []int32
	Texture gles.Texture
	Array   gles.Buffer
	Element gles.Buffer
}

type shaderObj struct {
	ty       gles.Enum
	src      string
	compiled bool
	log      string
}

type programObj struct {
	shaders  []uint32
	linked   bool
	log      string
	attribs  map[string]int32
	uniforms map[string]int32
}

// UniformKey identifies a uniform upload: the program in use and the
// location written.
type UniformKey struct {
	Program  uint32
	Location int32
}

// Context implements gles.Context in memory.
type Context struct {
	// FailLink makes every LinkProgram call fail.
	FailLink bool
	// Errors are returned by GetError, oldest first.
	Errors []gles.Enum

	Draws    []Draw
	Calls    []string
	Uniforms map[UniformKey][]float32
	Ints     map[UniformKey]int
	Textures map[uint32][]byte

	// AttribQueries and UniformQueries count location lookups.
	AttribQueries  int
	UniformQueries int

	next     uint32
	shaders  map[uint32]*shaderObj
	programs map[uint32]*programObj
	buffers  map[uint32]bool
	live     map[uint32]bool

	current  gles.Program
	enabled  map[int32]bool
	texUnit  gles.Enum
	bound    map[gles.Enum]gles.Texture
	array    gles.Buffer
	element  gles.Buffer
	caps     map[gles.Enum]bool
	viewport [4]int
}

var _ gles.Context = (*Context)(nil)

// New returns an empty fake context.
func New() *Context {
	return &Context{
		Uniforms: make(map[UniformKey][]float32),
		Ints:     make(map[UniformKey]int),
		Textures: make(map[uint32][]byte),
		shaders:  make(map[uint32]*shaderObj),
		programs: make(map[uint32]*programObj),
		buffers:  make(map[uint32]bool),
		live:     make(map[uint32]bool),
		enabled:  make(map[int32]bool),
		bound:    make(map[gles.Enum]gles.Texture),
		caps:     make(map[gles.Enum]bool),
		texUnit:  gles.TEXTURE0,
	}
}

func (c *Context) record(format string, args ...any) {
	c.Calls = append(c.Calls, fmt.Sprintf(format, args...))
}

func (c *Context) alloc() uint32 {
	c.next++
	c.live[c.next] = true
	return c.next
}

// Live reports how many shader, program, buffer and texture objects have not
// been deleted.
func (c *Context) Live() int { return len(c.live) }

// Enabled returns the currently enabled attribute arrays, sorted.
func (c *Context) Enabled() []int32 {
	var out []int32
	for a, on := range c.enabled {
		if on {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CurrentProgram returns the program bound by the last UseProgram.
func (c *Context) CurrentProgram() gles.Program { return c.current }

// IsEnabled reports whether a capability was enabled.
func (c *Context) IsEnabled(cap gles.Enum) bool { return c.caps[cap] }

// LastViewport returns the last viewport rectangle.
func (c *Context) LastViewport() [4]int { return c.viewport }

// UniformLocation resolves a name in a linked program without counting as a
// query.
func (c *Context) UniformLocation(p gles.Program, name string) int32 {
	if po, ok := c.programs[p.Value]; ok {
		if loc, ok := po.uniforms[name]; ok {
			return loc
		}
	}
	return -1
}

// AttribLocation resolves a name in a linked program without counting as a
// query.
func (c *Context) AttribLocation(p gles.Program, name string) int32 {
	if po, ok := c.programs[p.Value]; ok {
		if loc, ok := po.attribs[name]; ok {
			return loc
		}
	}
	return -1
}

func (c *Context) ActiveTexture(texture gles.Enum) {
	c.record("ActiveTexture(0x%x)", uint32(texture))
	c.texUnit = texture
}

func (c *Context) AttachShader(p gles.Program, s gles.Shader) {
	c.record("AttachShader(%d, %d)", p.Value, s.Value)
	if po, ok := c.programs[p.Value]; ok {
		po.shaders = append(po.shaders, s.Value)
	}
}

func (c *Context) BindBuffer(target gles.Enum, b gles.Buffer) {
	c.record("BindBuffer(0x%x, %d)", uint32(target), b.Value)
	switch target {
	case gles.ARRAY_BUFFER:
		c.array = b
	case gles.ELEMENT_ARRAY_BUFFER:
		c.element = b
	}
}

func (c *Context) BindTexture(target gles.Enum, t gles.Texture) {
	c.record("BindTexture(0x%x, %d)", uint32(target), t.Value)
	c.bound[c.texUnit] = t
}

func (c *Context) BufferData(target gles.Enum, src []byte, usage gles.Enum) {
	c.record("BufferData(0x%x, %d bytes)", uint32(target), len(src))
}

func (c *Context) Clear(mask gles.Enum) { c.record("Clear(0x%x)", uint32(mask)) }

func (c *Context) ClearColor(red, green, blue, alpha float32) {
	c.record("ClearColor(%g, %g, %g, %g)", red, green, blue, alpha)
}

var (
	mainRe    = regexp.MustCompile(`void\s+main\s*\(\s*(void)?\s*\)`)
	attribRe  = regexp.MustCompile(`attribute\s+\w+\s+(\w+)\s*;`)
	uniformRe = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)
)

func (c *Context) CompileShader(s gles.Shader) {
	c.record("CompileShader(%d)", s.Value)
	so, ok := c.shaders[s.Value]
	if !ok {
		return
	}
	switch {
	case !mainRe.MatchString(so.src):
		so.compiled, so.log = false, "ERROR: 0:1: 'main' : function not defined"
	case strings.Count(so.src, "{") != strings.Count(so.src, "}"):
		so.compiled, so.log = false, "ERROR: 0:1: '' : syntax error"
	default:
		so.compiled, so.log = true, ""
	}
}

func (c *Context) CreateBuffer() gles.Buffer {
	b := gles.Buffer{Value: c.alloc()}
	c.buffers[b.Value] = true
	c.record("CreateBuffer() = %d", b.Value)
	return b
}

func (c *Context) CreateProgram() gles.Program {
	p := gles.Program{Value: c.alloc()}
	c.programs[p.Value] = &programObj{}
	c.record("CreateProgram() = %d", p.Value)
	return p
}

func (c *Context) CreateShader(ty gles.Enum) gles.Shader {
	s := gles.Shader{Value: c.alloc()}
	c.shaders[s.Value] = &shaderObj{ty: ty}
	c.record("CreateShader(0x%x) = %d", uint32(ty), s.Value)
	return s
}

func (c *Context) CreateTexture() gles.Texture {
	t := gles.Texture{Value: c.alloc()}
	c.record("CreateTexture() = %d", t.Value)
	return t
}

func (c *Context) CullFace(mode gles.Enum) { c.record("CullFace(0x%x)", uint32(mode)) }

func (c *Context) DeleteBuffer(b gles.Buffer) {
	c.record("DeleteBuffer(%d)", b.Value)
	delete(c.buffers, b.Value)
	delete(c.live, b.Value)
}

func (c *Context) DeleteProgram(p gles.Program) {
	c.record("DeleteProgram(%d)", p.Value)
	delete(c.programs, p.Value)
	delete(c.live, p.Value)
}

func (c *Context) DeleteShader(s gles.Shader) {
	c.record("DeleteShader(%d)", s.Value)
	delete(c.shaders, s.Value)
	delete(c.live, s.Value)
}

func (c *Context) DeleteTexture(t gles.Texture) {
	c.record("DeleteTexture(%d)", t.Value)
	delete(c.Textures, t.Value)
	delete(c.live, t.Value)
}

func (c *Context) DepthFunc(fn gles.Enum) { c.record("DepthFunc(0x%x)", uint32(fn)) }

func (c *Context) DetachShader(p gles.Program, s gles.Shader) {
	c.record("DetachShader(%d, %d)", p.Value, s.Value)
	if po, ok := c.programs[p.Value]; ok {
		for i, v := range po.shaders {
			if v == s.Value {
				po.shaders = append(po.shaders[:i], po.shaders[i+1:]...)
				break
			}
		}
	}
}

func (c *Context) Disable(cap gles.Enum) {
	c.record("Disable(0x%x)", uint32(cap))
	c.caps[cap] = false
}

func (c *Context) DisableVertexAttribArray(a gles.Attrib) {
	c.record("DisableVertexAttribArray(%d)", a.Value)
	delete(c.enabled, a.Value)
}

func (c *Context) snapshot(mode gles.Enum, count int, indexed bool) {
	c.Draws = append(c.Draws, Draw{
		Mode:    mode,
		Count:   count,
		Indexed: indexed,
		Program: c.current,
		Enabled: c.Enabled(),
		Texture: c.bound[gles.TEXTURE0],
		Array:   c.array,
		Element: c.element,
	})
}

func (c *Context) DrawArrays(mode gles.Enum, first, count int) {
	c.record("DrawArrays(0x%x, %d, %d)", uint32(mode), first, count)
	c.snapshot(mode, count, false)
}

func (c *Context) DrawElements(mode gles.Enum, count int, ty gles.Enum, offset int) {
	c.record("DrawElements(0x%x, %d, 0x%x, %d)", uint32(mode), count, uint32(ty), offset)
	c.snapshot(mode, count, true)
}

func (c *Context) Enable(cap gles.Enum) {
	c.record("Enable(0x%x)", uint32(cap))
	c.caps[cap] = true
}

func (c *Context) EnableVertexAttribArray(a gles.Attrib) {
	c.record("EnableVertexAttribArray(%d)", a.Value)
	c.enabled[a.Value] = true
}

func (c *Context) FrontFace(mode gles.Enum) { c.record("FrontFace(0x%x)", uint32(mode)) }

func (c *Context) GenerateMipmap(target gles.Enum) {
	c.record("GenerateMipmap(0x%x)", uint32(target))
}

func (c *Context) GetAttribLocation(p gles.Program, name string) gles.Attrib {
	c.AttribQueries++
	c.record("GetAttribLocation(%d, %q)", p.Value, name)
	return gles.Attrib{Value: c.AttribLocation(p, name)}
}

func (c *Context) GetError() gles.Enum {
	if len(c.Errors) == 0 {
		return gles.NO_ERROR
	}
	e := c.Errors[0]
	c.Errors = c.Errors[1:]
	return e
}

func (c *Context) GetProgrami(p gles.Program, pname gles.Enum) int {
	po, ok := c.programs[p.Value]
	if !ok || pname != gles.LINK_STATUS {
		return gles.FALSE
	}
	if po.linked {
		return gles.TRUE
	}
	return gles.FALSE
}

func (c *Context) GetProgramInfoLog(p gles.Program) string {
	if po, ok := c.programs[p.Value]; ok {
		return po.log
	}
	return ""
}

func (c *Context) GetShaderi(s gles.Shader, pname gles.Enum) int {
	so, ok := c.shaders[s.Value]
	if !ok || pname != gles.COMPILE_STATUS {
		return gles.FALSE
	}
	if so.compiled {
		return gles.TRUE
	}
	return gles.FALSE
}

func (c *Context) GetShaderInfoLog(s gles.Shader) string {
	if so, ok := c.shaders[s.Value]; ok {
		return so.log
	}
	return ""
}

func (c *Context) GetUniformLocation(p gles.Program, name string) gles.Uniform {
	c.UniformQueries++
	c.record("GetUniformLocation(%d, %q)", p.Value, name)
	return gles.Uniform{Value: c.UniformLocation(p, name)}
}

func (c *Context) LinkProgram(p gles.Program) {
	c.record("LinkProgram(%d)", p.Value)
	po, ok := c.programs[p.Value]
	if !ok {
		return
	}
	po.linked, po.log = false, ""
	po.attribs = make(map[string]int32)
	po.uniforms = make(map[string]int32)
	if c.FailLink {
		po.log = "error: program link forced to fail"
		return
	}
	var vs, fs *shaderObj
	for _, id := range po.shaders {
		so, ok := c.shaders[id]
		if !ok || !so.compiled {
			po.log = fmt.Sprintf("error: shader %d is not compiled", id)
			return
		}
		switch so.ty {
		case gles.VERTEX_SHADER:
			vs = so
		case gles.FRAGMENT_SHADER:
			fs = so
		}
	}
	if vs == nil || fs == nil {
		po.log = "error: program needs a vertex and a fragment shader"
		return
	}
	for i, m := range attribRe.FindAllStringSubmatch(vs.src, -1) {
		po.attribs[m[1]] = int32(i)
	}
	next := int32(0)
	for _, src := range []string{vs.src, fs.src} {
		for _, m := range uniformRe.FindAllStringSubmatch(src, -1) {
			if _, ok := po.uniforms[m[1]]; !ok {
				po.uniforms[m[1]] = next
				next++
			}
		}
	}
	po.linked = true
}

func (c *Context) ShaderSource(s gles.Shader, src string) {
	c.record("ShaderSource(%d)", s.Value)
	if so, ok := c.shaders[s.Value]; ok {
		so.src = src
	}
}

func (c *Context) TexImage2D(target gles.Enum, level int, internalFormat int, width, height int, format gles.Enum, ty gles.Enum, data []byte) {
	c.record("TexImage2D(0x%x, %d, %dx%d, %d bytes)", uint32(target), level, width, height, len(data))
	if t := c.bound[c.texUnit]; t.Value != 0 {
		c.Textures[t.Value] = append([]byte(nil), data...)
	}
}

func (c *Context) TexParameteri(target, pname gles.Enum, param int) {
	c.record("TexParameteri(0x%x, 0x%x, 0x%x)", uint32(target), uint32(pname), param)
}

func (c *Context) Uniform1i(dst gles.Uniform, v int) {
	c.record("Uniform1i(%d, %d)", dst.Value, v)
	c.Ints[UniformKey{c.current.Value, dst.Value}] = v
}

func (c *Context) UniformMatrix4fv(dst gles.Uniform, src []float32) {
	c.record("UniformMatrix4fv(%d)", dst.Value)
	c.Uniforms[UniformKey{c.current.Value, dst.Value}] = append([]float32(nil), src...)
}

func (c *Context) UseProgram(p gles.Program) {
	c.record("UseProgram(%d)", p.Value)
	c.current = p
}

func (c *Context) VertexAttribPointer(dst gles.Attrib, size int, ty gles.Enum, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer(%d, %d, 0x%x, %t, %d, %d)", dst.Value, size, uint32(ty), normalized, stride, offset)
}

func (c *Context) Viewport(x, y, width, height int) {
	c.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
	c.viewport = [4]int{x, y, width, height}
}
