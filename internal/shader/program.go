// Package shader compiles and links GLSL ES programs and caches their input
// locations.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/toxichemicals/GO/holycubes/internal/gles"
)

// Stage is a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

func (s Stage) enum() gles.Enum {
	if s == VertexStage {
		return gles.VERTEX_SHADER
	}
	return gles.FRAGMENT_SHADER
}

// CompileError carries the driver's diagnostics for a stage that failed to
// compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader:\n%v", e.Stage, e.Log)
}

// LinkError carries the driver's diagnostics for a program that failed to
// link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program:\n%v", e.Log)
}

// ErrUnknownInput is returned when a name is not an active attribute or
// uniform of the program.
var ErrUnknownInput = errors.New("no such active shader input")

// Program is a linked shader program. It owns its shader and program handles
// until Release.
type Program struct {
	ctx      gles.Context
	program  gles.Program
	vertex   gles.Shader
	fragment gles.Shader
	sampler  string

	attribs  map[string]gles.Attrib
	uniforms map[string]gles.Uniform
}

// Compile builds a program from src. On failure every handle created so far
// is deleted and no Program is returned.
func Compile(ctx gles.Context, src Source) (*Program, error) {
	vs, err := compileStage(ctx, VertexStage, src.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := compileStage(ctx, FragmentStage, src.Fragment)
	if err != nil {
		ctx.DeleteShader(vs)
		return nil, err
	}

	program := ctx.CreateProgram()
	ctx.AttachShader(program, vs)
	ctx.AttachShader(program, fs)
	ctx.LinkProgram(program)
	if ctx.GetProgrami(program, gles.LINK_STATUS) == gles.FALSE {
		log := strings.TrimRight(ctx.GetProgramInfoLog(program), "\x00")
		ctx.DetachShader(program, vs)
		ctx.DetachShader(program, fs)
		ctx.DeleteShader(vs)
		ctx.DeleteShader(fs)
		ctx.DeleteProgram(program)
		return nil, &LinkError{Log: log}
	}

	return &Program{
		ctx:      ctx,
		program:  program,
		vertex:   vs,
		fragment: fs,
		sampler:  src.Sampler,
		attribs:  make(map[string]gles.Attrib),
		uniforms: make(map[string]gles.Uniform),
	}, nil
}

func compileStage(ctx gles.Context, stage Stage, source string) (gles.Shader, error) {
	s := ctx.CreateShader(stage.enum())
	if s.Value == 0 {
		return gles.Shader{}, &CompileError{Stage: stage, Log: "glCreateShader returned 0"}
	}
	ctx.ShaderSource(s, source)
	ctx.CompileShader(s)
	if ctx.GetShaderi(s, gles.COMPILE_STATUS) == gles.FALSE {
		log := strings.TrimRight(ctx.GetShaderInfoLog(s), "\x00")
		ctx.DeleteShader(s)
		return gles.Shader{}, &CompileError{Stage: stage, Log: log}
	}
	return s, nil
}

// Handle returns the linked program object.
func (p *Program) Handle() gles.Program { return p.program }

// Use makes the program current.
func (p *Program) Use() { p.ctx.UseProgram(p.program) }

// Attrib returns the location of an active attribute, querying the driver
// only the first time a name is asked for.
func (p *Program) Attrib(name string) (gles.Attrib, error) {
	a, ok := p.attribs[name]
	if !ok {
		a = p.ctx.GetAttribLocation(p.program, name)
		p.attribs[name] = a
	}
	if !a.Valid() {
		return a, errors.Wrapf(ErrUnknownInput, "attribute %q", name)
	}
	return a, nil
}

// Uniform returns the location of an active uniform, cached like Attrib.
func (p *Program) Uniform(name string) (gles.Uniform, error) {
	u, ok := p.uniforms[name]
	if !ok {
		u = p.ctx.GetUniformLocation(p.program, name)
		p.uniforms[name] = u
	}
	if !u.Valid() {
		return u, errors.Wrapf(ErrUnknownInput, "uniform %q", name)
	}
	return u, nil
}

// SetUniformMatrix4 uploads m to the named mat4 uniform. The program must be
// current.
func (p *Program) SetUniformMatrix4(name string, m mgl32.Mat4) error {
	u, err := p.Uniform(name)
	if err != nil {
		return err
	}
	p.ctx.UniformMatrix4fv(u, m[:])
	return nil
}

// BindTexture binds tex to the given texture unit and points the program's
// sampler at it. The program must be current.
func (p *Program) BindTexture(unit int, tex gles.Texture) error {
	if p.sampler == "" {
		return errors.Wrap(ErrUnknownInput, "program has no sampler")
	}
	u, err := p.Uniform(p.sampler)
	if err != nil {
		return err
	}
	p.ctx.ActiveTexture(gles.Enum(gles.TEXTURE0 + unit))
	p.ctx.BindTexture(gles.TEXTURE_2D, tex)
	p.ctx.Uniform1i(u, unit)
	return nil
}

// Release deletes the program and its shaders. It is safe to call twice.
func (p *Program) Release() {
	if p.program.Value == 0 {
		return
	}
	p.ctx.DetachShader(p.program, p.vertex)
	p.ctx.DetachShader(p.program, p.fragment)
	p.ctx.DeleteShader(p.vertex)
	p.ctx.DeleteShader(p.fragment)
	p.ctx.DeleteProgram(p.program)
	p.program = gles.Program{}
	p.vertex = gles.Shader{}
	p.fragment = gles.Shader{}
	p.attribs = make(map[string]gles.Attrib)
	p.uniforms = make(map[string]gles.Uniform)
}
