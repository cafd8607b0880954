// Package mesh pairs uploaded cube geometry with the shader program that
// draws it.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/toxichemicals/GO/holycubes/internal/geometry"
	"github.com/toxichemicals/GO/holycubes/internal/gles"
	"github.com/toxichemicals/GO/holycubes/internal/shader"
)

// Mesh owns a position buffer, an attribute buffer (color or texture
// coordinates), an optional index buffer and a program.
type Mesh struct {
	ctx     gles.Context
	program *shader.Program
	variant shader.Variant
	layout  geometry.Layout

	positions gles.Buffer
	attribute gles.Buffer
	indices   gles.Buffer
	count     int
	attrSize  int

	texture gles.Texture

	positionLoc  gles.Attrib
	attributeLoc gles.Attrib
}

// New uploads cube and compiles the program for its variant. A textured cube
// needs a non-zero tex; the caller keeps ownership of it. Nothing is left
// allocated on error.
func New(ctx gles.Context, cube *geometry.Cube, tex gles.Texture) (*Mesh, error) {
	variant := shader.SolidColor
	attrSize := geometry.ColorSize
	if cube.Textured() {
		variant = shader.Textured
		attrSize = geometry.TexCoordSize
		if tex.Value == 0 {
			return nil, errors.Wrap(geometry.ErrInvalidGeometryRequest, "textured cube without a texture")
		}
	} else if tex.Value != 0 {
		return nil, errors.Wrap(geometry.ErrInvalidGeometryRequest, "colored cube given a texture")
	}

	src, _ := shader.SourceFor(variant)
	program, err := shader.Compile(ctx, src)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s cube program", variant)
	}

	m := &Mesh{
		ctx:      ctx,
		program:  program,
		variant:  variant,
		layout:   cube.Layout,
		count:    cube.DrawCount(),
		attrSize: attrSize,
		texture:  tex,
	}

	// Resolve inputs now so a mismatch between geometry and program fails
	// construction instead of a frame.
	if m.positionLoc, err = program.Attrib(shader.PositionAttrib); err != nil {
		program.Release()
		return nil, err
	}
	if m.attributeLoc, err = program.Attrib(src.Attribute); err != nil {
		program.Release()
		return nil, err
	}
	if _, err = program.Uniform(shader.MVPUniform); err != nil {
		program.Release()
		return nil, err
	}
	if src.Sampler != "" {
		if _, err = program.Uniform(src.Sampler); err != nil {
			program.Release()
			return nil, err
		}
	}

	m.positions = upload(ctx, gles.ARRAY_BUFFER, cube.PositionBytes())
	m.attribute = upload(ctx, gles.ARRAY_BUFFER, cube.AttributeBytes())
	if cube.Layout == geometry.Indexed {
		m.indices = upload(ctx, gles.ELEMENT_ARRAY_BUFFER, cube.IndexBytes())
	}

	if err := gles.CheckError(ctx, "mesh upload"); err != nil {
		m.Release()
		return nil, err
	}
	return m, nil
}

func upload(ctx gles.Context, target gles.Enum, data []byte) gles.Buffer {
	b := ctx.CreateBuffer()
	ctx.BindBuffer(target, b)
	ctx.BufferData(target, data, gles.STATIC_DRAW)
	ctx.BindBuffer(target, gles.Buffer{})
	return b
}

// Variant reports which program the mesh draws with.
func (m *Mesh) Variant() shader.Variant { return m.variant }

// Program returns the mesh's shader program.
func (m *Mesh) Program() *shader.Program { return m.program }

// Draw renders the mesh with the given model-view-projection matrix and
// leaves no attribute array, buffer or texture bound behind it.
func (m *Mesh) Draw(mvp mgl32.Mat4) error {
	m.program.Use()
	if err := m.program.SetUniformMatrix4(shader.MVPUniform, mvp); err != nil {
		return err
	}

	m.ctx.BindBuffer(gles.ARRAY_BUFFER, m.positions)
	m.ctx.EnableVertexAttribArray(m.positionLoc)
	m.ctx.VertexAttribPointer(m.positionLoc, geometry.PositionSize, gles.FLOAT, false, 0, 0)

	m.ctx.BindBuffer(gles.ARRAY_BUFFER, m.attribute)
	m.ctx.EnableVertexAttribArray(m.attributeLoc)
	m.ctx.VertexAttribPointer(m.attributeLoc, m.attrSize, gles.FLOAT, false, 0, 0)

	if m.variant == shader.Textured {
		if err := m.program.BindTexture(0, m.texture); err != nil {
			m.unbind()
			return err
		}
	}

	if m.layout == geometry.Indexed {
		m.ctx.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, m.indices)
		m.ctx.DrawElements(gles.TRIANGLES, m.count, gles.UNSIGNED_SHORT, 0)
	} else {
		m.ctx.DrawArrays(gles.TRIANGLES, 0, m.count)
	}

	m.unbind()
	return nil
}

func (m *Mesh) unbind() {
	m.ctx.DisableVertexAttribArray(m.positionLoc)
	m.ctx.DisableVertexAttribArray(m.attributeLoc)
	m.ctx.BindBuffer(gles.ARRAY_BUFFER, gles.Buffer{})
	if m.layout == geometry.Indexed {
		m.ctx.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, gles.Buffer{})
	}
	if m.variant == shader.Textured {
		m.ctx.BindTexture(gles.TEXTURE_2D, gles.Texture{})
	}
}

// Release deletes the mesh's buffers and program. The texture belongs to
// whoever passed it to New.
func (m *Mesh) Release() {
	for _, b := range []*gles.Buffer{&m.positions, &m.attribute, &m.indices} {
		if b.Value != 0 {
			m.ctx.DeleteBuffer(*b)
			*b = gles.Buffer{}
		}
	}
	if m.program != nil {
		m.program.Release()
	}
}
