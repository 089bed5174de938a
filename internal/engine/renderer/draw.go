package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/modelview/internal/engine/geometry"
	"github.com/Faultbox/modelview/internal/engine/shader"
	"github.com/Faultbox/modelview/internal/engine/texture"
)

// DrawBuffers draws triangle lists with the given program, which must be in
// use. Face culling is enabled for the duration of the call when cull is set.
func (r *Renderer) DrawBuffers(bufs []*geometry.Buffer, prog *shader.Program, cull bool) {
	if cull {
		gl.Enable(gl.CULL_FACE)
		defer gl.Disable(gl.CULL_FACE)
	}
	for _, b := range bufs {
		if !b.Loaded() || b.IndexCount() == 0 {
			continue
		}
		r.bindTextures(b, prog)
		gl.BindVertexArray(b.GPU.VAO)
		gl.DrawElements(gl.TRIANGLES, int32(b.IndexCount()), gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
}

// bindTextures binds texture i to unit i and points material.<slot> at it.
// The first diffuse and specular slots fall back to plain white.
func (r *Renderer) bindTextures(b *geometry.Buffer, prog *shader.Program) {
	names := b.SamplerNames()
	var hasDiffuse, hasSpecular bool
	for i, tb := range b.Textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		prog.SetInt("material."+names[i], int32(i))
		gl.BindTexture(gl.TEXTURE_2D, tb.Ref.ID)
		switch tb.Kind {
		case texture.KindDiffuse:
			hasDiffuse = true
		case texture.KindSpecular:
			hasSpecular = true
		}
	}

	unit := len(b.Textures)
	bindFallback := func(sampler string) {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		prog.SetInt(sampler, int32(unit))
		gl.BindTexture(gl.TEXTURE_2D, r.fallbackTex)
		unit++
	}
	if !hasDiffuse {
		bindFallback("material.diffuse0")
	}
	if !hasSpecular {
		bindFallback("material.specular0")
	}
}

// DrawLines draws GL_LINES from packed xyz vertices with the given program,
// which must be in use.
func (r *Renderer) DrawLines(vertices []float32, prog *shader.Program, model mgl32.Mat4) {
	if len(vertices) < 6 {
		return
	}
	prog.SetMat4("model", model)

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	if len(vertices) > r.lineCap {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
		r.lineCap = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	}
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)

	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	gl.BindVertexArray(0)
}

// StencilWrite makes subsequent draws mark the stencil buffer.
func (r *Renderer) StencilWrite() {
	gl.StencilFunc(gl.ALWAYS, 1, 0xFF)
	gl.StencilMask(0xFF)
}

// StencilOutline restricts drawing to pixels outside the marked area and
// disables depth testing so the outline shows through.
func (r *Renderer) StencilOutline() {
	gl.StencilFunc(gl.NOTEQUAL, 1, 0xFF)
	gl.StencilMask(0x00)
	gl.Disable(gl.DEPTH_TEST)
}

// StencilReset restores normal stencil and depth state.
func (r *Renderer) StencilReset() {
	gl.StencilMask(0xFF)
	gl.StencilFunc(gl.ALWAYS, 0, 0xFF)
	gl.Enable(gl.DEPTH_TEST)
}
