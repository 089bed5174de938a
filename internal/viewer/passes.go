package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/modelview/internal/engine/debug"
	"github.com/Faultbox/modelview/internal/engine/shader"
)

// boundsCross is the half length of the centre marker, relative to the
// box diagonal.
const boundsCross = 0.05

// render draws one frame: the feature model with its overlays, then the
// light model at the light position.
func (v *Viewer) render() {
	v.renderer.Begin()

	view := v.camera.View()
	proj := v.camera.Projection()
	identity := mgl32.Ident4()
	d := v.display
	bufs := v.feature.Buffers

	p := v.programs.model
	p.Use()
	setTransforms(p, identity, view, proj)
	p.SetVec4("viewPosition", v.camera.Position.Vec4(1))
	p.SetFloat("material.shininess", d.Shininess)
	v.light.Apply(p)
	p.SetBool("areFacesEnabled", d.Faces)
	p.SetBool("isWireframeEnabled", d.Wireframe)
	p.SetVec4("wireframeColour", d.WireframeColor)

	if d.Outline {
		v.renderer.StencilWrite()
	}
	v.renderer.DrawBuffers(bufs, p, d.Culling)

	if d.Normals {
		n := v.programs.normals
		n.Use()
		setTransforms(n, identity, view, proj)
		n.SetFloat("normalLength", d.NormalLength)
		n.SetVec4("normalColour", d.NormalColor)
		v.renderer.DrawBuffers(bufs, n, d.Culling)
	}

	if d.Outline {
		v.renderer.StencilOutline()
		o := v.programs.outline
		o.Use()
		setTransforms(o, identity, view, proj)
		o.SetFloat("outlineSize", d.OutlineSize)
		o.SetVec4("outlineColour", d.OutlineColor)
		v.renderer.DrawBuffers(bufs, o, d.Culling)
		v.renderer.StencilReset()
	}

	p.Use()
	p.SetMat4("model", v.light.ModelMatrix(v.cfg.Light.ModelScale))
	v.renderer.DrawBuffers(v.lightModel.Buffers, p, d.Culling)

	if d.Bounds {
		v.drawBounds(view, proj)
	}
}

func (v *Viewer) drawBounds(view, proj mgl32.Mat4) {
	b := v.feature.Bounds
	l := v.programs.lines
	l.Use()
	l.SetMat4("view", view)
	l.SetMat4("projection", proj)
	l.SetVec4("lineColour", v.display.BoundsColor)

	v.renderer.DrawLines(debug.BoundsWireframe(b, 0), l, mgl32.Ident4())
	v.renderer.DrawLines(debug.CenterCross(b, b.Size().Len()*boundsCross), l, mgl32.Ident4())
}

func setTransforms(p *shader.Program, model, view, proj mgl32.Mat4) {
	p.SetMat4("model", model)
	p.SetMat4("view", view)
	p.SetMat4("projection", proj)
}
