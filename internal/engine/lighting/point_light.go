// Package lighting provides the viewer's movable point light.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Default attenuation terms, good for a range of roughly 50 units.
const (
	DefaultConstant  = 1.0
	DefaultLinear    = 0.09
	DefaultQuadratic = 0.032
)

// Uniforms receives light parameters. *shader.Program implements it.
type Uniforms interface {
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
}

// PointLight is a single light source. With Point false the shader treats
// Position as a direction and skips attenuation.
type PointLight struct {
	Position mgl32.Vec3
	Point    bool

	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32
}

// NewPointLight creates a white light at pos.
func NewPointLight(pos mgl32.Vec3) *PointLight {
	return &PointLight{
		Position:  pos,
		Point:     true,
		Ambient:   mgl32.Vec3{0.3, 0.3, 0.3},
		Diffuse:   mgl32.Vec3{1, 1, 1},
		Specular:  mgl32.Vec3{1, 1, 1},
		Constant:  DefaultConstant,
		Linear:    DefaultLinear,
		Quadratic: DefaultQuadratic,
	}
}

// Nudge moves the light by delta along one axis (0 = x, 1 = y, 2 = z).
func (l *PointLight) Nudge(axis int, delta float32) {
	if axis < 0 || axis > 2 {
		return
	}
	l.Position[axis] += delta
}

// Attenuation returns the light falloff factor at distance d.
func (l *PointLight) Attenuation(d float32) float32 {
	return 1 / (l.Constant + l.Linear*d + l.Quadratic*d*d)
}

// Apply writes the light into the "light" uniform struct. position.w is 1
// for a point light and 0 for a directional one.
func (l *PointLight) Apply(u Uniforms) {
	var w float32
	if l.Point {
		w = 1
	}
	u.SetVec4("light.position", l.Position.Vec4(w))
	u.SetVec3("light.ambient", l.Ambient)
	u.SetVec3("light.diffuse", l.Diffuse)
	u.SetVec3("light.specular", l.Specular)
	u.SetFloat("light.constant", l.Constant)
	u.SetFloat("light.linear", l.Linear)
	u.SetFloat("light.quadratic", l.Quadratic)
}

// ModelMatrix places a marker model at the light, uniformly scaled.
func (l *PointLight) ModelMatrix(scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(l.Position[0], l.Position[1], l.Position[2]).Mul4(mgl32.Scale3D(scale, scale, scale))
}
