// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/modelview/internal/engine/geometry"
)

// Direction is a movement direction relative to the view.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// Limits on orientation and field of view, in degrees.
const (
	MaxPitch = 89.0
	MinFov   = 0.1
	MaxFov   = 180.0
)

// Settings configures a FlyCamera. Angles are in degrees.
type Settings struct {
	Position        mgl32.Vec3
	Up              mgl32.Vec3
	Yaw             float32
	Pitch           float32
	MovementSpeed   float32
	TurnSensitivity float32
	Fov             float32
	Near            float32
	Far             float32
	// ZoomMultiplier scales turning and zooming by Fov/ZoomMultiplier so
	// both slow down when zoomed in.
	ZoomMultiplier float32
}

// DefaultSettings returns the viewer's start pose.
func DefaultSettings() Settings {
	return Settings{
		Position:        mgl32.Vec3{-0.326, 1.617, 0.837},
		Up:              mgl32.Vec3{0, 1, 0},
		Yaw:             290,
		Pitch:           -30,
		MovementSpeed:   1,
		TurnSensitivity: 0.1,
		Fov:             45,
		Near:            0.01,
		Far:             100,
		ZoomMultiplier:  40,
	}
}

// FlyCamera is a free-fly first person camera.
type FlyCamera struct {
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3

	Yaw   float32
	Pitch float32
	Fov   float32

	MovementSpeed   float32
	TurnSensitivity float32
	Aspect          float32
	Near            float32
	Far             float32
	ZoomMultiplier  float32

	start Settings
}

// NewFlyCamera creates a camera in the pose given by s.
func NewFlyCamera(s Settings, aspect float32) *FlyCamera {
	c := &FlyCamera{Aspect: aspect}
	c.apply(s)
	return c
}

func (c *FlyCamera) apply(s Settings) {
	c.start = s
	c.Position = s.Position
	c.Up = s.Up
	if c.Up.Len() == 0 {
		c.Up = mgl32.Vec3{0, 1, 0}
	}
	c.Yaw = s.Yaw
	c.setPitch(s.Pitch)
	c.setFov(s.Fov)
	c.MovementSpeed = s.MovementSpeed
	c.TurnSensitivity = s.TurnSensitivity
	c.Near = s.Near
	c.Far = s.Far
	c.ZoomMultiplier = s.ZoomMultiplier
	if c.ZoomMultiplier == 0 {
		c.ZoomMultiplier = 1
	}
	c.updateFront()
}

// Reset returns to the pose the camera was created with.
func (c *FlyCamera) Reset() { c.apply(c.start) }

// SetSettings changes the start pose and resets to it.
func (c *FlyCamera) SetSettings(s Settings) { c.apply(s) }

// Move translates the camera along the view direction or its right vector.
func (c *FlyCamera) Move(dir Direction, distance float32) {
	switch dir {
	case Forward:
		c.Position = c.Position.Add(c.Front.Mul(distance))
	case Backward:
		c.Position = c.Position.Sub(c.Front.Mul(distance))
	case Left:
		c.Position = c.Position.Sub(c.right().Mul(distance))
	case Right:
		c.Position = c.Position.Add(c.right().Mul(distance))
	}
}

// Turn applies a mouse delta to yaw and pitch.
func (c *FlyCamera) Turn(dx, dy float32) {
	k := (c.Fov / c.ZoomMultiplier) * c.TurnSensitivity
	c.Yaw += dx * k
	c.setPitch(c.Pitch + dy*k)
	c.updateFront()
}

// Zoom changes the field of view proportionally to its current value.
func (c *FlyCamera) Zoom(delta float32) {
	c.setFov(c.Fov + delta*(c.Fov/c.ZoomMultiplier))
}

// View returns the look-at matrix.
func (c *FlyCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

// Projection returns the perspective matrix.
func (c *FlyCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// SetAspect updates the aspect ratio after a resize.
func (c *FlyCamera) SetAspect(width, height int) {
	if height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// FrameBounds places the camera so the whole box fits in view, keeping the
// current orientation.
func (c *FlyCamera) FrameBounds(b geometry.Bounds) {
	if !b.Valid() {
		return
	}
	radius := b.Size().Len() / 2
	if radius == 0 {
		radius = 1
	}
	half := float64(mgl32.DegToRad(c.Fov)) / 2
	dist := radius / float32(gomath.Sin(half))
	c.Position = b.Center().Sub(c.Front.Mul(dist))
	if far := dist + radius; far > c.Far {
		c.Far = far * 1.5
	}
}

func (c *FlyCamera) right() mgl32.Vec3 {
	return c.Front.Cross(c.Up).Normalize()
}

func (c *FlyCamera) setPitch(p float32) {
	c.Pitch = mgl32.Clamp(p, -MaxPitch, MaxPitch)
}

func (c *FlyCamera) setFov(f float32) {
	c.Fov = mgl32.Clamp(f, MinFov, MaxFov)
}

func (c *FlyCamera) updateFront() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	c.Front = mgl32.Vec3{
		float32(gomath.Cos(pitch) * gomath.Cos(yaw)),
		float32(gomath.Sin(pitch)),
		float32(gomath.Cos(pitch) * gomath.Sin(yaw)),
	}.Normalize()
}
