package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/modelview/internal/engine/geometry"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.Position = mgl32.Vec3{}
	s.Yaw = 0
	s.Pitch = 0
	return s
}

func TestFlyCameraFront(t *testing.T) {
	c := NewFlyCamera(testSettings(), 16.0/9.0)
	assert.InDelta(t, 1, c.Front.X(), 1e-5)
	assert.InDelta(t, 0, c.Front.Y(), 1e-5)
	assert.InDelta(t, 0, c.Front.Z(), 1e-5)

	def := NewFlyCamera(DefaultSettings(), 1)
	assert.InDelta(t, 1, def.Front.Len(), 1e-5)
	assert.Less(t, def.Front.Y(), float32(0), "default pose looks down")
}

func TestFlyCameraMove(t *testing.T) {
	tests := []struct {
		dir  Direction
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{2, 0, 0}},
		{Backward, mgl32.Vec3{-2, 0, 0}},
		{Right, mgl32.Vec3{0, 0, 2}},
		{Left, mgl32.Vec3{0, 0, -2}},
	}

	for _, tt := range tests {
		c := NewFlyCamera(testSettings(), 1)
		c.Move(tt.dir, 2)
		for i := 0; i < 3; i++ {
			assert.InDelta(t, tt.want[i], c.Position[i], 1e-5, "direction %d axis %d", tt.dir, i)
		}
	}
}

func TestFlyCameraPitchClamp(t *testing.T) {
	c := NewFlyCamera(testSettings(), 1)
	c.Turn(0, 1e6)
	assert.Equal(t, float32(MaxPitch), c.Pitch)
	c.Turn(0, -1e7)
	assert.Equal(t, float32(-MaxPitch), c.Pitch)
}

func TestFlyCameraTurnScalesWithFov(t *testing.T) {
	s := testSettings()
	s.TurnSensitivity = 1
	s.Fov = 40
	s.ZoomMultiplier = 40
	c := NewFlyCamera(s, 1)

	c.Turn(10, 0)
	assert.InDelta(t, 10, c.Yaw, 1e-4)

	c.Fov = 20
	c.Turn(10, 0)
	assert.InDelta(t, 15, c.Yaw, 1e-4)
}

func TestFlyCameraZoomClamp(t *testing.T) {
	c := NewFlyCamera(testSettings(), 1)
	c.Zoom(-1e6)
	assert.Equal(t, float32(MinFov), c.Fov)
	c.Zoom(1e6)
	assert.Equal(t, float32(MaxFov), c.Fov)
}

func TestFlyCameraReset(t *testing.T) {
	c := NewFlyCamera(DefaultSettings(), 1)
	c.Move(Forward, 5)
	c.Turn(100, 100)
	c.Zoom(3)

	c.Reset()
	assert.Equal(t, DefaultSettings().Position, c.Position)
	assert.Equal(t, float32(290), c.Yaw)
	assert.Equal(t, float32(-30), c.Pitch)
	assert.Equal(t, float32(45), c.Fov)
}

func TestFlyCameraFrameBounds(t *testing.T) {
	c := NewFlyCamera(testSettings(), 1)
	box := geometry.Bounds{Min: mgl32.Vec3{9, -1, -1}, Max: mgl32.Vec3{11, 1, 1}}

	c.FrameBounds(box)
	// Looking down +x at the centre, from far enough to fit the radius.
	assert.InDelta(t, 0, c.Position.Y(), 1e-5)
	assert.InDelta(t, 0, c.Position.Z(), 1e-5)
	assert.Less(t, c.Position.X(), float32(9))

	before := c.Position
	c.FrameBounds(geometry.EmptyBounds())
	assert.Equal(t, before, c.Position)
}

func TestFlyCameraMatrices(t *testing.T) {
	c := NewFlyCamera(testSettings(), 2)
	p := c.View().Mul4x1(mgl32.Vec4{5, 0, 0, 1})
	assert.InDelta(t, -5, p.Z(), 1e-4, "a point ahead is at negative view z")

	c.SetAspect(800, 400)
	assert.Equal(t, float32(2), c.Aspect)
	c.SetAspect(800, 0)
	assert.Equal(t, float32(2), c.Aspect)
	assert.NotEqual(t, mgl32.Mat4{}, c.Projection())
}
