package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/modelview/internal/config"
	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/lighting"
)

// Action is a one-shot command bound to a key press.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionResetCamera
	ActionToggleFaces
	ActionToggleCulling
	ActionToggleNormals
	ActionToggleWireframe
	ActionToggleOutline
	ActionTogglePointLight
	ActionFlipShininess
	ActionToggleBounds
	ActionScreenshot
)

var pressBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_1:      ActionResetCamera,
	sdl.SCANCODE_F:      ActionToggleFaces,
	sdl.SCANCODE_C:      ActionToggleCulling,
	sdl.SCANCODE_N:      ActionToggleNormals,
	sdl.SCANCODE_X:      ActionToggleWireframe,
	sdl.SCANCODE_V:      ActionToggleOutline,
	sdl.SCANCODE_P:      ActionTogglePointLight,
	sdl.SCANCODE_Z:      ActionFlipShininess,
	sdl.SCANCODE_B:      ActionToggleBounds,
	sdl.SCANCODE_F12:    ActionScreenshot,
}

// actionFor returns the action bound to a key, or ActionNone.
func actionFor(key sdl.Scancode) Action {
	return pressBindings[key]
}

// Keys reports held keys. *input.Input implements it.
type Keys interface {
	IsKeyDown(scancode sdl.Scancode) bool
}

var moveBindings = []struct {
	key sdl.Scancode
	dir camera.Direction
}{
	{sdl.SCANCODE_W, camera.Forward},
	{sdl.SCANCODE_S, camera.Backward},
	{sdl.SCANCODE_A, camera.Left},
	{sdl.SCANCODE_D, camera.Right},
}

var lightBindings = []struct {
	key  sdl.Scancode
	axis int
	sign float32
}{
	{sdl.SCANCODE_U, 0, 1},
	{sdl.SCANCODE_J, 0, -1},
	{sdl.SCANCODE_I, 1, 1},
	{sdl.SCANCODE_K, 1, -1},
	{sdl.SCANCODE_O, 2, 1},
	{sdl.SCANCODE_L, 2, -1},
}

// moveCamera applies WASD movement scaled by the camera speed and frame time.
func moveCamera(keys Keys, cam *camera.FlyCamera, dt float32) {
	distance := cam.MovementSpeed * dt
	for _, b := range moveBindings {
		if keys.IsKeyDown(b.key) {
			cam.Move(b.dir, distance)
		}
	}
}

// nudgeLight moves the light a fixed step per frame for each held key.
func nudgeLight(keys Keys, light *lighting.PointLight, step float32) {
	for _, b := range lightBindings {
		if keys.IsKeyDown(b.key) {
			light.Nudge(b.axis, b.sign*step)
		}
	}
}

// Display holds the render toggles and overlay styling.
type Display struct {
	Faces     bool
	Normals   bool
	Wireframe bool
	Outline   bool
	Culling   bool
	Bounds    bool

	Shininess    float32
	NormalLength float32
	OutlineSize  float32

	WireframeColor mgl32.Vec4
	OutlineColor   mgl32.Vec4
	NormalColor    mgl32.Vec4
	BoundsColor    mgl32.Vec4
}

func displayFromConfig(c config.DisplayConfig) Display {
	return Display{
		Faces:          c.Faces,
		Normals:        c.Normals,
		Wireframe:      c.Wireframe,
		Outline:        c.Outline,
		Culling:        c.Culling,
		Bounds:         c.BoundingBox,
		Shininess:      c.Shininess,
		NormalLength:   c.NormalLength,
		OutlineSize:    c.OutlineSize / 100,
		WireframeColor: mgl32.Vec4(c.WireframeColor),
		OutlineColor:   mgl32.Vec4(c.OutlineColor),
		NormalColor:    mgl32.Vec4(c.NormalColor),
		BoundsColor:    mgl32.Vec4(c.BoundsColor),
	}
}

// apply toggles display state and reports whether the action was a
// display action.
func (d *Display) apply(a Action) bool {
	switch a {
	case ActionToggleFaces:
		d.Faces = !d.Faces
	case ActionToggleCulling:
		d.Culling = !d.Culling
	case ActionToggleNormals:
		d.Normals = !d.Normals
	case ActionToggleWireframe:
		d.Wireframe = !d.Wireframe
	case ActionToggleOutline:
		d.Outline = !d.Outline
	case ActionToggleBounds:
		d.Bounds = !d.Bounds
	case ActionFlipShininess:
		d.Shininess = -d.Shininess
	default:
		return false
	}
	return true
}

func cameraSettings(c config.CameraConfig) camera.Settings {
	s := camera.DefaultSettings()
	s.Position = mgl32.Vec3(c.Position)
	s.Yaw = c.Yaw
	s.Pitch = c.Pitch
	s.MovementSpeed = c.MovementSpeed
	s.TurnSensitivity = c.TurnSensitivity
	s.Fov = c.Fov
	s.Near = c.Near
	s.Far = c.Far
	s.ZoomMultiplier = c.ZoomMultiplier
	return s
}

func lightFromConfig(c config.LightConfig) *lighting.PointLight {
	l := lighting.NewPointLight(mgl32.Vec3(c.Position))
	l.Point = c.Point
	l.Ambient = mgl32.Vec3(c.Ambient)
	l.Diffuse = mgl32.Vec3(c.Diffuse)
	l.Specular = mgl32.Vec3(c.Specular)
	l.Constant = c.Constant
	l.Linear = c.Linear
	l.Quadratic = c.Quadratic
	return l
}
