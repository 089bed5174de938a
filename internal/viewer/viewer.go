// Package viewer runs the interactive model viewer: window, input, the
// loaded models and the render loop.
package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/config"
	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/debug"
	"github.com/Faultbox/modelview/internal/engine/input"
	"github.com/Faultbox/modelview/internal/engine/lighting"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/engine/renderer"
	"github.com/Faultbox/modelview/internal/engine/shader"
	"github.com/Faultbox/modelview/internal/engine/window"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/internal/viewer/shaders"
)

const title = "Model Viewer"

// Paths names the two models the viewer shows.
type Paths struct {
	Model string
	Light string
}

type programs struct {
	model   *shader.Program
	normals *shader.Program
	outline *shader.Program
	lines   *shader.Program
}

func (p *programs) delete() {
	for _, prog := range []*shader.Program{p.model, p.normals, p.outline, p.lines} {
		if prog != nil {
			prog.Delete()
		}
	}
}

// Viewer is the application instance.
type Viewer struct {
	cfg   *config.Config
	paths Paths

	window   *window.Window
	input    *input.Input
	renderer *renderer.Renderer
	programs programs

	camera  *camera.FlyCamera
	light   *lighting.PointLight
	display Display

	feature    *model.Model
	lightModel *model.Model

	screenshots    *debug.ScreenshotCapture
	capturePending bool
	watcher        *config.Watcher
	timer          *FrameTimer

	running bool
	log     *zap.Logger
}

// New opens the window, compiles the shaders and loads both models. The
// feature model is normalized unless cfg disables it.
func New(cfg *config.Config, paths Paths) (*Viewer, error) {
	v := &Viewer{
		cfg:         cfg,
		paths:       paths,
		input:       input.New(),
		light:       lightFromConfig(cfg.Light),
		display:     displayFromConfig(cfg.Display),
		screenshots: debug.NewScreenshotCapture(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
		timer:       NewFrameTimer(),
		log:         logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.String("model", paths.Model),
		zap.String("light", paths.Light),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	if err := v.init(); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func (v *Viewer) init() error {
	cfg := v.cfg

	// Window first: the renderer needs its GL context.
	var err error
	v.window, err = window.New(window.Config{
		Title:         title,
		Width:         cfg.Graphics.Width,
		Height:        cfg.Graphics.Height,
		Fullscreen:    cfg.Graphics.Fullscreen,
		VSync:         cfg.Graphics.VSync,
		RelativeMouse: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	width, height := v.window.GetSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: mgl32.Vec3(cfg.Graphics.Background),
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.compilePrograms(); err != nil {
		return err
	}

	v.camera = camera.NewFlyCamera(cameraSettings(cfg.Camera), 1)
	v.camera.SetAspect(width, height)

	if err := v.loadModels(); err != nil {
		return err
	}

	if cfg.Watch {
		v.startWatcher()
	}
	return nil
}

func (v *Viewer) compilePrograms() error {
	var err error
	compile := func(name string, src shader.Sources) *shader.Program {
		if err != nil {
			return nil
		}
		var p *shader.Program
		p, err = shader.NewProgram(name, src)
		return p
	}

	v.programs.model = compile("model", shaders.Model())
	v.programs.normals = compile("normals", shaders.Normals())
	v.programs.outline = compile("outline", shaders.Outline())
	v.programs.lines = compile("lines", shaders.Lines())
	if err != nil {
		return fmt.Errorf("failed to compile shaders: %w", err)
	}
	return nil
}

func (v *Viewer) loadModels() error {
	imp := v.cfg.Import

	v.feature = model.New(v.paths.Model)
	if err := v.feature.Load(v.renderer); err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	if imp.Normalize {
		if err := v.feature.Normalize(imp.TargetMin, imp.TargetMax); err != nil {
			return fmt.Errorf("failed to normalize model: %w", err)
		}
	} else {
		v.camera.FrameBounds(v.feature.Bounds)
	}
	v.feature.LogBounds()

	v.lightModel = model.New(v.paths.Light)
	if err := v.lightModel.Load(v.renderer); err != nil {
		return fmt.Errorf("failed to load light model: %w", err)
	}
	return nil
}

func (v *Viewer) startWatcher() {
	if v.cfg.Path == "" {
		v.log.Warn("config watch requested but no config file was loaded")
		return
	}
	w, err := config.Watch(v.cfg.Path)
	if err != nil {
		v.log.Warn("config watch disabled", zap.Error(err))
		return
	}
	v.watcher = w
}

// Run starts the main loop and returns when the window closes or Esc is
// pressed.
func (v *Viewer) Run() error {
	v.running = true
	v.log.Info("starting main loop")

	for v.running {
		dt := v.timer.Tick()

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.update(dt)
		v.applyReloads()

		v.render()
		if v.capturePending {
			v.capturePending = false
			v.capture()
		}
		v.window.SwapBuffers()

		if fps, ok := v.timer.FPS(); ok {
			v.log.Debug("fps", zap.Int("count", fps), zap.Float32("dt_ms", dt*1000))
		}
	}

	v.log.Info("main loop stopped")
	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := v.window.GetSize()
			v.renderer.Resize(w, h)
			v.camera.SetAspect(w, h)
		case input.EventKeyDown:
			if !event.Repeat {
				v.do(actionFor(event.Key))
			}
		}
	}

	if dx, dy := v.input.MouseDelta(); dx != 0 || dy != 0 {
		// Screen y grows downwards; pitch grows upwards.
		v.camera.Turn(float32(dx), float32(-dy))
	}
	if wheel := v.input.Wheel(); wheel != 0 {
		v.camera.Zoom(float32(wheel))
	}
}

func (v *Viewer) do(a Action) {
	if v.display.apply(a) {
		v.log.Debug("display toggled", zap.Any("display", v.display))
		return
	}
	switch a {
	case ActionQuit:
		v.running = false
	case ActionResetCamera:
		v.camera.Reset()
		if !v.cfg.Import.Normalize {
			v.camera.FrameBounds(v.feature.Bounds)
		}
	case ActionTogglePointLight:
		v.light.Point = !v.light.Point
	case ActionScreenshot:
		v.capturePending = true
	}
}

func (v *Viewer) update(dt float32) {
	moveCamera(v.input, v.camera, dt)
	nudgeLight(v.input, v.light, v.cfg.Light.NudgeStep)
}

func (v *Viewer) capture() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// applyReloads takes the newest config from the watcher, if any.
func (v *Viewer) applyReloads() {
	if v.watcher == nil {
		return
	}
	select {
	case cfg, ok := <-v.watcher.Updates():
		if ok {
			v.applyConfig(cfg)
		}
	default:
	}
}

// applyConfig applies the settings that can change while running. Import
// settings and the camera pose need a restart.
func (v *Viewer) applyConfig(cfg *config.Config) {
	old := v.cfg
	v.cfg = cfg

	g := cfg.Graphics
	v.renderer.SetBackground(mgl32.Vec3(g.Background))
	if g.VSync != old.Graphics.VSync {
		v.window.SetVSync(g.VSync)
	}
	if g.Fullscreen != old.Graphics.Fullscreen {
		if err := v.window.SetFullscreen(g.Fullscreen); err != nil {
			v.log.Warn("fullscreen switch failed", zap.Error(err))
		}
	}
	if g.Width != old.Graphics.Width || g.Height != old.Graphics.Height {
		v.window.SetSize(g.Width, g.Height)
	}

	v.light = lightFromConfig(cfg.Light)
	v.display = displayFromConfig(cfg.Display)

	c := cfg.Camera
	v.camera.MovementSpeed = c.MovementSpeed
	v.camera.TurnSensitivity = c.TurnSensitivity
	if c.ZoomMultiplier > 0 {
		v.camera.ZoomMultiplier = c.ZoomMultiplier
	}

	v.screenshots.SetOutputDir(cfg.Screenshots.Dir)
	v.log.Info("config applied", zap.String("path", cfg.Path))
}

// Close releases models, shaders, the renderer and the window, in that
// order. It is safe on a partly initialized viewer.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("config watcher close failed", zap.Error(err))
		}
	}
	if v.feature != nil {
		v.feature.Unload()
	}
	if v.lightModel != nil {
		v.lightModel.Unload()
	}
	v.programs.delete()
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
