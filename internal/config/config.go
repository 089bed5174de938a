// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig   `yaml:"graphics" toml:"graphics"`
	Camera      CameraConfig     `yaml:"camera" toml:"camera"`
	Light       LightConfig      `yaml:"light" toml:"light"`
	Display     DisplayConfig    `yaml:"display" toml:"display"`
	Import      ImportConfig     `yaml:"import" toml:"import"`
	Logging     LoggingConfig    `yaml:"logging" toml:"logging"`
	Screenshots ScreenshotConfig `yaml:"screenshots" toml:"screenshots"`

	// Watch reloads the config file while the viewer runs.
	Watch bool `yaml:"watch" toml:"watch"`

	// Path is the file the config was read from, empty for defaults only.
	Path string `yaml:"-" toml:"-"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width" toml:"width"`
	Height     int        `yaml:"height" toml:"height"`
	Fullscreen bool       `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool       `yaml:"vsync" toml:"vsync"`
	Background [3]float32 `yaml:"background" toml:"background"`
}

// CameraConfig holds the fly camera start pose and tuning.
type CameraConfig struct {
	Position        [3]float32 `yaml:"position" toml:"position"`
	Yaw             float32    `yaml:"yaw" toml:"yaw"`
	Pitch           float32    `yaml:"pitch" toml:"pitch"`
	MovementSpeed   float32    `yaml:"movement_speed" toml:"movement_speed"`
	TurnSensitivity float32    `yaml:"turn_sensitivity" toml:"turn_sensitivity"`
	Fov             float32    `yaml:"fov" toml:"fov"`
	ZoomMultiplier  float32    `yaml:"zoom_multiplier" toml:"zoom_multiplier"`
	Near            float32    `yaml:"near" toml:"near"`
	Far             float32    `yaml:"far" toml:"far"`
}

// LightConfig holds the point light settings.
type LightConfig struct {
	Position   [3]float32 `yaml:"position" toml:"position"`
	Point      bool       `yaml:"point" toml:"point"`
	Ambient    [3]float32 `yaml:"ambient" toml:"ambient"`
	Diffuse    [3]float32 `yaml:"diffuse" toml:"diffuse"`
	Specular   [3]float32 `yaml:"specular" toml:"specular"`
	Constant   float32    `yaml:"constant" toml:"constant"`
	Linear     float32    `yaml:"linear" toml:"linear"`
	Quadratic  float32    `yaml:"quadratic" toml:"quadratic"`
	ModelScale float32    `yaml:"model_scale" toml:"model_scale"`
	NudgeStep  float32    `yaml:"nudge_step" toml:"nudge_step"`
}

// DisplayConfig holds the render toggles.
type DisplayConfig struct {
	Faces          bool       `yaml:"faces" toml:"faces"`
	Normals        bool       `yaml:"normals" toml:"normals"`
	Wireframe      bool       `yaml:"wireframe" toml:"wireframe"`
	Outline        bool       `yaml:"outline" toml:"outline"`
	Culling        bool       `yaml:"culling" toml:"culling"`
	BoundingBox    bool       `yaml:"bounding_box" toml:"bounding_box"`
	WireframeColor [4]float32 `yaml:"wireframe_color" toml:"wireframe_color"`
	OutlineColor   [4]float32 `yaml:"outline_color" toml:"outline_color"`
	NormalColor    [4]float32 `yaml:"normal_color" toml:"normal_color"`
	BoundsColor    [4]float32 `yaml:"bounds_color" toml:"bounds_color"`
	NormalLength   float32    `yaml:"normal_length" toml:"normal_length"`
	// OutlineSize is a percentage of model units.
	OutlineSize float32 `yaml:"outline_size" toml:"outline_size"`
	Shininess   float32 `yaml:"shininess" toml:"shininess"`
}

// ImportConfig controls what happens to a model after loading.
type ImportConfig struct {
	Normalize bool    `yaml:"normalize" toml:"normalize"`
	TargetMin float32 `yaml:"target_min" toml:"target_min"`
	TargetMax float32 `yaml:"target_max" toml:"target_max"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir" toml:"dir"`
	Prefix string `yaml:"prefix" toml:"prefix"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1200,
			Height:     675,
			Fullscreen: false,
			VSync:      true,
			Background: [3]float32{0.1, 0.1, 0.12},
		},
		Camera: CameraConfig{
			Position:        [3]float32{-0.326, 1.617, 0.837},
			Yaw:             290,
			Pitch:           -30,
			MovementSpeed:   1,
			TurnSensitivity: 0.1,
			Fov:             45,
			ZoomMultiplier:  40,
			Near:            0.01,
			Far:             100,
		},
		Light: LightConfig{
			Position:   [3]float32{1.2, 1.0, 2.0},
			Point:      true,
			Ambient:    [3]float32{0.3, 0.3, 0.3},
			Diffuse:    [3]float32{1, 1, 1},
			Specular:   [3]float32{1, 1, 1},
			Constant:   1,
			Linear:     0.09,
			Quadratic:  0.032,
			ModelScale: 0.1,
			NudgeStep:  0.01,
		},
		Display: DisplayConfig{
			Faces:          true,
			Culling:        false,
			WireframeColor: [4]float32{0, 0, 0, 1},
			OutlineColor:   [4]float32{1, 0.5, 0, 1},
			NormalColor:    [4]float32{1, 1, 0, 1},
			BoundsColor:    [4]float32{0, 1, 0, 1},
			NormalLength:   0.05,
			OutlineSize:    1,
			Shininess:      1,
		},
		Import: ImportConfig{
			Normalize: true,
			TargetMin: -1,
			TargetMax: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Screenshots: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "modelview",
		},
	}
}
