package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1200 || cfg.Graphics.Height != 675 {
		t.Errorf("expected 1200x675, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	if cfg.Camera.Fov != 45 {
		t.Errorf("expected fov 45, got %f", cfg.Camera.Fov)
	}
	if cfg.Camera.ZoomMultiplier != 40 {
		t.Errorf("expected zoom multiplier 40, got %f", cfg.Camera.ZoomMultiplier)
	}
	if cfg.Camera.Yaw != 290 || cfg.Camera.Pitch != -30 {
		t.Errorf("expected yaw 290 pitch -30, got %f %f", cfg.Camera.Yaw, cfg.Camera.Pitch)
	}

	if !cfg.Light.Point {
		t.Error("expected point lighting to be on by default")
	}
	if cfg.Light.Linear != 0.09 || cfg.Light.Quadratic != 0.032 {
		t.Errorf("unexpected attenuation %f %f", cfg.Light.Linear, cfg.Light.Quadratic)
	}
	if cfg.Light.ModelScale != 0.1 {
		t.Errorf("expected light model scale 0.1, got %f", cfg.Light.ModelScale)
	}

	if !cfg.Display.Faces {
		t.Error("expected faces to be drawn by default")
	}
	if cfg.Display.Shininess != 1 {
		t.Errorf("expected shininess 1, got %f", cfg.Display.Shininess)
	}

	if !cfg.Import.Normalize || cfg.Import.TargetMin != -1 || cfg.Import.TargetMax != 1 {
		t.Errorf("unexpected import defaults %+v", cfg.Import)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  background: [0.2, 0.3, 0.4]

camera:
  fov: 60
  movement_speed: 2.5

light:
  point: false
  nudge_step: 0.05

display:
  wireframe: true
  outline_color: [1, 0, 0, 0.5]

import:
  normalize: false
  target_min: 0
  target_max: 4

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.Background != [3]float32{0.2, 0.3, 0.4} {
		t.Errorf("unexpected background %v", cfg.Graphics.Background)
	}
	if cfg.Camera.Fov != 60 || cfg.Camera.MovementSpeed != 2.5 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Camera.Yaw != 290 {
		t.Errorf("expected default yaw to survive, got %f", cfg.Camera.Yaw)
	}
	if cfg.Light.Point {
		t.Error("expected point lighting off")
	}
	if cfg.Display.OutlineColor != [4]float32{1, 0, 0, 0.5} {
		t.Errorf("unexpected outline colour %v", cfg.Display.OutlineColor)
	}
	if cfg.Import.Normalize || cfg.Import.TargetMax != 4 {
		t.Errorf("unexpected import %+v", cfg.Import)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
watch = true

[graphics]
width = 800
vsync = false

[display]
normals = true
normal_length = 0.2

[light]
position = [0.0, 3.0, 0.0]
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Watch {
		t.Error("expected watch to be enabled")
	}
	if cfg.Graphics.Width != 800 || cfg.Graphics.VSync {
		t.Errorf("unexpected graphics %+v", cfg.Graphics)
	}
	if cfg.Graphics.Height != 675 {
		t.Errorf("expected default height, got %d", cfg.Graphics.Height)
	}
	if !cfg.Display.Normals || cfg.Display.NormalLength != 0.2 {
		t.Errorf("unexpected display %+v", cfg.Display)
	}
	if cfg.Light.Position != [3]float32{0, 3, 0} {
		t.Errorf("unexpected light position %v", cfg.Light.Position)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"invalid.yaml": "graphics:\n  width: not a number\n  invalid syntax here\n",
		"invalid.toml": "[graphics\nwidth = ",
	}
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if err := loadFromFile(Default(), path); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[graphics]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.toml" {
		t.Errorf("expected ./config.toml, got %q", path)
	}

	// YAML wins when both exist.
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected ./config.yaml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "no-normalize flag",
			setup: func() { *flagNoNormalize = true },
			verify: func(cfg *Config) {
				if cfg.Import.Normalize {
					t.Error("expected normalization off")
				}
			},
			teardown: func() { *flagNoNormalize = false },
		},
		{
			name:  "watch flag",
			setup: func() { *flagWatch = true },
			verify: func(cfg *Config) {
				if !cfg.Watch {
					t.Error("expected watch on")
				}
			},
			teardown: func() { *flagWatch = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestModelPaths(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr bool
	}{
		{[]string{"box.gltf", "light.glb"}, false},
		{[]string{"box.gltf"}, true},
		{nil, true},
		{[]string{"a", "b", "c"}, true},
		{[]string{"", "b"}, true},
	}
	for _, tt := range tests {
		m, l, err := modelPaths(tt.args)
		if tt.wantErr {
			if !errors.Is(err, ErrModelArgs) {
				t.Errorf("%v: expected ErrModelArgs, got %v", tt.args, err)
			}
			continue
		}
		if err != nil || m != tt.args[0] || l != tt.args[1] {
			t.Errorf("%v: got %q %q %v", tt.args, m, l, err)
		}
	}
}

func TestSaveToFormats(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out.yaml", "nested/out.toml"} {
		path := filepath.Join(tmpDir, name)

		cfg := Default()
		cfg.Graphics.Width = 1024
		cfg.Display.OutlineColor = [4]float32{0, 0, 1, 1}
		cfg.Path = "ignored"
		if err := cfg.SaveTo(path); err != nil {
			t.Fatalf("%s: save failed: %v", name, err)
		}

		loaded := &Config{}
		if err := loadFromFile(loaded, path); err != nil {
			t.Fatalf("%s: reload failed: %v", name, err)
		}
		if loaded.Graphics.Width != 1024 {
			t.Errorf("%s: expected width 1024, got %d", name, loaded.Graphics.Width)
		}
		if loaded.Display.OutlineColor != cfg.Display.OutlineColor {
			t.Errorf("%s: unexpected outline colour %v", name, loaded.Display.OutlineColor)
		}
		if loaded.Path != "" {
			t.Errorf("%s: path must not be serialized, got %q", name, loaded.Path)
		}
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
	if cfg.Path != configPath {
		t.Errorf("expected path %s, got %s", configPath, cfg.Path)
	}
}

func TestWatchReloads(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	w, err := Watch(configPath)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	defer w.Close()

	// Unrelated files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(tmpDir, "other.yaml"), []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write other file: %v", err)
	}
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Updates():
			if cfg.Graphics.Width == 640 {
				if cfg.Graphics.Height != 675 {
					t.Errorf("expected default height after reload, got %d", cfg.Graphics.Height)
				}
				return
			}
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}

func TestWatchClose(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("watch: true\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	w, err := Watch(configPath)
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	_ = w.Close()

	if _, ok := <-w.Updates(); ok {
		t.Error("expected updates channel to be closed")
	}
}
