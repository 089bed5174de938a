package config

import (
	"errors"
	"flag"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagNoNormalize = flag.Bool("no-normalize", false, "Keep the model in its own coordinates")
	flagWatch       = flag.Bool("watch", false, "Reload the config file when it changes")
)

// ErrModelArgs is returned when the two model paths are missing.
var ErrModelArgs = errors.New("expected two model paths: <model> <light-model>")

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ModelPaths returns the model and light model paths given as arguments.
func ModelPaths() (model, light string, err error) {
	return modelPaths(flag.Args())
}

func modelPaths(args []string) (string, string, error) {
	if len(args) != 2 || args[0] == "" || args[1] == "" {
		return "", "", ErrModelArgs
	}
	return args[0], args[1], nil
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagNoNormalize {
		cfg.Import.Normalize = false
	}
	if *flagWatch {
		cfg.Watch = true
	}
}
