// Package main is the entry point for the model viewer.
//
// Usage:
//
//	modelview [flags] <model> <light-model>
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/config"
	"github.com/Faultbox/modelview/internal/logger"
	"github.com/Faultbox/modelview/internal/viewer"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <model> <light-model>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	config.ParseFlags()

	modelPath, lightPath, err := config.ModelPaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(cfg, viewer.Paths{Model: modelPath, Light: lightPath}))
}

// run keeps deferred cleanup ahead of os.Exit.
func run(cfg *config.Config, paths viewer.Paths) int {
	defer logger.Sync()
	log := logger.Named("main")

	log.Info("model viewer starting", zap.String("model", paths.Model), zap.String("light", paths.Light))
	log.Debug("config loaded", zap.String("path", cfg.Path), zap.Any("config", cfg))

	v, err := viewer.New(cfg, paths)
	if err != nil {
		log.Fatal("failed to start viewer", zap.Error(err))
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		log.Error("viewer error", zap.Error(err))
		return 1
	}

	log.Info("viewer closed normally")
	return 0
}
