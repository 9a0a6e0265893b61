// Package main is the interactive soft body viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-softbody/internal/config"
	"github.com/Faultbox/midgard-softbody/internal/logger"
	"github.com/Faultbox/midgard-softbody/internal/scene"
	"github.com/Faultbox/midgard-softbody/internal/sim"
	"github.com/Faultbox/midgard-softbody/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Softbody Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	file, err := loadScene(cfg.Scene.Path)
	if err != nil {
		logger.Error("failed to load scene", zap.Error(err))
		os.Exit(1)
	}

	s, err := sim.New(cfg.Simulation, file)
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}

	v, err := viewer.New(cfg, s)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func loadScene(path string) (*scene.File, error) {
	if path == "" {
		return scene.Default(), nil
	}
	return scene.Load(path)
}
