// Package main runs a scene headless for a fixed number of frames and logs
// the state of every body.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-softbody/internal/config"
	"github.com/Faultbox/midgard-softbody/internal/logger"
	"github.com/Faultbox/midgard-softbody/internal/scene"
	"github.com/Faultbox/midgard-softbody/internal/sim"
)

// reportEvery is the number of frames between progress reports.
const reportEvery = 60

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

	file := scene.Default()
	if cfg.Scene.Path != "" {
		file, err = scene.Load(cfg.Scene.Path)
		if err != nil {
			logger.Error("failed to load scene", zap.Error(err))
			os.Exit(1)
		}
	}

	s, err := sim.New(cfg.Simulation, file)
	if err != nil {
		logger.Error("failed to create simulation", zap.Error(err))
		os.Exit(1)
	}

	start := time.Now()
	for frame := 1; frame <= cfg.Simulation.Frames; frame++ {
		s.Step()
		if frame%reportEvery == 0 {
			report(s)
		}
	}
	if cfg.Simulation.Frames%reportEvery != 0 {
		report(s)
	}

	elapsed := time.Since(start)
	logger.Info("simulation finished",
		zap.Int("frames", s.Frame()),
		zap.Duration("elapsed", elapsed),
		zap.Float64("frames_per_second", float64(s.Frame())/max(elapsed.Seconds(), 1e-9)),
	)
}

func report(s *sim.Simulation) {
	logger.Info("frame",
		zap.Int("frame", s.Frame()),
		zap.Int("contacts", s.Solver().CollisionCount()))
	for _, st := range s.Stats() {
		logger.Info("body", st.Fields()...)
	}
}
