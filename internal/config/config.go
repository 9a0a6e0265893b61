// Package config handles simulator configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulator settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Scene      SceneConfig      `yaml:"scene"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`
}

// SimulationConfig holds solver settings.
type SimulationConfig struct {
	Iterations     int        `yaml:"iterations"`
	FixedTimeStep  bool       `yaml:"fixed_time_step"` // false: step by wall clock
	TimeStep       float32    `yaml:"time_step"`
	Frames         int        `yaml:"frames"` // headless runner only
	Gravity        [3]float32 `yaml:"gravity"`
	GravityEnabled bool       `yaml:"gravity_enabled"`
	CollisionLevel int        `yaml:"collision_level"`
	Wind           WindConfig `yaml:"wind"`
}

// WindConfig holds the gust field settings.
type WindConfig struct {
	Enabled   bool       `yaml:"enabled"`
	Direction [3]float32 `yaml:"direction"`
	Strength  float32    `yaml:"strength"`
	Frequency float32    `yaml:"frequency"`
	Seed      int64      `yaml:"seed"`
}

// SceneConfig selects the scene to simulate.
type SceneConfig struct {
	Path string `yaml:"path"` // empty: built-in demo
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Simulation: SimulationConfig{
			Iterations:     4,
			FixedTimeStep:  true,
			TimeStep:       1.0 / 60,
			Frames:         600,
			Gravity:        [3]float32{0, -9.81, 0},
			GravityEnabled: true,
			Wind: WindConfig{
				Direction: [3]float32{1, 0, 0},
				Strength:  2,
				Frequency: 0.5,
				Seed:      1,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values the simulator cannot run with.
func (c *Config) Validate() error {
	if c.Simulation.Iterations < 1 {
		return fmt.Errorf("%w: simulation.iterations must be >= 1, got %d", ErrInvalidConfig, c.Simulation.Iterations)
	}
	if c.Simulation.TimeStep <= 0 {
		return fmt.Errorf("%w: simulation.time_step must be > 0, got %g", ErrInvalidConfig, c.Simulation.TimeStep)
	}
	if c.Simulation.Frames < 0 {
		return fmt.Errorf("%w: simulation.frames must be >= 0, got %d", ErrInvalidConfig, c.Simulation.Frames)
	}
	if c.Simulation.CollisionLevel < 0 {
		return fmt.Errorf("%w: simulation.collision_level must be >= 0, got %d", ErrInvalidConfig, c.Simulation.CollisionLevel)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Graphics.Width, c.Graphics.Height)
	}
	return nil
}
