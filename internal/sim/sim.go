// Package sim owns a running simulation: the solver, the bodies built from a
// scene and the fields configured for it. Both the headless runner and the
// viewer drive it.
package sim

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-softbody/internal/config"
	"github.com/Faultbox/midgard-softbody/internal/logger"
	"github.com/Faultbox/midgard-softbody/internal/mesh"
	"github.com/Faultbox/midgard-softbody/internal/physics"
	"github.com/Faultbox/midgard-softbody/internal/scene"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// ErrInvalidTimeStep is returned for a non-positive time step.
var ErrInvalidTimeStep = errors.New("time step must be positive")

// maxCatchUpSteps bounds the fixed steps taken by one Advance call so a
// stalled frame does not snowball.
const maxCatchUpSteps = 4

// Simulation is a solver populated from a scene.
type Simulation struct {
	cfg    config.SimulationConfig
	file   *scene.File
	solver *physics.Solver
	bodies []*physics.Body

	gravity *physics.UniformField
	wind    *physics.GustField

	paused      bool
	frame       int
	accumulator float32

	log *zap.Logger
}

// BodyStats is a snapshot of one body's state.
type BodyStats struct {
	Name     string
	Centroid math.Vec3
	Lowest   float32
	Volume   float32
}

// New builds the scene into a fresh solver. Gravity is on when both the
// config and the scene enable it; wind when either does.
func New(cfg config.SimulationConfig, file *scene.File) (*Simulation, error) {
	if !(cfg.TimeStep > 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidTimeStep, cfg.TimeStep)
	}
	s := &Simulation{
		cfg:  cfg,
		file: file,
		log:  logger.Named("sim"),
	}

	solver, err := physics.NewSolver(
		physics.WithIterations(cfg.Iterations),
		physics.OnAfterSolve(func(*physics.Solver) { s.frame++ }),
	)
	if err != nil {
		return nil, fmt.Errorf("create solver: %w", err)
	}
	s.solver = solver

	s.bodies, err = file.Build(solver)
	if err != nil {
		return nil, fmt.Errorf("build scene %q: %w", file.Scene.Name, err)
	}
	if cfg.CollisionLevel > 0 {
		s.ShiftCollisionLevel(cfg.CollisionLevel)
	}

	s.gravity = physics.NewUniformField(math.FromArray(cfg.Gravity))
	if cfg.GravityEnabled && file.Scene.Gravity {
		solver.AddField(s.gravity)
	}
	if cfg.Wind.Enabled || file.Scene.Wind {
		w := cfg.Wind
		s.wind = physics.NewGustField(math.FromArray(w.Direction), w.Strength, w.Frequency, w.Seed)
		solver.AddField(s.wind)
	}

	s.log.Info("simulation ready",
		zap.String("scene", file.Scene.Name),
		zap.Int("bodies", len(s.bodies)),
		zap.Int("particles", solver.ParticleCount()),
		zap.Int("iterations", solver.Iterations()),
		zap.Bool("gravity", s.GravityEnabled()),
		zap.Bool("wind", s.wind != nil),
	)
	return s, nil
}

// Solver returns the underlying solver.
func (s *Simulation) Solver() *physics.Solver { return s.solver }

// Scene returns the scene the simulation was built from.
func (s *Simulation) Scene() *scene.File { return s.file }

// Bodies returns the bodies in build order.
func (s *Simulation) Bodies() []*physics.Body { return s.bodies }

// Meshes returns the body meshes in build order.
func (s *Simulation) Meshes() []*mesh.Mesh {
	out := make([]*mesh.Mesh, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.Mesh()
	}
	return out
}

// Frame returns the number of solved frames since the last reset.
func (s *Simulation) Frame() int { return s.frame }

// Step solves one frame of the configured time step, even when paused.
func (s *Simulation) Step() {
	s.solver.Solve(s.cfg.TimeStep)
}

// Advance moves the simulation forward by elapsed wall-clock seconds and
// returns the number of frames solved. With a fixed time step it solves
// whole steps and carries the remainder.
func (s *Simulation) Advance(elapsed float32) int {
	if s.paused || elapsed <= 0 {
		return 0
	}
	if !s.cfg.FixedTimeStep {
		s.solver.Solve(elapsed)
		return 1
	}

	s.accumulator = min(s.accumulator+elapsed, maxCatchUpSteps*s.cfg.TimeStep)
	steps := 0
	for s.accumulator >= s.cfg.TimeStep {
		s.Step()
		s.accumulator -= s.cfg.TimeStep
		steps++
	}
	return steps
}

// Paused reports whether Advance is suspended.
func (s *Simulation) Paused() bool { return s.paused }

// TogglePause flips the paused state and returns the new one.
func (s *Simulation) TogglePause() bool {
	s.paused = !s.paused
	s.accumulator = 0
	return s.paused
}

// Reset puts every body back to its initial state.
func (s *Simulation) Reset() {
	s.solver.Reset()
	s.frame = 0
	s.accumulator = 0
	s.log.Info("simulation reset")
}

// GravityEnabled reports whether the gravity field is registered.
func (s *Simulation) GravityEnabled() bool {
	for _, f := range s.solver.Fields() {
		if f == physics.Field(s.gravity) {
			return true
		}
	}
	return false
}

// ToggleGravity adds or removes the gravity field and returns whether it is
// now enabled.
func (s *Simulation) ToggleGravity() bool {
	if s.solver.RemoveField(s.gravity) {
		s.log.Info("gravity off")
		return false
	}
	s.solver.AddField(s.gravity)
	s.log.Info("gravity on")
	return true
}

// AdjustPressure adds delta to the pressure of every closed body, never
// going below zero.
func (s *Simulation) AdjustPressure(delta float32) {
	for _, b := range s.bodies {
		p, ok := b.Pressure()
		if !ok {
			continue
		}
		b.SetPressure(max(p+delta, 0))
		s.log.Debug("pressure",
			zap.String("body", b.Name()),
			zap.Float32("pressure", max(p+delta, 0)))
	}
}

// ShiftCollisionLevel moves every body's collision level by delta, clamped
// to the levels the body has.
func (s *Simulation) ShiftCollisionLevel(delta int) {
	for _, b := range s.bodies {
		n := len(b.DistanceLevels())
		if n == 0 {
			continue
		}
		level := min(max(b.CollisionLevel()+delta, 0), n-1)
		if err := b.SetCollisionLevel(level); err != nil {
			s.log.Warn("collision level", zap.String("body", b.Name()), zap.Error(err))
			continue
		}
		s.log.Debug("collision level",
			zap.String("body", b.Name()),
			zap.Int("level", level))
	}
}

// Stats returns a snapshot of every enabled body.
func (s *Simulation) Stats() []BodyStats {
	out := make([]BodyStats, 0, len(s.bodies))
	for _, b := range s.bodies {
		if !b.Enabled() {
			continue
		}
		out = append(out, BodyStats{
			Name:     b.Name(),
			Centroid: b.Centroid(),
			Lowest:   b.LowestPoint(),
			Volume:   b.Volume(),
		})
	}
	return out
}

// Fields returns the zap fields describing st, for logging.
func (st BodyStats) Fields() []zap.Field {
	return []zap.Field{
		zap.String("body", st.Name),
		zap.Float32s("centroid", []float32{st.Centroid.X, st.Centroid.Y, st.Centroid.Z}),
		zap.Float32("lowest", st.Lowest),
		zap.Float32("volume", st.Volume),
	}
}
