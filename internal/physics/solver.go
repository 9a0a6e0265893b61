package physics

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-softbody/internal/logger"
	"github.com/Faultbox/midgard-softbody/internal/mesh"
)

var (
	// ErrInvalidIterations is returned for a substep count below one.
	ErrInvalidIterations = errors.New("invalid iteration count")
	// ErrForeignBody is returned when a body's particles live in another
	// solver's arena.
	ErrForeignBody = errors.New("body belongs to another arena")
	// ErrDuplicateBody is returned when a body is added twice.
	ErrDuplicateBody = errors.New("body already added")
)

const (
	// DefaultIterations is the number of substeps per Solve.
	DefaultIterations = 4
	// velocityDamping is applied to every velocity once per substep.
	velocityDamping = 0.999
	// tangentialFriction is the share of tangential velocity removed per
	// substep from particles in contact.
	tangentialFriction = 0.05

	softLevels  = 3
	rigidLevels = 1
)

// Hook runs user code around a Solve. Either function may be nil.
type Hook struct {
	Before func(*Solver)
	After  func(*Solver)
}

// BeforeSolve builds a Hook that only runs before the solve.
func BeforeSolve(fn func(*Solver)) Hook { return Hook{Before: fn} }

// AfterSolve builds a Hook that only runs after the solve.
func AfterSolve(fn func(*Solver)) Hook { return Hook{After: fn} }

// Option configures a Solver.
type Option func(*Solver) error

// WithIterations sets the substep count.
func WithIterations(n int) Option {
	return func(s *Solver) error {
		return s.SetIterations(n)
	}
}

// WithLogger replaces the solver's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) error {
		s.log = l
		return nil
	}
}

// OnBeforeSolve registers fn to run at the start of every Solve.
func OnBeforeSolve(fn func(*Solver)) Option {
	return func(s *Solver) error {
		s.hooks = append(s.hooks, BeforeSolve(fn))
		return nil
	}
}

// OnAfterSolve registers fn to run at the end of every Solve.
func OnAfterSolve(fn func(*Solver)) Option {
	return func(s *Solver) error {
		s.hooks = append(s.hooks, AfterSolve(fn))
		return nil
	}
}

// Solver advances a set of bodies under a set of fields. It is not safe for
// concurrent use.
type Solver struct {
	arena      *Arena
	bodies     []*Body
	fields     []Field
	iterations int
	hooks      []Hook
	nextID     uint64

	log *zap.Logger
}

// NewSolver creates a solver with an empty arena.
func NewSolver(opts ...Option) (*Solver, error) {
	s := &Solver{
		arena:      NewArena(),
		iterations: DefaultIterations,
		nextID:     1,
		log:        logger.Named("physics"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Arena returns the particle storage bodies must be created in.
func (s *Solver) Arena() *Arena { return s.arena }

// AddBody registers a body, assigns it an ID and builds its particle
// hierarchy.
func (s *Solver) AddBody(b *Body) error {
	if b.arena != s.arena {
		return fmt.Errorf("add body %q: %w", b.Name(), ErrForeignBody)
	}
	for _, other := range s.bodies {
		if other == b {
			return fmt.Errorf("add body %q: %w", b.Name(), ErrDuplicateBody)
		}
	}

	levels := rigidLevels
	if b.mass > 0 {
		levels = softLevels
	}
	if err := b.BuildParticleHierarchy(levels); err != nil {
		return fmt.Errorf("add body %q: %w", b.Name(), err)
	}

	b.id = s.nextID
	s.nextID++
	s.bodies = append(s.bodies, b)

	coarse := b.levels[len(b.levels)-1]
	s.log.Info("body added",
		zap.Uint64("id", b.id),
		zap.String("name", b.Name()),
		zap.Int("particles", b.ParticleCount()),
		zap.Int("constraints", b.ConstraintCount()),
		zap.Int("levels", len(b.levels)),
		zap.Int("coarse_particles", len(coarse.Particles)),
		zap.Bool("closed", b.Closed()))
	return nil
}

// RemoveBody unregisters b. Its particles stay allocated in the arena.
func (s *Solver) RemoveBody(b *Body) bool {
	for i, other := range s.bodies {
		if other == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			s.log.Debug("body removed", zap.Uint64("id", b.id), zap.String("name", b.Name()))
			return true
		}
	}
	return false
}

// Bodies returns the registered bodies in registration order.
func (s *Solver) Bodies() []*Body { return s.bodies }

// BodyByMesh returns the body driving m.
func (s *Solver) BodyByMesh(m *mesh.Mesh) (*Body, bool) {
	for _, b := range s.bodies {
		if b.mesh == m {
			return b, true
		}
	}
	return nil, false
}

// AddField registers a field.
func (s *Solver) AddField(f Field) {
	s.fields = append(s.fields, f)
}

// RemoveField unregisters f.
func (s *Solver) RemoveField(f Field) bool {
	for i, other := range s.fields {
		if other == f {
			s.fields = append(s.fields[:i], s.fields[i+1:]...)
			return true
		}
	}
	return false
}

// Fields returns the registered fields.
func (s *Solver) Fields() []Field { return s.fields }

// SetIterations changes the substep count.
func (s *Solver) SetIterations(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, n)
	}
	s.iterations = n
	return nil
}

// Iterations returns the substep count.
func (s *Solver) Iterations() int { return s.iterations }

// ParticleCount returns the number of particles of the registered bodies.
func (s *Solver) ParticleCount() int {
	n := 0
	for _, b := range s.bodies {
		n += b.ParticleCount()
	}
	return n
}

// CollisionCount returns the number of contacts found by the last substep.
func (s *Solver) CollisionCount() int {
	n := 0
	for _, b := range s.bodies {
		n += len(b.constraints[KindCollision])
	}
	return n
}

// Reset returns every body to its initial state.
func (s *Solver) Reset() {
	for _, b := range s.bodies {
		b.constraints[KindCollision] = nil
		b.Reset()
	}
}

// Solve advances the simulation by dt seconds. hooks run around the step
// after the solver-level hooks.
func (s *Solver) Solve(dt float32, hooks ...Hook) {
	if dt <= 0 {
		return
	}
	all := append(append([]Hook(nil), s.hooks...), hooks...)

	s.resetLambdas()
	for _, hook := range all {
		if hook.Before != nil {
			hook.Before(s)
		}
	}

	s.applyForces(dt)

	h := dt / float32(s.iterations)
	for range s.iterations {
		s.integrate(h)
		s.dampTangential()
		s.predict(h)
		s.clearCollisions()
		s.detectCollisions()
		s.project(h)
		s.commit(h)
	}

	s.finalize()
	for _, hook := range all {
		if hook.After != nil {
			hook.After(s)
		}
	}
}

func (s *Solver) resetLambdas() {
	for _, b := range s.bodies {
		for _, cs := range b.constraints {
			for _, c := range cs {
				c.ResetLambda()
			}
		}
		for _, cs := range b.distanceLevels {
			for _, c := range cs {
				c.ResetLambda()
			}
		}
	}
}

func (s *Solver) applyForces(dt float32) {
	for _, f := range s.fields {
		if adv, ok := f.(Advancer); ok {
			adv.Advance(dt)
		}
	}

	for _, f := range s.fields {
		acc := f.ComputeAcceleration()
		for _, b := range s.bodies {
			if !b.Enabled() {
				continue
			}
			for _, ph := range b.particles {
				p := s.arena.Get(ph)
				p.ExternalForces = append(p.ExternalForces, acc.Scale(p.Mass))
			}
		}
	}
}

func (s *Solver) integrate(h float32) {
	for _, b := range s.bodies {
		if !b.Enabled() {
			continue
		}
		for _, ph := range b.particles {
			p := s.arena.Get(ph)
			p.Velocity = p.Velocity.Add(p.ResultingExternalForce().Scale(h * p.InverseMass))
			p.Velocity = p.Velocity.Scale(velocityDamping)
		}
	}
}

func (s *Solver) predict(h float32) {
	for _, b := range s.bodies {
		if !b.Enabled() {
			continue
		}
		for _, ph := range b.particles {
			p := s.arena.Get(ph)
			p.PredictedPosition = p.Position.Add(p.Velocity.Scale(h))
		}
	}
}

func (s *Solver) project(h float32) {
	for _, b := range s.bodies {
		if !b.Enabled() {
			continue
		}

		for l := len(b.distanceLevels) - 1; l > 0; l-- {
			for _, c := range b.distanceLevels[l] {
				c.Solve(s.arena, h)
			}
		}
		for kind := KindDistance; kind < kindCount; kind++ {
			for _, c := range b.constraints[kind] {
				c.Solve(s.arena, h)
			}
		}
	}
}

func (s *Solver) commit(h float32) {
	for _, b := range s.bodies {
		if !b.Enabled() {
			continue
		}
		for _, ph := range b.particles {
			p := s.arena.Get(ph)
			p.Velocity = p.PredictedPosition.Sub(p.Position).Scale(1 / h)
			p.Position = p.PredictedPosition
		}
	}
}

func (s *Solver) finalize() {
	for _, b := range s.bodies {
		if !b.Enabled() {
			continue
		}
		for _, ph := range b.particles {
			p := s.arena.Get(ph)
			p.ExternalForces = p.ExternalForces[:0]
		}
		b.UpdateMesh()
	}
}
