// Package physics implements an XPBD (extended position based dynamics)
// solver for soft and rigid bodies built from triangle meshes.
package physics

import "github.com/Faultbox/midgard-softbody/pkg/math"

// Particle is a point mass simulated by the solver.
type Particle struct {
	Mass        float32
	InverseMass float32

	InitialPosition   math.Vec3
	Position          math.Vec3
	PredictedPosition math.Vec3
	Velocity          math.Vec3

	// ExternalForces is filled by the solver at the start of a frame and
	// cleared when the frame ends.
	ExternalForces []math.Vec3

	// PositionIndex is the offset of this particle's x component in the
	// owning mesh's position buffer.
	PositionIndex int
}

// NewParticle creates a particle at rest. A zero mass makes it immovable.
func NewParticle(mass float32, position math.Vec3, positionIndex int) Particle {
	var inv float32
	if mass != 0 {
		inv = 1 / mass
	}
	return Particle{
		Mass:              mass,
		InverseMass:       inv,
		InitialPosition:   position,
		Position:          position,
		PredictedPosition: position,
		PositionIndex:     positionIndex,
	}
}

// ResultingExternalForce sums the queued forces.
func (p *Particle) ResultingExternalForce() math.Vec3 {
	var f math.Vec3
	for _, ef := range p.ExternalForces {
		f = f.Add(ef)
	}
	return f
}

// Reset restores the initial position and stops the particle.
func (p *Particle) Reset() {
	p.Position = p.InitialPosition
	p.PredictedPosition = p.InitialPosition
	p.Velocity = math.Vec3{}
}

// Handle identifies a particle inside an Arena.
type Handle uint32

// Arena stores every particle of a solver contiguously. Handles stay valid
// for the arena's lifetime; pointers returned by Get do not survive the next
// Alloc.
type Arena struct {
	particles []Particle
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc appends particles and returns the handle of the first one. The new
// handles are contiguous.
func (a *Arena) Alloc(ps ...Particle) Handle {
	first := Handle(len(a.particles))
	a.particles = append(a.particles, ps...)
	return first
}

// Get returns the particle behind h.
func (a *Arena) Get(h Handle) *Particle {
	return &a.particles[h]
}

// Len returns the number of particles ever allocated.
func (a *Arena) Len() int {
	return len(a.particles)
}
