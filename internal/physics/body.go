package physics

import (
	"github.com/Faultbox/midgard-softbody/internal/mesh"
	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// Body is a set of particles driven by a mesh, plus the constraints
// between them.
type Body struct {
	id    uint64
	mesh  *mesh.Mesh
	mass  float32
	arena *Arena

	first     Handle
	particles []Handle

	constraints [kindCount][]*Constraint

	levels         []Level
	distanceLevels [][]*Constraint
	collisionLevel int
}

// newBody bakes the mesh's rotation and scale into its vertices and
// creates one particle per vertex. The body mass is split evenly.
func newBody(a *Arena, m *mesh.Mesh, mass float32) *Body {
	m.BakeScale()
	m.BakeRotation()

	n := m.VertexCount()
	var perParticle float32
	if n > 0 {
		perParticle = mass / float32(n)
	}

	origin := m.Transform.Position
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = NewParticle(perParticle, m.Vertex(i).Add(origin), 3*i)
	}

	b := &Body{
		mesh:  m,
		mass:  mass,
		arena: a,
		first: a.Alloc(ps...),
	}
	b.particles = make([]Handle, n)
	for i := range b.particles {
		b.particles[i] = b.first + Handle(i)
	}
	return b
}

// ID returns the identifier assigned by the solver, 0 before AddBody.
func (b *Body) ID() uint64 { return b.id }

// Mesh returns the driven mesh.
func (b *Body) Mesh() *mesh.Mesh { return b.mesh }

// Name returns the mesh name.
func (b *Body) Name() string { return b.mesh.Name }

// Mass returns the total mass the body was created with.
func (b *Body) Mass() float32 { return b.mass }

// Enabled reports whether the solver simulates the body.
func (b *Body) Enabled() bool { return b.mesh.Enabled }

// Arena returns the arena holding the body's particles.
func (b *Body) Arena() *Arena { return b.arena }

// Particles returns the body's particle handles in vertex order.
func (b *Body) Particles() []Handle { return b.particles }

// ParticleCount returns the number of particles.
func (b *Body) ParticleCount() int { return len(b.particles) }

// Handle returns the handle of body-local particle i.
func (b *Body) Handle(i int32) Handle { return b.first + Handle(i) }

// Particle returns body-local particle i.
func (b *Body) Particle(i int32) *Particle { return b.arena.Get(b.Handle(i)) }

func (b *Body) localIndex(h Handle) int32 { return int32(h - b.first) }

// AddConstraint registers c with the body under its kind.
func (b *Body) AddConstraint(c *Constraint) {
	b.constraints[c.kind] = append(b.constraints[c.kind], c)
}

// Constraints returns the constraints of one kind. For KindDistance these
// are the full-resolution constraints; see DistanceLevels.
func (b *Body) Constraints(kind Kind) []*Constraint {
	return b.constraints[kind]
}

// ConstraintCount returns the number of constraints of all kinds,
// excluding the coarse distance levels.
func (b *Body) ConstraintCount() int {
	n := 0
	for _, cs := range b.constraints {
		n += len(cs)
	}
	return n
}

// PinParticle adds a Fixed constraint on body-local particle i.
func (b *Body) PinParticle(i int32) *Constraint {
	c := NewFixed(b.arena, b.Handle(i))
	b.AddConstraint(c)
	return c
}

// SetPressure changes the pressure of every GlobalVolume constraint.
func (b *Body) SetPressure(pressure float32) {
	for _, c := range b.constraints[KindGlobalVolume] {
		c.SetPressure(pressure)
	}
}

// Pressure returns the pressure of the first GlobalVolume constraint. ok
// is false for bodies without one.
func (b *Body) Pressure() (pressure float32, ok bool) {
	cs := b.constraints[KindGlobalVolume]
	if len(cs) == 0 {
		return 0, false
	}
	return cs[0].Pressure(), true
}

// Reset moves every particle back to its initial state and refreshes the
// mesh.
func (b *Body) Reset() {
	for _, h := range b.particles {
		b.arena.Get(h).Reset()
	}
	b.UpdateMesh()
}

// UpdateMesh writes the particle positions back into the mesh in local
// space, recomputes normals and flags the mesh for upload.
func (b *Body) UpdateMesh() {
	origin := b.mesh.Transform.Position
	for _, h := range b.particles {
		p := b.arena.Get(h)
		local := p.Position.Sub(origin)
		b.mesh.Positions[p.PositionIndex] = local.X
		b.mesh.Positions[p.PositionIndex+1] = local.Y
		b.mesh.Positions[p.PositionIndex+2] = local.Z
	}
	b.mesh.ComputeNormals()
	b.mesh.MarkDirty()
}

// AABB returns the padded world bounds of the mesh.
func (b *Body) AABB() geom.AABB {
	return b.mesh.AABB()
}

// Centroid returns the mean particle position.
func (b *Body) Centroid() math.Vec3 {
	var sum math.Vec3
	for _, h := range b.particles {
		sum = sum.Add(b.arena.Get(h).Position)
	}
	if len(b.particles) == 0 {
		return sum
	}
	return sum.Scale(1 / float32(len(b.particles)))
}

// LowestPoint returns the minimum particle height.
func (b *Body) LowestPoint() float32 {
	lowest := float32(0)
	for i, h := range b.particles {
		y := b.arena.Get(h).Position.Y
		if i == 0 || y < lowest {
			lowest = y
		}
	}
	return lowest
}

// Volume returns the signed volume enclosed by the mesh triangulation at
// the current particle positions. It is only meaningful for closed meshes.
func (b *Body) Volume() float32 {
	var v float32
	idx := b.mesh.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		t0 := b.Particle(idx[i]).Position
		t1 := b.Particle(idx[i+1]).Position
		t2 := b.Particle(idx[i+2]).Position
		v += t0.Dot(t1.Cross(t2)) / 6
	}
	return v
}

// Closed reports whether the body carries a GlobalVolume constraint.
func (b *Body) Closed() bool {
	return len(b.constraints[KindGlobalVolume]) > 0
}
