package physics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCollisionLevel is returned when a collision level is outside
	// the body's hierarchy.
	ErrInvalidCollisionLevel = errors.New("invalid collision level")
	// ErrInvalidLevelCount is returned when a hierarchy with no level is
	// requested.
	ErrInvalidLevelCount = errors.New("hierarchy needs at least one level")
)

// Level is one resolution of a body's particle hierarchy. All indices are
// body-local particle indices.
type Level struct {
	// Triangles is the level's triangulation, three indices per triangle.
	Triangles []int32
	// Particles lists the particles that survive at this level.
	Particles []int32
	// Closest maps each particle to itself, to its nearest surviving
	// neighbour, or to -1.
	Closest []int32
}

// Levels returns the particle hierarchy, finest first.
func (b *Body) Levels() []Level { return b.levels }

// DistanceLevels returns the distance constraints of every hierarchy level.
// Level 0 is the body's own distance set.
func (b *Body) DistanceLevels() [][]*Constraint { return b.distanceLevels }

// BuildParticleHierarchy coarsens the mesh into count levels and derives a
// distance constraint set per level. Particles missing from a level are
// replaced by their closest survivor; constraints that cannot be retargeted,
// or that collapse onto one particle, are dropped.
func (b *Body) BuildParticleHierarchy(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidLevelCount, count)
	}

	n := len(b.particles)
	base := Level{
		Triangles: b.mesh.Indices,
		Particles: make([]int32, n),
		Closest:   make([]int32, n),
	}
	for i := range base.Particles {
		base.Particles[i] = int32(i)
		base.Closest[i] = int32(i)
	}

	levels := []Level{base}
	for l := 1; l < count; l++ {
		c := b.mesh.Subset(levels[l-1].Triangles)
		levels = append(levels, Level{
			Triangles: c.Triangles,
			Particles: c.Coarse,
			Closest:   c.Closest,
		})
	}

	distance := make([][]*Constraint, count)
	distance[0] = b.constraints[KindDistance]
	for l := 1; l < count; l++ {
		distance[l] = b.retarget(distance[l-1], levels[l])
	}

	b.levels = levels
	b.distanceLevels = distance
	if b.collisionLevel >= count {
		b.collisionLevel = 0
	}
	return nil
}

func (b *Body) retarget(prev []*Constraint, level Level) []*Constraint {
	survives := make([]bool, len(b.particles))
	for _, i := range level.Particles {
		survives[i] = true
	}

	var out []*Constraint
	for _, c := range prev {
		cp := c.Clone()
		keep := true
		for _, h := range append([]Handle(nil), cp.particles...) {
			i := b.localIndex(h)
			if survives[i] {
				continue
			}
			sub := level.Closest[i]
			if sub < 0 {
				keep = false
				break
			}
			cp.ReplaceParticle(b.arena, h, b.Handle(sub))
		}
		if keep && cp.particles[0] != cp.particles[1] {
			out = append(out, cp)
		}
	}
	return out
}

// SetCollisionLevel selects the hierarchy level used for collision
// detection.
func (b *Body) SetCollisionLevel(level int) error {
	if level < 0 || level >= len(b.distanceLevels) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidCollisionLevel, level, len(b.distanceLevels))
	}
	b.collisionLevel = level
	return nil
}

// CollisionLevel returns the hierarchy level used for collision detection.
func (b *Body) CollisionLevel() int { return b.collisionLevel }

// collisionParticles returns the particles of the collision level.
func (b *Body) collisionParticles() []int32 {
	if len(b.levels) == 0 {
		return nil
	}
	return b.levels[b.collisionLevel].Particles
}

// collisionTriangles returns the triangulation of the collision level.
func (b *Body) collisionTriangles() []int32 {
	if len(b.levels) == 0 {
		return b.mesh.Indices
	}
	return b.levels[b.collisionLevel].Triangles
}
