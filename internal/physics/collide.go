package physics

import (
	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

const (
	// rayBackoff moves the contact ray's origin behind the particle so a
	// slightly penetrating particle still hits the surface.
	rayBackoff = 0.1
	// contactReach is the largest ray parameter that counts as a contact.
	contactReach = 0.2
)

// detectCollisions tests every unordered pair of enabled bodies.
func (s *Solver) detectCollisions() {
	for i, a := range s.bodies {
		if !a.Enabled() {
			continue
		}
		for _, b := range s.bodies[i+1:] {
			if !b.Enabled() {
				continue
			}
			s.collidePair(a, b)
		}
	}
}

func (s *Solver) collidePair(a, b *Body) {
	overlap, ok := geom.Intersection(a.AABB(), b.AABB())
	if !ok {
		return
	}

	aParticles := a.particlesIn(overlap)
	bParticles := b.particlesIn(overlap)
	aTriangles := a.trianglesTouching(overlap)
	bTriangles := b.trianglesTouching(overlap)

	collideSurface(b, bParticles, a, aTriangles)
	collideSurface(a, aParticles, b, bTriangles)
}

// collideSurface casts a ray along the vertex normal of each candidate
// particle of pb and adds a Collision constraint to pb for every triangle
// of tb it reaches.
func collideSurface(pb *Body, particles []int32, tb *Body, triangles []int32) {
	if len(particles) == 0 || len(triangles) == 0 {
		return
	}
	world := pb.mesh.WorldMatrix()

	for _, i := range particles {
		p := pb.Particle(i)
		if p.InverseMass == 0 {
			continue
		}
		n := world.TransformDirection(pb.mesh.Normal(int(i))).Normalize()
		if n == (math.Vec3{}) {
			continue
		}
		ray := geom.Ray{
			Origin:    p.PredictedPosition.Sub(n.Scale(rayBackoff)),
			Direction: n,
		}

		for k := 0; k+2 < len(triangles); k += 3 {
			h1, h2, h3 := tb.Handle(triangles[k]), tb.Handle(triangles[k+1]), tb.Handle(triangles[k+2])
			t, hit := geom.RayTriangle(ray,
				tb.arena.Get(h1).PredictedPosition,
				tb.arena.Get(h2).PredictedPosition,
				tb.arena.Get(h3).PredictedPosition)
			if hit && t <= contactReach {
				pb.AddConstraint(NewCollision(pb.Handle(i), h1, h2, h3))
			}
		}
	}
}

// particlesIn returns the collision-level particles whose predicted
// position lies inside box.
func (b *Body) particlesIn(box geom.AABB) []int32 {
	var out []int32
	for _, i := range b.collisionParticles() {
		if box.Contains(b.Particle(i).PredictedPosition) {
			out = append(out, i)
		}
	}
	return out
}

// trianglesTouching returns the collision-level triangles whose predicted
// bounds intersect box, three indices per triangle.
func (b *Body) trianglesTouching(box geom.AABB) []int32 {
	var out []int32
	tris := b.collisionTriangles()
	for k := 0; k+2 < len(tris); k += 3 {
		t0 := b.Particle(tris[k]).PredictedPosition
		t1 := b.Particle(tris[k+1]).PredictedPosition
		t2 := b.Particle(tris[k+2]).PredictedPosition
		if box.IntersectsTriangle(t0, t1, t2) {
			out = append(out, tris[k], tris[k+1], tris[k+2])
		}
	}
	return out
}

// clearCollisions drops the contacts of every body, disabled ones included,
// so a body enabled later starts without stale contacts.
func (s *Solver) clearCollisions() {
	for _, b := range s.bodies {
		cs := b.constraints[KindCollision]
		clear(cs)
		b.constraints[KindCollision] = cs[:0]
	}
}

// dampTangential removes part of the sliding velocity of every particle
// touching a contact from the previous substep.
func (s *Solver) dampTangential() {
	for _, b := range s.bodies {
		if !b.Enabled() {
			continue
		}
		for _, c := range b.constraints[KindCollision] {
			n, ok := c.contactNormal(s.arena)
			if !ok {
				continue
			}
			for _, h := range c.particles {
				p := s.arena.Get(h)
				if p.InverseMass == 0 {
					continue
				}
				tangential := p.Velocity.Sub(n.Scale(p.Velocity.Dot(n)))
				p.Velocity = p.Velocity.Sub(tangential.Scale(tangentialFriction))
			}
		}
	}
}

// contactNormal returns the unit normal of a Collision constraint's
// triangle at the committed positions.
func (c *Constraint) contactNormal(a *Arena) (math.Vec3, bool) {
	p1 := c.at(a, 1, atPosition)
	p2 := c.at(a, 2, atPosition)
	p3 := c.at(a, 3, atPosition)
	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if n.Length() < degenerateArea {
		return math.Vec3{}, false
	}
	return n.Normalize(), true
}
