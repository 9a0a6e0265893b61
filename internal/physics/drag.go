package physics

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// ErrInvalidFace is returned when a triangle index is outside the mesh.
var ErrInvalidFace = errors.New("invalid face")

// Drag pulls a grabbed body along a pointer ray, keeping the grab point at a
// fixed distance from the ray origin.
type Drag struct {
	body     *Body
	face     int32
	distance float32
}

// StartDrag grabs triangle face of b at distance along future rays.
func StartDrag(b *Body, face int32, distance float32) (*Drag, error) {
	if face < 0 || int(face) >= b.mesh.TriangleCount() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFace, face)
	}
	return &Drag{body: b, face: face, distance: distance}, nil
}

// Body returns the grabbed body.
func (d *Drag) Body() *Body { return d.body }

// Update moves the body towards the point of ray at the grab distance.
func (d *Drag) Update(ray geom.Ray) {
	d.body.dragFace(d.face, ray.At(d.distance))
}

// DragTowards translates the particles of b so the barycenter of triangle
// face moves to target. Each particle moves by the full translation scaled
// by 1/(1+r), r being its distance to the barycenter. Immovable particles
// are left in place.
func DragTowards(b *Body, face int32, target math.Vec3) error {
	if face < 0 || int(face) >= b.mesh.TriangleCount() {
		return fmt.Errorf("%w: %d", ErrInvalidFace, face)
	}
	b.dragFace(face, target)
	return nil
}

// dragFace is DragTowards for a face already known to be valid.
func (b *Body) dragFace(face int32, target math.Vec3) {
	idx := b.mesh.Indices[3*face : 3*face+3]
	bary := b.Particle(idx[0]).Position.
		Add(b.Particle(idx[1]).Position).
		Add(b.Particle(idx[2]).Position).
		Scale(1.0 / 3)
	translation := target.Sub(bary)

	for _, h := range b.particles {
		p := b.arena.Get(h)
		if p.InverseMass == 0 {
			continue
		}
		w := 1 / (1 + p.Position.Distance(bary))
		p.Position = p.Position.Add(translation.Scale(w))
		p.PredictedPosition = p.Position
	}
	b.UpdateMesh()
}
