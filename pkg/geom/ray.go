package geom

import "github.com/Faultbox/midgard-softbody/pkg/math"

// rayEpsilon rejects near-parallel rays and hits at the origin.
const rayEpsilon = 1e-5

// Ray is a half-line with a (usually normalized) direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point Origin + t*Direction.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// RayTriangle intersects a ray with triangle (t0, t1, t2) using the
// Moller-Trumbore test. It returns the ray parameter of the hit; ok is false
// for parallel rays, misses and hits at or behind the origin.
func RayTriangle(r Ray, t0, t1, t2 math.Vec3) (t float32, ok bool) {
	edge1 := t1.Sub(t0)
	edge2 := t2.Sub(t0)
	h := r.Direction.Cross(edge2)

	a := edge1.Dot(h)
	if a > -rayEpsilon && a < rayEpsilon {
		return 0, false
	}
	f := 1 / a

	s := r.Origin.Sub(t0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = f * edge2.Dot(q)
	if t > rayEpsilon {
		return t, true
	}
	return 0, false
}
