// Package geom provides bounding boxes, rays and triangulation utilities
// shared by the physics solver and the viewer.
package geom

import (
	gomath "math"

	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Empty returns an inverted box that any Expand call will replace.
func Empty() AABB {
	big := float32(gomath.MaxFloat32)
	return AABB{
		Min: math.Splat(big),
		Max: math.Splat(-big),
	}
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// FromPositions builds the box around a flat xyz buffer, each point first
// transformed by world.
func FromPositions(positions []float32, world math.Mat4) AABB {
	box := Empty()
	for i := 0; i+2 < len(positions); i += 3 {
		p := world.TransformVec3(math.V3(positions[i], positions[i+1], positions[i+2]))
		box = box.ExpandPoint(p)
	}
	return box
}

// IsEmpty reports whether the box contains no point.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Intersects reports whether two boxes overlap. Touching faces count.
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// IntersectsTriangle tests the box against the bounding box of a triangle.
func (b AABB) IntersectsTriangle(t0, t1, t2 math.Vec3) bool {
	tri := Empty().ExpandPoint(t0).ExpandPoint(t1).ExpandPoint(t2)
	return b.Intersects(tri)
}

// IntersectsRay reports whether the infinite line through the ray crosses
// the box (slab test).
func (b AABB) IntersectsRay(r Ray) bool {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := b.Min.Array()
	hi := b.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

// Contains reports whether point lies inside the box, boundary included.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ExpandPoint grows the box to include p.
func (b AABB) ExpandPoint(p math.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// ExpandBox grows the box to include other.
func (b AABB) ExpandBox(other AABB) AABB {
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// ExpandBy pads every face by margin.
func (b AABB) ExpandBy(margin float32) AABB {
	m := math.Splat(margin)
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Volume returns the enclosed volume, zero for an empty box.
func (b AABB) Volume() float32 {
	if b.IsEmpty() {
		return 0
	}
	s := b.Size()
	return s.X * s.Y * s.Z
}

// Intersection returns the overlap of a and b. ok is false when they are
// disjoint.
func Intersection(a, b AABB) (AABB, bool) {
	if !a.Intersects(b) {
		return AABB{}, false
	}
	return AABB{Min: a.Min.Max(b.Min), Max: a.Max.Min(b.Max)}, true
}
