// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/midgard-softbody/pkg/geom"

// BoxLines returns the 12 edges of box as line-list vertices: 24 points,
// xyz per point. An empty box yields nil.
func BoxLines(box geom.AABB) []float32 {
	if box.IsEmpty() {
		return nil
	}
	lo, hi := box.Min, box.Max
	return []float32{
		// bottom
		lo.X, lo.Y, lo.Z, hi.X, lo.Y, lo.Z,
		hi.X, lo.Y, lo.Z, hi.X, lo.Y, hi.Z,
		hi.X, lo.Y, hi.Z, lo.X, lo.Y, hi.Z,
		lo.X, lo.Y, hi.Z, lo.X, lo.Y, lo.Z,
		// top
		lo.X, hi.Y, lo.Z, hi.X, hi.Y, lo.Z,
		hi.X, hi.Y, lo.Z, hi.X, hi.Y, hi.Z,
		hi.X, hi.Y, hi.Z, lo.X, hi.Y, hi.Z,
		lo.X, hi.Y, hi.Z, lo.X, hi.Y, lo.Z,
		// verticals
		lo.X, lo.Y, lo.Z, lo.X, hi.Y, lo.Z,
		hi.X, lo.Y, lo.Z, hi.X, hi.Y, lo.Z,
		hi.X, lo.Y, hi.Z, hi.X, hi.Y, hi.Z,
		lo.X, lo.Y, hi.Z, lo.X, hi.Y, hi.Z,
	}
}

// BoxesLines concatenates the edges of every non-empty box.
func BoxesLines(boxes []geom.AABB) []float32 {
	out := make([]float32, 0, len(boxes)*72)
	for _, b := range boxes {
		out = append(out, BoxLines(b)...)
	}
	return out
}
