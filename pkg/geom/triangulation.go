package geom

import "github.com/Faultbox/midgard-softbody/pkg/math"

// MergeEpsilon is the distance under which two vertices are treated as one.
const MergeEpsilon = 1e-3

// Edge is an undirected mesh edge with A < B.
type Edge struct {
	A, B int32
}

// MakeEdge orders the endpoints so the same edge always hashes equally.
func MakeEdge(a, b int32) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Vertex reads vertex i from a flat xyz buffer.
func Vertex(positions []float32, i int32) math.Vec3 {
	return math.Vec3{X: positions[3*i], Y: positions[3*i+1], Z: positions[3*i+2]}
}

// Subdivide splits every triangle into four by inserting edge midpoints.
// Midpoints are appended per triangle, so shared edges produce duplicate
// vertices; run MergeVertices afterwards to weld them.
func Subdivide(positions []float32, indices []int32) ([]float32, []int32) {
	out := make([]int32, 0, len(indices)*4)
	for i := 0; i+2 < len(indices); i += 3 {
		i1, i2, i3 := indices[i], indices[i+1], indices[i+2]
		v1 := Vertex(positions, i1)
		v2 := Vertex(positions, i2)
		v3 := Vertex(positions, i3)

		base := int32(len(positions) / 3)
		i12, i23, i31 := base, base+1, base+2
		for _, m := range []math.Vec3{
			v1.Add(v2).Scale(0.5),
			v2.Add(v3).Scale(0.5),
			v3.Add(v1).Scale(0.5),
		} {
			positions = append(positions, m.X, m.Y, m.Z)
		}

		out = append(out,
			i1, i12, i31,
			i2, i23, i12,
			i3, i31, i23,
			i12, i23, i31,
		)
	}
	return positions, out
}

// MergeVertices welds vertices closer than MergeEpsilon into the first
// occurrence and compacts the buffer. Index order and winding are kept.
func MergeVertices(positions []float32, indices []int32) ([]float32, []int32) {
	n := len(positions) / 3
	remap := make([]int32, n)
	merged := make([]float32, 0, len(positions))

	for i := 0; i < n; i++ {
		v := Vertex(positions, int32(i))
		remap[i] = -1
		for j := int32(0); j < int32(len(merged)/3); j++ {
			if v.Distance(Vertex(merged, j)) < MergeEpsilon {
				remap[i] = j
				break
			}
		}
		if remap[i] < 0 {
			remap[i] = int32(len(merged) / 3)
			merged = append(merged, v.X, v.Y, v.Z)
		}
	}

	out := make([]int32, len(indices))
	for i, idx := range indices {
		out[i] = remap[idx]
	}
	return merged, out
}

// EdgeCounts returns how many triangles reference each edge.
func EdgeCounts(indices []int32) map[Edge]int {
	counts := make(map[Edge]int, len(indices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		counts[MakeEdge(a, b)]++
		counts[MakeEdge(b, c)]++
		counts[MakeEdge(a, c)]++
	}
	return counts
}

// IsTriangulationClosed reports whether every edge is shared by exactly two
// triangles. An empty triangulation is not closed.
func IsTriangulationClosed(indices []int32) bool {
	counts := EdgeCounts(indices)
	if len(counts) == 0 {
		return false
	}
	for _, c := range counts {
		if c != 2 {
			return false
		}
	}
	return true
}

// IsMergedTriangulationClosed welds coincident vertices before testing
// closure, so UV seams do not open the surface. The inputs are not modified.
func IsMergedTriangulationClosed(positions []float32, indices []int32) bool {
	_, merged := MergeVertices(positions, indices)
	return IsTriangulationClosed(merged)
}
