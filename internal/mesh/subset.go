package mesh

import "github.com/Faultbox/midgard-softbody/pkg/geom"

// coarseNeighbourThreshold is the k of the coarsening heuristic.
const coarseNeighbourThreshold = 2

// noCoarseNeighbour is the map value of vertices with no coarse substitute.
const noCoarseNeighbour = -1

// Coarsening is one level of the particle hierarchy.
type Coarsening struct {
	// Coarse lists the vertices kept at this level, ascending.
	Coarse []int32
	// Closest maps every vertex to itself when coarse, to its nearest coarse
	// neighbour otherwise, or to -1 when it has none.
	Closest []int32
	// Triangles is the input triangulation remapped through Closest, without
	// triangles that touch -1 or collapse onto a repeated vertex.
	Triangles []int32
}

// Subset coarsens the given triangulation of the mesh.
func (m *Mesh) Subset(triangles []int32) Coarsening {
	return Subset(m.Positions, triangles)
}

// Subset coarsens a triangulation over a flat position buffer. A vertex
// becomes fine when it has at least k coarse neighbours and every fine
// neighbour keeps more than k; fine vertices then collapse onto their
// nearest coarse neighbour.
func Subset(positions []float32, triangles []int32) Coarsening {
	n := len(positions) / 3
	k := coarseNeighbourThreshold

	coarse := make([]bool, n)
	for _, idx := range triangles {
		coarse[idx] = true
	}

	neighbours := make([][]int32, n)
	for i := 0; i+2 < len(triangles); i += 3 {
		a, b, c := triangles[i], triangles[i+1], triangles[i+2]
		neighbours[a] = append(neighbours[a], b, c)
		neighbours[b] = append(neighbours[b], a, c)
		neighbours[c] = append(neighbours[c], a, b)
	}

	coarseCount := make([]int, n)
	for i := range neighbours {
		for _, nb := range neighbours[i] {
			if coarse[nb] {
				coarseCount[i]++
			}
		}
	}

	for i := 0; i < n; i++ {
		if coarseCount[i] < k {
			continue
		}
		ok := true
		for _, nb := range neighbours[i] {
			if coarse[nb] {
				continue
			}
			if coarseCount[nb] <= k {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		coarse[i] = false
		for _, nb := range neighbours[i] {
			coarseCount[nb]--
		}
	}

	res := Coarsening{Closest: make([]int32, n)}
	for i := 0; i < n; i++ {
		if coarse[i] {
			res.Coarse = append(res.Coarse, int32(i))
			res.Closest[i] = int32(i)
			continue
		}

		p := geom.Vertex(positions, int32(i))
		best := float32(1e3)
		closest := int32(noCoarseNeighbour)
		for _, nb := range neighbours[i] {
			if !coarse[nb] {
				continue
			}
			if d := p.Distance(geom.Vertex(positions, nb)); d < best {
				best = d
				closest = nb
			}
		}
		res.Closest[i] = closest
	}

	for i := 0; i+2 < len(triangles); i += 3 {
		a := res.Closest[triangles[i]]
		b := res.Closest[triangles[i+1]]
		c := res.Closest[triangles[i+2]]
		if a == noCoarseNeighbour || b == noCoarseNeighbour || c == noCoarseNeighbour {
			continue
		}
		if a == b || b == c || a == c {
			continue
		}
		res.Triangles = append(res.Triangles, a, b, c)
	}
	return res
}
