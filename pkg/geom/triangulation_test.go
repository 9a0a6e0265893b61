package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tetrahedron returns a closed four-triangle surface.
func tetrahedron() ([]float32, []int32) {
	positions := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	indices := []int32{
		0, 2, 1,
		0, 1, 3,
		0, 3, 2,
		1, 2, 3,
	}
	return positions, indices
}

func TestIsTriangulationClosed(t *testing.T) {
	_, indices := tetrahedron()
	assert.True(t, IsTriangulationClosed(indices))
	assert.False(t, IsTriangulationClosed(indices[:9]))
	assert.False(t, IsTriangulationClosed(nil))
}

func TestSubdivideThenMerge(t *testing.T) {
	positions, indices := tetrahedron()

	p, idx := Subdivide(positions, indices)
	require.Len(t, idx, len(indices)*4)
	// three midpoints appended per triangle
	assert.Len(t, p, len(positions)+4*9)
	assert.False(t, IsTriangulationClosed(idx))

	p, idx = MergeVertices(p, idx)
	// 4 corners + 6 edge midpoints
	assert.Len(t, p, 10*3)
	assert.True(t, IsTriangulationClosed(idx))
	for _, i := range idx {
		assert.Less(t, int(i), len(p)/3)
	}
}

func TestMergeVerticesSeam(t *testing.T) {
	// two triangles sharing an edge through duplicated vertices
	positions := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		1, 0, 0.0005,
		0, 1, 0,
		1, 1, 0,
	}
	indices := []int32{0, 1, 2, 3, 5, 4}

	p, idx := MergeVertices(positions, indices)
	assert.Len(t, p, 4*3)
	assert.Equal(t, []int32{0, 1, 2, 1, 3, 2}, idx)
	// input untouched
	assert.Equal(t, int32(3), indices[3])
}

func TestIsMergedTriangulationClosed(t *testing.T) {
	positions, indices := tetrahedron()
	// split vertex 3 into a seam copy used by the last triangle
	positions = append(positions, 0, 0, 1)
	indices[11] = 4

	assert.False(t, IsTriangulationClosed(indices))
	assert.True(t, IsMergedTriangulationClosed(positions, indices))
}

func TestEdgeCounts(t *testing.T) {
	counts := EdgeCounts([]int32{0, 1, 2, 2, 1, 3})
	assert.Equal(t, 2, counts[MakeEdge(2, 1)])
	assert.Equal(t, 1, counts[MakeEdge(0, 1)])
	assert.Len(t, counts, 5)
}
