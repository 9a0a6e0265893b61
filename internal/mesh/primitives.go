package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// Plane builds a unit square in the XZ plane, centred on the origin, with
// subdivisions vertices per side. Values below 2 are raised to 2.
func Plane(name string, subdivisions int) *Mesh {
	n := max(subdivisions, 2)
	step := float32(1) / float32(n-1)

	positions := make([]float32, 0, n*n*3)
	indices := make([]int32, 0, (n-1)*(n-1)*6)

	for x := 0; x < n; x++ {
		px := float32(x)*step - 0.5
		for z := 0; z < n; z++ {
			pz := float32(z)*step - 0.5
			positions = append(positions, px, 0, pz)

			if x == n-1 || z == n-1 {
				continue
			}
			i00 := int32(x*n + z)
			i10 := int32((x+1)*n + z)
			i01 := i00 + 1
			i11 := i10 + 1
			indices = append(indices,
				i10, i00, i01,
				i10, i01, i11,
			)
		}
	}
	return New(name, positions, indices)
}

const (
	icoX = 0.525731112119133606
	icoZ = 0.850650808352039932
)

var icoPositions = []float32{
	-icoX, 0, icoZ,
	icoX, 0, icoZ,
	-icoX, 0, -icoZ,
	icoX, 0, -icoZ,
	0, icoZ, icoX,
	0, icoZ, -icoX,
	0, -icoZ, icoX,
	0, -icoZ, -icoX,
	icoZ, icoX, 0,
	-icoZ, icoX, 0,
	icoZ, -icoX, 0,
	-icoZ, -icoX, 0,
}

var icoIndices = []int32{
	4, 0, 1,
	9, 0, 4,
	5, 9, 4,
	5, 4, 8,
	8, 4, 1,
	10, 8, 1,
	3, 8, 10,
	3, 5, 8,
	2, 5, 3,
	7, 2, 3,
	10, 7, 3,
	6, 7, 10,
	11, 7, 6,
	0, 11, 6,
	1, 0, 6,
	1, 6, 10,
	0, 9, 11,
	11, 9, 2,
	2, 9, 5,
	2, 7, 11,
}

// ICOSphere builds a closed unit sphere by repeatedly subdividing an
// icosahedron, welding shared midpoints and projecting onto the sphere.
func ICOSphere(name string, subdivisions int) *Mesh {
	positions := append([]float32(nil), icoPositions...)
	indices := append([]int32(nil), icoIndices...)

	for i := 0; i < subdivisions; i++ {
		positions, indices = geom.Subdivide(positions, indices)
		positions, indices = geom.MergeVertices(positions, indices)
	}

	for i := 0; i+2 < len(positions); i += 3 {
		p := math.Vec3{X: positions[i], Y: positions[i+1], Z: positions[i+2]}.Normalize()
		positions[i], positions[i+1], positions[i+2] = p.X, p.Y, p.Z
	}
	return New(name, positions, indices)
}

// UVSphere builds a unit latitude/longitude sphere. The seam and pole rows
// are duplicated vertices, so the raw triangulation is open until merged.
func UVSphere(name string, resolution int) *Mesh {
	res := max(resolution, 3)
	sectorStep := 2 * math32.Pi / float32(res)
	stackStep := math32.Pi / float32(res)

	positions := make([]float32, 0, (res+1)*(res+1)*3)
	for i := 0; i <= res; i++ {
		stack := math32.Pi/2 - float32(i)*stackStep
		xy := math32.Cos(stack)
		y := math32.Sin(stack)
		for j := 0; j <= res; j++ {
			sector := float32(j) * sectorStep
			positions = append(positions, xy*math32.Cos(sector), y, xy*math32.Sin(sector))
		}
	}

	var indices []int32
	for i := 0; i < res; i++ {
		k1 := int32(i * (res + 1))
		k2 := k1 + int32(res) + 1
		for j := 0; j < res; j++ {
			if i != 0 {
				indices = append(indices, k1, k1+1, k2)
			}
			if i != res-1 {
				indices = append(indices, k1+1, k2+1, k2)
			}
			k1++
			k2++
		}
	}
	return New(name, positions, indices)
}
