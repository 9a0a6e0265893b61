// Package picking turns screen coordinates into world rays and finds the
// mesh triangle under the cursor.
package picking

import (
	"github.com/Faultbox/midgard-softbody/internal/mesh"
	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) geom.Ray {
	// normalized device coordinates, Y up
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return geom.Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, ndc math.Vec4) math.Vec3 {
	p := inv.MulVec4(ndc)
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.V3(p[0], p[1], p[2])
}

// Hit is the result of a successful pick.
type Hit struct {
	Mesh     *mesh.Mesh
	Face     int32   // triangle index
	Distance float32 // ray parameter of the hit
}

// Point returns the world-space hit position along ray.
func (h Hit) Point(ray geom.Ray) math.Vec3 {
	return ray.At(h.Distance)
}

// PickMesh returns the closest front-facing triangle hit among the enabled
// meshes.
func PickMesh(ray geom.Ray, meshes []*mesh.Mesh) (Hit, bool) {
	var best Hit
	found := false

	for _, m := range meshes {
		if !m.Enabled || !m.AABB().IntersectsRay(ray) {
			continue
		}
		world := m.WorldMatrix()
		idx := m.Indices
		for i := 0; i+2 < len(idx); i += 3 {
			t0 := world.TransformVec3(m.Vertex(int(idx[i])))
			t1 := world.TransformVec3(m.Vertex(int(idx[i+1])))
			t2 := world.TransformVec3(m.Vertex(int(idx[i+2])))

			normal := t1.Sub(t0).Cross(t2.Sub(t0))
			if normal.Dot(ray.Direction) >= 0 {
				continue
			}
			t, ok := geom.RayTriangle(ray, t0, t1, t2)
			if !ok || (found && t >= best.Distance) {
				continue
			}
			best = Hit{Mesh: m, Face: int32(i / 3), Distance: t}
			found = true
		}
	}
	return best, found
}
