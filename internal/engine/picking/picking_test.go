package picking

import (
	"testing"

	"github.com/Faultbox/midgard-softbody/internal/mesh"
	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

func near(a, b float32) bool {
	return math.Abs(a-b) < 1e-3
}

func TestScreenToRayCentre(t *testing.T) {
	eye := math.V3(0, 0, 10)
	view := math.LookAt(eye, math.Vec3{}, math.V3(0, 1, 0))
	proj := math.Perspective(0.8, 1, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 300, 800, 600, inv)
	if !near(r.Direction.X, 0) || !near(r.Direction.Y, 0) || !near(r.Direction.Z, -1) {
		t.Errorf("centre ray should look down -Z, got %+v", r.Direction)
	}
	if math.Abs(r.Origin.Z-9.9) > 1e-2 || math.Abs(r.Origin.X) > 1e-2 {
		t.Errorf("centre ray should start on the near plane, got %+v", r.Origin)
	}

	left := ScreenToRay(0, 300, 800, 600, inv)
	if left.Direction.X >= 0 {
		t.Errorf("left edge ray should point to -X, got %+v", left.Direction)
	}
}

func TestPickMesh(t *testing.T) {
	floor := mesh.Plane("floor", 2)
	floor.Transform.Position = math.V3(0, 0, 0)
	raised := mesh.Plane("raised", 2)
	raised.Transform.Position = math.V3(0, 1, 0)

	down := geom.Ray{Origin: math.V3(0.1, 5, 0.2), Direction: math.V3(0, -1, 0)}
	hit, ok := PickMesh(down, []*mesh.Mesh{floor, raised})
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Mesh != raised {
		t.Errorf("expected the closest mesh, got %s", hit.Mesh.Name)
	}
	if !near(hit.Distance, 4) {
		t.Errorf("expected distance 4, got %f", hit.Distance)
	}
	if p := hit.Point(down); !near(p.Y, 1) {
		t.Errorf("expected hit at y=1, got %+v", p)
	}
	if hit.Face < 0 || int(hit.Face) >= raised.TriangleCount() {
		t.Errorf("face %d out of range", hit.Face)
	}

	raised.Enabled = false
	hit, ok = PickMesh(down, []*mesh.Mesh{floor, raised})
	if !ok || hit.Mesh != floor {
		t.Error("disabled meshes should not be picked")
	}
}

func TestPickMeshIgnoresBackFaces(t *testing.T) {
	floor := mesh.Plane("floor", 2)
	up := geom.Ray{Origin: math.V3(0.1, -5, 0.2), Direction: math.V3(0, 1, 0)}
	if _, ok := PickMesh(up, []*mesh.Mesh{floor}); ok {
		t.Error("back faces should not be picked")
	}

	miss := geom.Ray{Origin: math.V3(3, 5, 3), Direction: math.V3(0, -1, 0)}
	if _, ok := PickMesh(miss, []*mesh.Mesh{floor}); ok {
		t.Error("ray outside the mesh should miss")
	}
}
