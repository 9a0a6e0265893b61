package mesh

import (
	"math"
	"testing"

	"github.com/Faultbox/midgard-softbody/pkg/geom"
	smath "github.com/Faultbox/midgard-softbody/pkg/math"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func approxVec(a, b smath.Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

func TestPlane(t *testing.T) {
	tests := []struct {
		name         string
		subdivisions int
		vertices     int
		triangles    int
	}{
		{"minimal", 2, 4, 2},
		{"clamped", 1, 4, 2},
		{"grid", 5, 25, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Plane("plane", tt.subdivisions)
			if m.VertexCount() != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", m.VertexCount(), tt.vertices)
			}
			if m.TriangleCount() != tt.triangles {
				t.Errorf("TriangleCount() = %d, want %d", m.TriangleCount(), tt.triangles)
			}
			for i := 0; i < m.VertexCount(); i++ {
				if !approxVec(m.Normal(i), smath.V3(0, 1, 0)) {
					t.Fatalf("normal %d = %v, want +Y", i, m.Normal(i))
				}
			}
			if geom.IsTriangulationClosed(m.Indices) {
				t.Error("plane must not be closed")
			}
		})
	}
}

func TestICOSphere(t *testing.T) {
	for _, sub := range []int{0, 1, 2} {
		m := ICOSphere("ico", sub)
		if !geom.IsTriangulationClosed(m.Indices) {
			t.Errorf("subdivisions=%d: triangulation not closed", sub)
		}
		for i := 0; i < m.VertexCount(); i++ {
			if !approx(m.Vertex(i).Length(), 1) {
				t.Fatalf("subdivisions=%d: vertex %d not on unit sphere", sub, i)
			}
			// normals point outward
			if m.Normal(i).Dot(m.Vertex(i)) <= 0 {
				t.Fatalf("subdivisions=%d: normal %d points inward", sub, i)
			}
		}
	}

	if got := ICOSphere("ico", 1).VertexCount(); got != 42 {
		t.Errorf("ICOSphere(1) vertices = %d, want 42", got)
	}
}

func TestUVSphereClosesWhenMerged(t *testing.T) {
	m := UVSphere("uv", 8)
	if geom.IsTriangulationClosed(m.Indices) {
		t.Error("raw UV sphere should have open seams")
	}
	if !geom.IsMergedTriangulationClosed(m.Positions, m.Indices) {
		t.Error("merged UV sphere should be closed")
	}
}

func TestAABBPadded(t *testing.T) {
	m := Plane("plane", 2)
	m.Transform.Position = smath.V3(0, 3, 0)

	box := m.AABB()
	if !approxVec(box.Min, smath.V3(-0.7, 2.8, -0.7)) {
		t.Errorf("Min = %v", box.Min)
	}
	if !approxVec(box.Max, smath.V3(0.7, 3.2, 0.7)) {
		t.Errorf("Max = %v", box.Max)
	}
}

func TestBakeScaleAndRotation(t *testing.T) {
	m := Plane("plane", 2)
	m.Transform.Scale = smath.V3(2, 1, 2)
	m.Transform.Rotation = smath.QuatFromAxisAngle(smath.V3(1, 0, 0), math.Pi)
	m.ClearDirty()

	m.BakeScale()
	m.BakeRotation()

	if m.Transform.Scale != smath.Splat(1) {
		t.Errorf("scale not reset: %v", m.Transform.Scale)
	}
	if m.Transform.Rotation != smath.QuatIdentity() {
		t.Errorf("rotation not reset: %v", m.Transform.Rotation)
	}
	if !m.Dirty() {
		t.Error("baking must mark the mesh dirty")
	}
	box := geom.FromPositions(m.Positions, smath.Identity())
	if !approx(box.Size().X, 2) || !approx(box.Size().Z, 2) {
		t.Errorf("baked size = %v, want 2 x 2", box.Size())
	}
	// flipped upside down
	if !approxVec(m.Normal(0), smath.V3(0, -1, 0)) {
		t.Errorf("normal = %v, want -Y", m.Normal(0))
	}
}

func TestDirtyFlag(t *testing.T) {
	m := New("tri", []float32{0, 0, 0, 1, 0, 0, 0, 0, 1}, []int32{0, 2, 1})
	if !m.Dirty() {
		t.Error("new mesh should be dirty")
	}
	m.ClearDirty()
	if m.Dirty() {
		t.Error("ClearDirty did not clear")
	}
	m.MarkDirty()
	if !m.Dirty() {
		t.Error("MarkDirty did not set")
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := Plane("plane", 3)
	c := m.Clone()
	c.Positions[0] = 42
	c.Indices[0] = 7
	if m.Positions[0] == 42 || m.Indices[0] == 7 {
		t.Error("Clone shares buffers with the original")
	}
}
