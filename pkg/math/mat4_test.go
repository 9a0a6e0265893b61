package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformVec3(t *testing.T) {
	got := Translate(10, 20, 30).TransformVec3(V3(1, 2, 3))
	if got != V3(11, 22, 33) {
		t.Errorf("TransformVec3: got %v, want (11, 22, 33)", got)
	}

	got = Scale(2, 2, 2).TransformVec3(V3(1, 2, 3))
	if got != V3(2, 4, 6) {
		t.Errorf("TransformVec3 with scale: got %v, want (2, 4, 6)", got)
	}
}

func TestTRS(t *testing.T) {
	rot := QuatFromAxisAngle(Vec3{Y: 1}, float32(math.Pi/2))
	m := TRS(Vec3{X: 10}, rot, Vec3{X: 2, Y: 2, Z: 2})
	got := m.TransformVec3(Vec3{X: 1})

	// scale to (2,0,0), rotate to (0,0,-2), translate to (10,0,-2)
	if abs(got.X-10) > 0.001 || abs(got.Y) > 0.001 || abs(got.Z+2) > 0.001 {
		t.Errorf("TRS: got %v, want (10, 0, -2)", got)
	}

	composed := Translate(10, 0, 0).Mul(rot.ToMat4()).Mul(Scale(2, 2, 2))
	for i := range m {
		if abs(m[i]-composed[i]) > 0.0001 {
			t.Errorf("TRS element %d: got %v, want %v", i, m[i], composed[i])
		}
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(5, 5, 5)
	d := m.TransformDirection(Vec3{Y: 1})
	if d != (Vec3{Y: 1}) {
		t.Errorf("TransformDirection: got %v, want (0, 1, 0)", d)
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	aspect := float32(1.0)
	near := float32(0.1)
	far := float32(100.0)

	m := Perspective(fov, aspect, near, far)

	// Should be a valid projection matrix (not identity)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	center := Vec3{0, 0, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)

	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
	if got := m.TransformVec3(eye); got.Length() > 0.0001 {
		t.Errorf("eye should map to the origin, got %v", got)
	}
	// the camera looks down -Z
	if got := m.TransformVec3(center); abs(got.Z+5) > 0.0001 {
		t.Errorf("center should sit at z = -5, got %v", got)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(1, 2, 3).Mul(Scale(2, 4, 8))
	inv := m.Inverse()
	id := m.Mul(inv)
	want := Identity()
	for i := 0; i < 16; i++ {
		if abs(id[i]-want[i]) > 0.0001 {
			t.Errorf("m * m^-1 element %d: got %v, want %v", i, id[i], want[i])
		}
	}
}

func TestInverseGeneral(t *testing.T) {
	view := LookAt(V3(3, 4, 5), V3(0, 1, 0), Vec3{Y: 1})
	proj := Perspective(float32(math.Pi/3), 1.5, 0.1, 50)
	m := proj.Mul(view).Mul(TRS(V3(1, -2, 0.5), QuatFromEuler(0.3, 1.1, -0.4), V3(1, 2, 0.5)))

	id := m.Inverse().Mul(m)
	want := Identity()
	for i := range id {
		if abs(id[i]-want[i]) > 0.001 {
			t.Errorf("m^-1 * m element %d: got %v, want %v", i, id[i], want[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(1, 0, 1).Inverse(); got != Identity() {
		t.Errorf("singular Inverse: got %v, want identity", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
