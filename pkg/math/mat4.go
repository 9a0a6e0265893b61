package math

import "github.com/chewxy/math32"

// Mat4 is a column-major 4x4 matrix, the layout OpenGL uniforms expect.
// Row r of column c lives at index 4*c + r.
type Mat4 [16]float32

// Vec4 is a homogeneous vector.
type Vec4 [4]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Scale(1, 1, 1)
}

// Scale returns a matrix scaling each axis independently.
func Scale(x, y, z float32) Mat4 {
	return Mat4{0: x, 5: y, 10: z, 15: 1}
}

// Translate returns a matrix moving points by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	return basis(Vec3{X: 1}, Vec3{Y: 1}, Vec3{Z: 1}, V3(x, y, z))
}

// basis builds an affine matrix from three axis columns and an origin.
func basis(x, y, z, origin Vec3) Mat4 {
	return Mat4{
		0: x.X, 1: x.Y, 2: x.Z,
		4: y.X, 5: y.Y, 6: y.Z,
		8: z.X, 9: z.Y, 10: z.Z,
		12: origin.X, 13: origin.Y, 14: origin.Z, 15: 1,
	}
}

// TRS is the model matrix of a transform: scale first, then rotation, then
// translation.
func TRS(position Vec3, rotation Quat, scale Vec3) Mat4 {
	return basis(
		rotation.Rotate(Vec3{X: scale.X}),
		rotation.Rotate(Vec3{Y: scale.Y}),
		rotation.Rotate(Vec3{Z: scale.Z}),
		position,
	)
}

// Perspective maps a view frustum to OpenGL clip space with depth in
// [-1, 1]. fovY is the vertical field of view in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	focal := 1 / math32.Tan(fovY/2)
	depth := near - far
	return Mat4{
		0:  focal / aspect,
		5:  focal,
		10: (far + near) / depth,
		11: -1,
		14: 2 * far * near / depth,
	}
}

// LookAt is the view matrix of a camera at eye facing center.
func LookAt(eye, center, up Vec3) Mat4 {
	back := eye.Sub(center).Normalize()
	right := up.Cross(back).Normalize()
	upward := back.Cross(right)

	// The rotation part is the transpose of the camera basis.
	return Mat4{
		0: right.X, 4: right.Y, 8: right.Z, 12: -right.Dot(eye),
		1: upward.X, 5: upward.Y, 9: upward.Z, 13: -upward.Dot(eye),
		2: back.X, 6: back.Y, 10: back.Z, 14: -back.Dot(eye),
		15: 1,
	}
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for r := range 4 {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*v[3]
	}
	return out
}

// Mul returns m * other, so other applies first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for c := range 4 {
		col := m.MulVec4(Vec4(other[4*c : 4*c+4]))
		copy(out[4*c:], col[:])
	}
	return out
}

// TransformVec3 maps a point, dividing by w when the matrix is projective.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	p := m.MulVec4(Vec4{v.X, v.Y, v.Z, 1})
	if w := p[3]; w != 0 && w != 1 {
		return V3(p[0]/w, p[1]/w, p[2]/w)
	}
	return V3(p[0], p[1], p[2])
}

// TransformDirection maps a direction; translation does not apply.
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	p := m.MulVec4(Vec4{d.X, d.Y, d.Z, 0})
	return V3(p[0], p[1], p[2])
}

// Ptr is the address handed to glUniformMatrix4fv.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// Inverse returns m^-1, or the identity when m is singular.
func (m Mat4) Inverse() Mat4 {
	// 2x2 minors of the first two columns (s) and of the last two (c).
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c0 := m[8]*m[13] - m[12]*m[9]
	c1 := m[8]*m[14] - m[12]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c4 := m[9]*m[15] - m[13]*m[11]
	c5 := m[10]*m[15] - m[14]*m[11]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity()
	}

	adj := Mat4{
		m[5]*c5 - m[6]*c4 + m[7]*c3,
		-m[1]*c5 + m[2]*c4 - m[3]*c3,
		m[13]*s5 - m[14]*s4 + m[15]*s3,
		-m[9]*s5 + m[10]*s4 - m[11]*s3,

		-m[4]*c5 + m[6]*c2 - m[7]*c1,
		m[0]*c5 - m[2]*c2 + m[3]*c1,
		-m[12]*s5 + m[14]*s2 - m[15]*s1,
		m[8]*s5 - m[10]*s2 + m[11]*s1,

		m[4]*c4 - m[5]*c2 + m[7]*c0,
		-m[0]*c4 + m[1]*c2 - m[3]*c0,
		m[12]*s4 - m[13]*s2 + m[15]*s0,
		-m[8]*s4 + m[9]*s2 - m[11]*s0,

		-m[4]*c3 + m[5]*c1 - m[6]*c0,
		m[0]*c3 - m[1]*c1 + m[2]*c0,
		-m[12]*s3 + m[13]*s1 - m[14]*s0,
		m[8]*s3 - m[9]*s1 + m[10]*s0,
	}
	inv := 1 / det
	for i := range adj {
		adj[i] *= inv
	}
	return adj
}
