// Package mesh holds triangulated surfaces as flat vertex buffers, the form
// both the solver and the GPU upload path consume.
package mesh

import (
	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// AABBPadding is added on every side of a mesh's world bounds.
const AABBPadding = 0.2

// Transform places a mesh in the world.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Splat(1),
	}
}

// Matrix returns the world matrix (translation * rotation * scale).
func (t Transform) Matrix() math.Mat4 {
	return math.TRS(t.Position, t.Rotation, t.Scale)
}

// Mesh is an indexed triangle surface. Positions and Normals hold xyz
// triplets; Indices holds three vertex indices per triangle.
type Mesh struct {
	Name      string
	Positions []float32
	Normals   []float32
	Indices   []int32
	Transform Transform

	// Enabled meshes are drawn and simulated.
	Enabled bool

	dirty bool
}

// New creates an enabled mesh with computed normals.
func New(name string, positions []float32, indices []int32) *Mesh {
	m := &Mesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
		Transform: IdentityTransform(),
		Enabled:   true,
	}
	m.ComputeNormals()
	m.dirty = true
	return m
}

// VertexCount returns the number of vertices in the position buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Vertex returns local-space vertex i.
func (m *Mesh) Vertex(i int) math.Vec3 {
	return geom.Vertex(m.Positions, int32(i))
}

// SetVertex overwrites local-space vertex i.
func (m *Mesh) SetVertex(i int, v math.Vec3) {
	m.Positions[3*i] = v.X
	m.Positions[3*i+1] = v.Y
	m.Positions[3*i+2] = v.Z
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) math.Vec3 {
	return geom.Vertex(m.Normals, int32(i))
}

// WorldMatrix returns the transform's world matrix.
func (m *Mesh) WorldMatrix() math.Mat4 {
	return m.Transform.Matrix()
}

// AABB rebuilds the world-space bounds from the current vertex buffer,
// padded by AABBPadding.
func (m *Mesh) AABB() geom.AABB {
	return geom.FromPositions(m.Positions, m.WorldMatrix()).ExpandBy(AABBPadding)
}

// ComputeNormals recomputes per-vertex normals as the normalized sum of the
// (area weighted) normals of adjacent triangles.
func (m *Mesh) ComputeNormals() {
	if len(m.Normals) != len(m.Positions) {
		m.Normals = make([]float32, len(m.Positions))
	} else {
		clear(m.Normals)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i1, i2, i3 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v1 := geom.Vertex(m.Positions, i1)
		v2 := geom.Vertex(m.Positions, i2)
		v3 := geom.Vertex(m.Positions, i3)
		n := v2.Sub(v1).Cross(v3.Sub(v1))

		for _, idx := range [3]int32{i1, i2, i3} {
			m.Normals[3*idx] += n.X
			m.Normals[3*idx+1] += n.Y
			m.Normals[3*idx+2] += n.Z
		}
	}

	for i := 0; i+2 < len(m.Normals); i += 3 {
		n := math.Vec3{X: m.Normals[i], Y: m.Normals[i+1], Z: m.Normals[i+2]}.Normalize()
		m.Normals[i] = n.X
		m.Normals[i+1] = n.Y
		m.Normals[i+2] = n.Z
	}
}

// BakeRotation applies the transform's rotation to the vertices and resets
// it to identity.
func (m *Mesh) BakeRotation() {
	rot := m.Transform.Rotation
	for i := 0; i < m.VertexCount(); i++ {
		m.SetVertex(i, rot.Rotate(m.Vertex(i)))
	}
	m.Transform.Rotation = math.QuatIdentity()
	m.ComputeNormals()
	m.dirty = true
}

// BakeScale applies the transform's scale to the vertices and resets it to
// one.
func (m *Mesh) BakeScale() {
	s := m.Transform.Scale
	for i := 0; i < m.VertexCount(); i++ {
		m.SetVertex(i, m.Vertex(i).Mul(s))
	}
	m.Transform.Scale = math.Splat(1)
	m.ComputeNormals()
	m.dirty = true
}

// MarkDirty flags the vertex buffers for re-upload.
func (m *Mesh) MarkDirty() { m.dirty = true }

// Dirty reports whether the buffers changed since the last upload.
func (m *Mesh) Dirty() bool { return m.dirty }

// ClearDirty is called by the renderer after uploading.
func (m *Mesh) ClearDirty() { m.dirty = false }

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Positions = append([]float32(nil), m.Positions...)
	c.Normals = append([]float32(nil), m.Normals...)
	c.Indices = append([]int32(nil), m.Indices...)
	return &c
}
