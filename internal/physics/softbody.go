package physics

import (
	"github.com/Faultbox/midgard-softbody/internal/mesh"
	"github.com/Faultbox/midgard-softbody/pkg/geom"
)

// Default soft body compliances.
const (
	DefaultStretchCompliance = 1e-4
	DefaultBendCompliance    = 0.2
	DefaultPressure          = 1
)

// BendModel selects how bending resistance is generated.
type BendModel uint8

const (
	// BendFast keeps the apexes of adjacent triangles at a fixed distance.
	BendFast BendModel = iota
	// BendDihedral keeps the dihedral angle of adjacent triangles.
	BendDihedral
)

type softBodyConfig struct {
	stretch  float32
	bend     float32
	pressure float32
	model    BendModel
}

// SoftBodyOption customizes NewSoftBody.
type SoftBodyOption func(*softBodyConfig)

// WithStretchCompliance sets the compliance of edge distance constraints.
func WithStretchCompliance(c float32) SoftBodyOption {
	return func(cfg *softBodyConfig) { cfg.stretch = c }
}

// WithBendCompliance sets the compliance of bending constraints.
func WithBendCompliance(c float32) SoftBodyOption {
	return func(cfg *softBodyConfig) { cfg.bend = c }
}

// WithPressure sets the initial pressure of a closed body.
func WithPressure(p float32) SoftBodyOption {
	return func(cfg *softBodyConfig) { cfg.pressure = p }
}

// WithBendModel selects the bending constraint variant.
func WithBendModel(m BendModel) SoftBodyOption {
	return func(cfg *softBodyConfig) { cfg.model = m }
}

// NewSoftBody creates a deformable body from a mesh. It adds a distance
// constraint per triangle edge, a rigid link between coincident vertices
// (UV seams), a bending constraint per interior edge and, when the welded
// surface is closed, a global volume constraint.
func NewSoftBody(a *Arena, m *mesh.Mesh, mass float32, opts ...SoftBodyOption) *Body {
	cfg := softBodyConfig{
		stretch:  DefaultStretchCompliance,
		bend:     DefaultBendCompliance,
		pressure: DefaultPressure,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := newBody(a, m, mass)
	b.addEdgeConstraints(cfg.stretch)
	b.addSeamConstraints()
	b.addBendConstraints(cfg.bend, cfg.model)

	if geom.IsMergedTriangulationClosed(m.Positions, m.Indices) {
		b.AddConstraint(NewGlobalVolume(a, b.particles, m.Indices, cfg.pressure, 0))
	}
	return b
}

func (b *Body) addEdgeConstraints(compliance float32) {
	idx := b.mesh.Indices
	for i := 0; i+2 < len(idx); i += 3 {
		p1, p2, p3 := b.Handle(idx[i]), b.Handle(idx[i+1]), b.Handle(idx[i+2])
		b.AddConstraint(NewDistance(b.arena, p1, p2, compliance))
		b.AddConstraint(NewDistance(b.arena, p2, p3, compliance))
		b.AddConstraint(NewDistance(b.arena, p3, p1, compliance))
	}
}

func (b *Body) addSeamConstraints() {
	for i := range b.particles {
		pi := b.arena.Get(b.particles[i]).Position
		for j := i + 1; j < len(b.particles); j++ {
			if pi.Distance(b.arena.Get(b.particles[j]).Position) < geom.MergeEpsilon {
				b.AddConstraint(NewDistance(b.arena, b.particles[i], b.particles[j], 0))
			}
		}
	}
}

func (b *Body) addBendConstraints(compliance float32, model BendModel) {
	idx := b.mesh.Indices

	// edges in first-seen order keep constraint order deterministic
	var edges []geom.Edge
	owners := make(map[geom.Edge][]int)
	for i := 0; i+2 < len(idx); i += 3 {
		for _, e := range [3]geom.Edge{
			geom.MakeEdge(idx[i], idx[i+1]),
			geom.MakeEdge(idx[i+1], idx[i+2]),
			geom.MakeEdge(idx[i+2], idx[i]),
		} {
			if _, seen := owners[e]; !seen {
				edges = append(edges, e)
			}
			owners[e] = append(owners[e], i)
		}
	}

	for _, e := range edges {
		tris := owners[e]
		if len(tris) != 2 {
			continue
		}
		var apex []int32
		for k := 0; k < 3; k++ {
			for _, t := range tris {
				if v := idx[t+k]; v != e.A && v != e.B {
					apex = append(apex, v)
				}
			}
		}
		if len(apex) != 2 {
			continue
		}

		p0, p1 := b.Handle(e.A), b.Handle(e.B)
		p2, p3 := b.Handle(apex[0]), b.Handle(apex[1])
		if model == BendDihedral {
			b.AddConstraint(NewDihedralBend(b.arena, p0, p1, p2, p3, compliance))
			continue
		}
		b.AddConstraint(NewFastBend(b.arena, p0, p1, p2, p3, compliance))
	}
}
