package scene

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-softbody/internal/mesh"
	"github.com/Faultbox/midgard-softbody/internal/physics"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// Shape names a body factory.
type Shape string

// Known shapes.
const (
	ShapeCarpet Shape = "carpet"
	ShapeSphere Shape = "sphere"
	ShapeGround Shape = "ground"
)

// Pin modes.
const (
	PinNone    = "none"
	PinCorners = "corners"
)

// Bending models.
const (
	BendingFast     = "fast"
	BendingDihedral = "dihedral"
)

type shapeDefaults struct {
	resolution int
	scale      math.Vec3
	mass       float32
	stretch    float32
	bend       float32
}

type factory struct {
	defaults shapeDefaults
	build    func(a *physics.Arena, name string, b *Body, d shapeDefaults) *physics.Body
}

var factories = map[Shape]factory{
	ShapeCarpet: {
		defaults: shapeDefaults{resolution: 32, scale: math.V3(10, 1, 10), mass: 1, stretch: 0.1, bend: 0.01},
		build:    buildCarpet,
	},
	ShapeSphere: {
		defaults: shapeDefaults{resolution: 4, scale: math.Splat(1.5), mass: 1, stretch: 1, bend: 1},
		build:    buildSphere,
	},
	ShapeGround: {
		defaults: shapeDefaults{resolution: 2, scale: math.Splat(40)},
		build:    buildGround,
	},
}

// NewBody builds the body described by b in arena a.
func NewBody(a *physics.Arena, name string, b *Body) (*physics.Body, error) {
	f, ok := factories[Shape(b.Shape)]
	if !ok {
		return nil, fmt.Errorf("body %q: %w %q", name, ErrUnknownShape, b.Shape)
	}
	body := f.build(a, name, b, f.defaults)
	body.Mesh().Enabled = !b.Disabled
	return body, nil
}

func (d shapeDefaults) softOptions(b *Body) []physics.SoftBodyOption {
	stretch, bend := d.stretch, d.bend
	if b.StretchCompliance != 0 {
		stretch = float32(b.StretchCompliance)
	}
	if b.BendCompliance != 0 {
		bend = float32(b.BendCompliance)
	}
	opts := []physics.SoftBodyOption{
		physics.WithStretchCompliance(stretch),
		physics.WithBendCompliance(bend),
	}
	if b.Bending == BendingDihedral {
		opts = append(opts, physics.WithBendModel(physics.BendDihedral))
	}
	if b.Pressure != 0 {
		opts = append(opts, physics.WithPressure(float32(b.Pressure)))
	}
	return opts
}

func (d shapeDefaults) resolutionOf(b *Body) int {
	if b.Resolution > 0 {
		return b.Resolution
	}
	return d.resolution
}

func (d shapeDefaults) massOf(b *Body) float32 {
	if b.Mass > 0 {
		return float32(b.Mass)
	}
	return d.mass
}

func place(m *mesh.Mesh, b *Body, d shapeDefaults) {
	m.Transform.Position = b.Position.Or(math.Vec3{})
	m.Transform.Scale = b.Scale.Or(d.scale)
	if b.Rotation.Set {
		r := b.Rotation.Scale(math32.Pi / 180)
		m.Transform.Rotation = math.QuatFromEuler(r.X, r.Y, r.Z)
	}
}

func buildCarpet(a *physics.Arena, name string, b *Body, d shapeDefaults) *physics.Body {
	res := d.resolutionOf(b)
	m := mesh.Plane(name, res)
	place(m, b, d)
	body := physics.NewSoftBody(a, m, d.massOf(b), d.softOptions(b)...)

	if b.Pin == PinCorners {
		// Plane clamps its resolution, read it back from the mesh
		n := int32(math.Sqrt(float32(m.VertexCount())) + 0.5)
		for _, i := range []int32{0, n - 1, n * (n - 1), n*n - 1} {
			body.PinParticle(i)
		}
	}
	return body
}

func buildSphere(a *physics.Arena, name string, b *Body, d shapeDefaults) *physics.Body {
	m := mesh.ICOSphere(name, d.resolutionOf(b))
	place(m, b, d)
	return physics.NewSoftBody(a, m, d.massOf(b), d.softOptions(b)...)
}

func buildGround(a *physics.Arena, name string, b *Body, d shapeDefaults) *physics.Body {
	m := mesh.Plane(name, d.resolutionOf(b))
	place(m, b, d)
	return physics.NewRigidBody(a, m, 0)
}

// Carpet builds a soft square cloth of res x res particles, optionally
// pinned at its four corners.
func Carpet(a *physics.Arena, res int, position math.Vec3, pinned bool) *physics.Body {
	pin := PinNone
	if pinned {
		pin = PinCorners
	}
	body, _ := NewBody(a, string(ShapeCarpet), &Body{
		Shape:      string(ShapeCarpet),
		Position:   Vector{Vec3: position, Set: true},
		Resolution: res,
		Pin:        pin,
	})
	return body
}

// Sphere builds a soft icosphere.
func Sphere(a *physics.Arena, subdivisions int, position math.Vec3) *physics.Body {
	body, _ := NewBody(a, string(ShapeSphere), &Body{
		Shape:      string(ShapeSphere),
		Position:   Vector{Vec3: position, Set: true},
		Resolution: subdivisions,
	})
	return body
}

// Ground builds the immovable floor plane.
func Ground(a *physics.Arena) *physics.Body {
	body, _ := NewBody(a, string(ShapeGround), &Body{Shape: string(ShapeGround)})
	return body
}
