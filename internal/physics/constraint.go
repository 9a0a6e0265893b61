package physics

import "github.com/Faultbox/midgard-softbody/pkg/math"

// Kind tags the constraint variant.
type Kind uint8

// Constraint kinds, in the order the solver projects them (Distance first,
// Fixed last).
const (
	KindDistance Kind = iota
	KindFastBend
	KindDihedralBend
	KindVolume
	KindGlobalVolume
	KindCollision
	KindFixed

	kindCount
)

var kindNames = [kindCount]string{
	KindDistance:     "distance",
	KindFastBend:     "fast-bend",
	KindDihedralBend: "dihedral-bend",
	KindVolume:       "volume",
	KindGlobalVolume: "global-volume",
	KindCollision:    "collision",
	KindFixed:        "fixed",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Type is the satisfaction rule of a constraint.
type Type uint8

const (
	// Equality constraints want C(x) == 0.
	Equality Type = iota
	// Inequality constraints want C(x) >= 0.
	Inequality
)

// Type returns the satisfaction rule for the kind.
func (k Kind) Type() Type {
	if k == KindCollision {
		return Inequality
	}
	return Equality
}

const (
	// satisfiedTolerance is the |C| under which an equality holds.
	satisfiedTolerance = 1e-6
	// minDenominator disables the update when the effective mass vanishes.
	minDenominator = 1e-6
	// CollisionSkin is the separation a collision constraint enforces.
	CollisionSkin = 0.02
	// degenerateArea is the |n| under which a contact triangle is ignored.
	degenerateArea = 1e-3
)

// Constraint is one XPBD constraint. Every variant shares this struct; the
// kind selects which payload fields are meaningful.
type Constraint struct {
	kind       Kind
	particles  []Handle
	compliance float32
	lambda     float32
	gradient   []math.Vec3

	// rest length, rest angle or rest volume
	rest float32
	// pin position of a Fixed constraint
	target math.Vec3
	// GlobalVolume only
	pressure  float32
	triangles []int32
	// Collision only
	skin float32
}

func newConstraint(kind Kind, compliance float32, particles ...Handle) *Constraint {
	return &Constraint{
		kind:       kind,
		particles:  particles,
		compliance: compliance,
		gradient:   make([]math.Vec3, len(particles)),
	}
}

// NewDistance keeps p1 and p2 at their current separation.
func NewDistance(a *Arena, p1, p2 Handle, compliance float32) *Constraint {
	c := newConstraint(KindDistance, compliance, p1, p2)
	c.rest = c.measure(a, atPosition)
	return c
}

// NewFastBend resists bending across the shared edge (p0, p1) by keeping
// the two opposite apexes p2 and p3 at their current distance.
func NewFastBend(a *Arena, p0, p1, p2, p3 Handle, compliance float32) *Constraint {
	c := newConstraint(KindFastBend, compliance, p2, p3)
	c.rest = c.measure(a, atPosition)
	return c
}

// NewDihedralBend keeps the angle between triangles (p0, p1, p2) and
// (p0, p1, p3) around their shared edge.
func NewDihedralBend(a *Arena, p0, p1, p2, p3 Handle, compliance float32) *Constraint {
	c := newConstraint(KindDihedralBend, compliance, p0, p1, p2, p3)
	c.rest = c.measure(a, atPosition)
	return c
}

// NewVolume keeps the signed volume of tetrahedron (p1, p2, p3, p4) at
// restVolume.
func NewVolume(p1, p2, p3, p4 Handle, restVolume, compliance float32) *Constraint {
	c := newConstraint(KindVolume, compliance, p1, p2, p3, p4)
	c.rest = restVolume
	return c
}

// NewGlobalVolume keeps the volume enclosed by a closed triangulation at
// its current value scaled by pressure. triangles index into particles.
func NewGlobalVolume(a *Arena, particles []Handle, triangles []int32, pressure, compliance float32) *Constraint {
	c := newConstraint(KindGlobalVolume, compliance, append([]Handle(nil), particles...)...)
	c.triangles = triangles
	c.pressure = pressure
	c.rest = c.measure(a, atPosition)
	return c
}

// NewCollision pushes q to the front side of triangle (p1, p2, p3).
func NewCollision(q, p1, p2, p3 Handle) *Constraint {
	c := newConstraint(KindCollision, 0, q, p1, p2, p3)
	c.skin = CollisionSkin
	return c
}

// NewFixed pins p to its current position.
func NewFixed(a *Arena, p Handle) *Constraint {
	c := newConstraint(KindFixed, 0, p)
	c.target = a.Get(p).Position
	return c
}

// Kind returns the variant tag.
func (c *Constraint) Kind() Kind { return c.kind }

// Type returns the satisfaction rule.
func (c *Constraint) Type() Type { return c.kind.Type() }

// Particles returns the constrained handles. The slice must not be modified.
func (c *Constraint) Particles() []Handle { return c.particles }

// Compliance returns the inverse stiffness; zero means rigid.
func (c *Constraint) Compliance() float32 { return c.compliance }

// SetCompliance changes the inverse stiffness.
func (c *Constraint) SetCompliance(compliance float32) { c.compliance = compliance }

// Lambda returns the accumulated Lagrange multiplier.
func (c *Constraint) Lambda() float32 { return c.lambda }

// ResetLambda zeroes the Lagrange multiplier.
func (c *Constraint) ResetLambda() { c.lambda = 0 }

// RestValue returns the rest length, angle or volume.
func (c *Constraint) RestValue() float32 { return c.rest }

// Target returns the pin position of a Fixed constraint.
func (c *Constraint) Target() math.Vec3 { return c.target }

// Pressure returns the GlobalVolume pressure multiplier.
func (c *Constraint) Pressure() float32 { return c.pressure }

// SetPressure scales the target volume of a GlobalVolume constraint.
func (c *Constraint) SetPressure(pressure float32) { c.pressure = pressure }

// Evaluate returns C(x) over the predicted positions.
func (c *Constraint) Evaluate(a *Arena) float32 {
	switch c.kind {
	case KindFixed:
		return c.measure(a, atPredicted)
	case KindGlobalVolume:
		return c.measure(a, atPredicted) - c.rest*c.pressure
	case KindCollision:
		d, ok := c.contactDistance(a)
		if !ok {
			return 0
		}
		return d - c.skin
	default:
		return c.measure(a, atPredicted) - c.rest
	}
}

// IsSatisfied reports whether the constraint needs no projection.
func (c *Constraint) IsSatisfied(a *Arena) bool {
	v := c.Evaluate(a)
	if c.Type() == Inequality {
		return v >= 0
	}
	return math.Abs(v) <= satisfiedTolerance
}

// Solve projects the predicted positions of the constrained particles for a
// substep of length dt.
func (c *Constraint) Solve(a *Arena, dt float32) {
	if c.IsSatisfied(a) {
		return
	}
	c.computeGradient(a)

	alpha := c.compliance / (dt * dt)
	value := c.Evaluate(a)

	denominator := alpha
	for i, h := range c.particles {
		denominator += a.Get(h).InverseMass * c.gradient[i].LengthSq()
	}

	var deltaLambda float32
	if denominator >= minDenominator {
		deltaLambda = (-value - alpha*c.lambda) / denominator
	}
	if math.IsNaN(deltaLambda) {
		deltaLambda = 0
	}

	if denominator >= minDenominator {
		s := -value / denominator
		for i, h := range c.particles {
			p := a.Get(h)
			p.PredictedPosition = p.PredictedPosition.Add(c.gradient[i].Scale(s * p.InverseMass))
		}
	}

	c.lambda += deltaLambda
}

// ReplaceParticle swaps every occurrence of old for replacement and
// recomputes the rest value.
func (c *Constraint) ReplaceParticle(a *Arena, old, replacement Handle) {
	for i, h := range c.particles {
		if h == old {
			c.particles[i] = replacement
		}
	}
	c.RecomputeTarget(a)
}

// RecomputeTarget re-derives the rest value from the particles' current
// state. Fixed constraints re-pin at the predicted position.
func (c *Constraint) RecomputeTarget(a *Arena) {
	switch c.kind {
	case KindDistance, KindFastBend, KindDihedralBend:
		c.rest = c.measure(a, atPosition)
	case KindVolume, KindGlobalVolume:
		c.rest = c.measure(a, atPredicted)
	case KindFixed:
		c.target = a.Get(c.particles[0]).PredictedPosition
	case KindCollision:
		c.skin = CollisionSkin
	}
}

// Clone returns an independent copy with a zero multiplier.
func (c *Constraint) Clone() *Constraint {
	cp := *c
	cp.particles = append([]Handle(nil), c.particles...)
	cp.gradient = make([]math.Vec3, len(c.gradient))
	cp.lambda = 0
	return &cp
}
