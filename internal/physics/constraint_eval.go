package physics

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// selector picks which position of a particle a measurement reads.
type selector func(p *Particle) math.Vec3

func atPosition(p *Particle) math.Vec3  { return p.Position }
func atPredicted(p *Particle) math.Vec3 { return p.PredictedPosition }

func (c *Constraint) at(a *Arena, i int, sel selector) math.Vec3 {
	return sel(a.Get(c.particles[i]))
}

// measure returns the raw geometric quantity the constraint controls:
// a length, an angle or a volume.
func (c *Constraint) measure(a *Arena, sel selector) float32 {
	switch c.kind {
	case KindDistance, KindFastBend:
		return c.at(a, 0, sel).Distance(c.at(a, 1, sel))
	case KindFixed:
		return c.at(a, 0, sel).Distance(c.target)
	case KindDihedralBend:
		return dihedralAngle(c.at(a, 0, sel), c.at(a, 1, sel), c.at(a, 2, sel), c.at(a, 3, sel))
	case KindVolume:
		return tetraVolume(c.at(a, 0, sel), c.at(a, 1, sel), c.at(a, 2, sel), c.at(a, 3, sel))
	case KindGlobalVolume:
		var v float32
		for i := 0; i+2 < len(c.triangles); i += 3 {
			t0 := c.at(a, int(c.triangles[i]), sel)
			t1 := c.at(a, int(c.triangles[i+1]), sel)
			t2 := c.at(a, int(c.triangles[i+2]), sel)
			v += t0.Dot(t1.Cross(t2)) / 6
		}
		return v
	case KindCollision:
		d, _ := c.contactDistance(a)
		return d
	}
	return 0
}

// contactDistance is the signed distance of q above the contact triangle's
// plane. ok is false for a degenerate triangle.
func (c *Constraint) contactDistance(a *Arena) (float32, bool) {
	q := c.at(a, 0, atPredicted)
	p1 := c.at(a, 1, atPredicted)
	p2 := c.at(a, 2, atPredicted)
	p3 := c.at(a, 3, atPredicted)

	n := p2.Sub(p1).Cross(p3.Sub(p1))
	if n.Length() < degenerateArea {
		return 0, false
	}
	return q.Sub(p1).Dot(n.Normalize()), true
}

// dihedralAngle returns the angle in [0, 2pi) between triangles
// (p0, p1, p2) and (p0, p1, p3), signed by the shared edge direction.
func dihedralAngle(p0, p1, p2, p3 math.Vec3) float32 {
	edge := p1.Sub(p0)
	n1 := edge.Cross(p2.Sub(p0)).Normalize()
	n2 := edge.Cross(p3.Sub(p0)).Normalize()

	phi := math.Acos(math.Clamp(n1.Dot(n2), -1, 1))
	if n1.Cross(n2).Dot(edge.Normalize()) < 0 {
		phi = 2*math32.Pi - phi
	}
	return phi
}

// tetraVolume is the signed volume of tetrahedron (p0, p1, p2, p3).
func tetraVolume(p0, p1, p2, p3 math.Vec3) float32 {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Dot(p3.Sub(p0)) / 6
}

// computeGradient fills c.gradient with dC/dx_i at the predicted positions.
// Degenerate configurations leave a zero gradient.
func (c *Constraint) computeGradient(a *Arena) {
	clear(c.gradient)

	switch c.kind {
	case KindDistance, KindFastBend:
		g := c.at(a, 0, atPredicted).Sub(c.at(a, 1, atPredicted)).Normalize()
		c.gradient[0] = g
		c.gradient[1] = g.Neg()

	case KindFixed:
		c.gradient[0] = c.at(a, 0, atPredicted).Sub(c.target).Normalize()

	case KindDihedralBend:
		c.dihedralGradient(a)

	case KindVolume:
		p0 := c.at(a, 0, atPredicted)
		p1 := c.at(a, 1, atPredicted)
		p2 := c.at(a, 2, atPredicted)
		p3 := c.at(a, 3, atPredicted)
		g1 := p2.Sub(p0).Cross(p3.Sub(p0)).Scale(1.0 / 6)
		g2 := p3.Sub(p0).Cross(p1.Sub(p0)).Scale(1.0 / 6)
		g3 := p1.Sub(p0).Cross(p2.Sub(p0)).Scale(1.0 / 6)
		c.gradient[0] = g1.Add(g2).Add(g3).Neg()
		c.gradient[1] = g1
		c.gradient[2] = g2
		c.gradient[3] = g3

	case KindGlobalVolume:
		for i := 0; i+2 < len(c.triangles); i += 3 {
			i0, i1, i2 := c.triangles[i], c.triangles[i+1], c.triangles[i+2]
			p0 := c.at(a, int(i0), atPredicted)
			p1 := c.at(a, int(i1), atPredicted)
			p2 := c.at(a, int(i2), atPredicted)
			c.gradient[i0] = c.gradient[i0].Add(p1.Cross(p2).Scale(1.0 / 6))
			c.gradient[i1] = c.gradient[i1].Add(p2.Cross(p0).Scale(1.0 / 6))
			c.gradient[i2] = c.gradient[i2].Add(p0.Cross(p1).Scale(1.0 / 6))
		}

	case KindCollision:
		p1 := c.at(a, 1, atPredicted)
		p2 := c.at(a, 2, atPredicted)
		p3 := c.at(a, 3, atPredicted)
		n := p2.Sub(p1).Cross(p3.Sub(p1))
		if n.Length() < degenerateArea {
			return
		}
		n = n.Normalize()
		// the triangle moves as a whole, opposite to q
		share := n.Scale(-1.0 / 3)
		c.gradient[0] = n
		c.gradient[1] = share
		c.gradient[2] = share
		c.gradient[3] = share
	}
}

func (c *Constraint) dihedralGradient(a *Arena) {
	p0 := c.at(a, 0, atPredicted)
	p1 := c.at(a, 1, atPredicted)
	p2 := c.at(a, 2, atPredicted)
	p3 := c.at(a, 3, atPredicted)

	el := p2.Sub(p0)
	em := p1.Sub(p0)
	er := p3.Sub(p0)

	n1 := em.Cross(el)
	n2 := em.Cross(er)
	l1 := n1.Length()
	l2 := n2.Length()
	if l1 == 0 || l2 == 0 {
		return
	}
	n1 = n1.Scale(1 / l1)
	n2 = n2.Scale(1 / l2)

	cosPhi := math.Clamp(n1.Dot(n2), -1, 1)
	cos2 := cosPhi * cosPhi
	if cos2 >= 1 {
		return
	}

	dAcos := -1 / math.Sqrt(1-cos2)
	if n1.Cross(n2).Dot(em) < 0 {
		dAcos = -dAcos
	}

	dp1 := er.Cross(n1).Add(n2.Cross(er).Scale(cosPhi)).Scale(1 / l2).
		Add(el.Cross(n2).Add(n1.Cross(el).Scale(cosPhi)).Scale(1 / l1))
	dp2 := n2.Cross(em).Sub(n1.Cross(em).Scale(cosPhi)).Scale(1 / l1)
	dp3 := n1.Cross(em).Sub(n2.Cross(em).Scale(cosPhi)).Scale(1 / l2)

	g1 := dp1.Scale(dAcos)
	g2 := dp2.Scale(dAcos)
	g3 := dp3.Scale(dAcos)

	c.gradient[0] = g1.Add(g2).Add(g3).Neg()
	c.gradient[1] = g1
	c.gradient[2] = g2
	c.gradient[3] = g3
}
