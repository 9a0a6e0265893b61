package physics

import "github.com/Faultbox/midgard-softbody/internal/mesh"

// NewRigidBody creates a body without internal constraints. A zero mass
// makes it immovable.
func NewRigidBody(a *Arena, m *mesh.Mesh, mass float32) *Body {
	return newBody(a, m, mass)
}
