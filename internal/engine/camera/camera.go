// Package camera provides the orbit camera of the viewer.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// Projection defaults.
const (
	DefaultFOV  = math32.Pi / 4
	DefaultNear = 0.1
	DefaultFar  = 500
)

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	FOV       float32
	Near, Far float32
}

// NewOrbitCamera creates an orbit camera looking at target from distance.
func NewOrbitCamera(target math.Vec3, distance float32) *OrbitCamera {
	return &OrbitCamera{
		Target:          target,
		Distance:        distance,
		Pitch:           0.35,
		MinDistance:     1,
		MaxDistance:     200,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             DefaultFOV,
		Near:            DefaultNear,
		Far:             DefaultFar,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cp := math32.Cos(c.Pitch)
	offset := math.V3(
		c.Distance*cp*math32.Sin(c.Yaw),
		c.Distance*math32.Sin(c.Pitch),
		c.Distance*cp*math32.Cos(c.Yaw),
	)
	return c.Target.Add(offset)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.V3(0, 1, 0))
}

// ProjectionMatrix returns the perspective projection for a viewport aspect
// ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.ProjectionMatrix(aspect).Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = math.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// FitToBounds centres the camera on box and backs off until it fits the
// field of view.
func (c *OrbitCamera) FitToBounds(box geom.AABB) {
	if box.IsEmpty() {
		return
	}
	c.Target = box.Center()
	radius := box.Size().Length() / 2
	c.Distance = math.Clamp(radius/math32.Sin(c.FOV/2), c.MinDistance, c.MaxDistance)
}
