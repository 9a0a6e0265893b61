package physics

import (
	"github.com/aquilax/go-perlin"

	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// Gravity is the standard downward acceleration.
var Gravity = math.V3(0, -9.81, 0)

// Field produces an acceleration applied to every particle.
type Field interface {
	ComputeAcceleration() math.Vec3
}

// Advancer is implemented by time-varying fields. The solver advances them
// once per Solve, before forces are accumulated.
type Advancer interface {
	Advance(dt float32)
}

// UniformField applies the same acceleration everywhere.
type UniformField struct {
	Acceleration math.Vec3
}

// NewUniformField creates a constant acceleration field.
func NewUniformField(acceleration math.Vec3) *UniformField {
	return &UniformField{Acceleration: acceleration}
}

// ComputeAcceleration implements Field.
func (f *UniformField) ComputeAcceleration() math.Vec3 {
	return f.Acceleration
}

// Perlin noise parameters for gusts.
const (
	gustAlpha   = 2
	gustBeta    = 2
	gustOctaves = 3
)

// GustField is a wind blowing along a fixed direction whose strength
// fluctuates over time following 1D Perlin noise.
type GustField struct {
	direction math.Vec3
	strength  float32
	frequency float32

	noise *perlin.Perlin
	time  float64
}

// NewGustField creates a wind along direction with a mean magnitude of
// strength. frequency controls how fast gusts come and go.
func NewGustField(direction math.Vec3, strength, frequency float32, seed int64) *GustField {
	return &GustField{
		direction: direction.Normalize(),
		strength:  strength,
		frequency: frequency,
		noise:     perlin.NewPerlin(gustAlpha, gustBeta, gustOctaves, seed),
	}
}

// Advance moves the noise sample forward.
func (g *GustField) Advance(dt float32) {
	g.time += float64(dt * g.frequency)
}

// ComputeAcceleration implements Field. The magnitude never goes negative,
// so the wind never reverses.
func (g *GustField) ComputeAcceleration() math.Vec3 {
	gust := 1 + 2*float32(g.noise.Noise1D(g.time))
	return g.direction.Scale(g.strength * max(gust, 0))
}
