package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-softbody/internal/logger"
	"github.com/Faultbox/midgard-softbody/internal/physics"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// demo is the scene used when no file is given: a ball dropping onto a
// cloth held by its corners above the floor.
const demo = `
[scene]
name = demo
gravity = true

[camera]
target = 0 5 0
distance = 20
pitch = 0.35

[body "0-ground"]
shape = ground

[body "1-carpet"]
shape = carpet
position = 0 2 0
pin = corners

[body "2-ball"]
shape = sphere
position = 0 9 0
`

// Default returns the built-in demo scene.
func Default() *File {
	f, err := Parse(demo)
	if err != nil {
		panic(fmt.Sprintf("built-in scene: %v", err))
	}
	return f
}

// Build creates every body of f in the solver's arena and registers it,
// in BodyNames order.
func (f *File) Build(s *physics.Solver) ([]*physics.Body, error) {
	log := logger.Named("scene")

	bodies := make([]*physics.Body, 0, len(f.Body))
	for _, name := range f.BodyNames() {
		cfg := f.Body[name]
		b, err := NewBody(s.Arena(), name, cfg)
		if err != nil {
			return nil, err
		}
		if err := s.AddBody(b); err != nil {
			return nil, err
		}
		if err := b.SetCollisionLevel(cfg.CollisionLevel); err != nil {
			return nil, fmt.Errorf("body %q: %w", name, err)
		}
		bodies = append(bodies, b)

		log.Debug("scene body",
			zap.String("name", name),
			zap.String("shape", cfg.Shape),
			zap.Float32("mass", b.Mass()),
			zap.Bool("enabled", b.Enabled()))
	}
	return bodies, nil
}

// CameraTarget returns the camera focus point.
func (f *File) CameraTarget() math.Vec3 {
	return f.Camera.Target.Or(math.V3(0, 5, 0))
}

// CameraDistance returns the orbit radius.
func (f *File) CameraDistance() float32 {
	if f.Camera.Distance > 0 {
		return float32(f.Camera.Distance)
	}
	return 20
}
