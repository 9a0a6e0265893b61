package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-softbody/internal/physics"
	"github.com/Faultbox/midgard-softbody/pkg/geom"
	"github.com/Faultbox/midgard-softbody/pkg/math"
)

const small = `
[scene]
name = small
wind = true

[body "floor"]
shape = ground
scale = 10

[body "cloth"]
shape = carpet
resolution = 6
position = 0 1.5 0
pin = corners
stretch-compliance = 0.05
collision-level = 1

[body "ball"]
shape = sphere
resolution = 1
position = 1 4 -1
mass = 2
bending = dihedral
pressure = 1.5
`

func TestParseDefault(t *testing.T) {
	f := Default()
	assert.Equal(t, "demo", f.Scene.Name)
	assert.True(t, f.Scene.Gravity)
	assert.False(t, f.Scene.Wind)
	assert.Equal(t, []string{"0-ground", "1-carpet", "2-ball"}, f.BodyNames())
	assert.Equal(t, math.V3(0, 5, 0), f.CameraTarget())
	assert.Equal(t, float32(20), f.CameraDistance())

	carpet := f.Body["1-carpet"]
	assert.Equal(t, "carpet", carpet.Shape)
	assert.Equal(t, PinCorners, carpet.Pin)
	assert.Equal(t, math.V3(0, 2, 0), carpet.Position.Vec3)
}

func TestParseSmall(t *testing.T) {
	f, err := Parse(small)
	require.NoError(t, err)

	assert.True(t, f.Scene.Wind)
	assert.True(t, f.Scene.Gravity)
	assert.Equal(t, []string{"ball", "cloth", "floor"}, f.BodyNames())

	floor := f.Body["floor"]
	assert.True(t, floor.Scale.Set)
	assert.Equal(t, math.Splat(10), floor.Scale.Vec3)
	assert.False(t, floor.Position.Set)

	cloth := f.Body["cloth"]
	assert.Equal(t, 6, cloth.Resolution)
	assert.Equal(t, 0.05, cloth.StretchCompliance)
	assert.Equal(t, 1, cloth.CollisionLevel)

	ball := f.Body["ball"]
	assert.Equal(t, math.V3(1, 4, -1), ball.Position.Vec3)
	assert.Equal(t, BendingDihedral, ball.Bending)
	assert.Equal(t, 1.5, ball.Pressure)

	// unset sections fall back to defaults
	assert.Equal(t, math.V3(0, 5, 0), f.CameraTarget())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"unknown shape", "[body \"x\"]\nshape = cube\n", ErrUnknownShape},
		{"missing shape", "[body \"x\"]\nmass = 1\n", ErrUnknownShape},
		{"negative mass", "[body \"x\"]\nshape = sphere\nmass = -1\n", ErrInvalidBody},
		{"bad pin", "[body \"x\"]\nshape = carpet\npin = edges\n", ErrInvalidBody},
		{"bad bending", "[body \"x\"]\nshape = carpet\nbending = soft\n", ErrInvalidBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseBadVector(t *testing.T) {
	_, err := Parse("[body \"x\"]\nshape = sphere\nposition = 1 2\n")
	assert.Error(t, err)

	_, err = Parse("[body \"x\"]\nshape = sphere\nposition = 1 a 2\n")
	assert.Error(t, err)
}

func TestVectorUnmarshal(t *testing.T) {
	var v Vector
	require.NoError(t, v.UnmarshalText([]byte("  1.5\t-2 3 ")))
	assert.True(t, v.Set)
	assert.Equal(t, math.V3(1.5, -2, 3), v.Vec3)

	require.NoError(t, v.UnmarshalText([]byte("4")))
	assert.Equal(t, math.Splat(4), v.Vec3)

	var unset Vector
	assert.Equal(t, math.V3(7, 7, 7), unset.Or(math.Splat(7)))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.ini")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", f.Scene.Name)
	assert.Len(t, f.Body, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	f, err := Parse(small)
	require.NoError(t, err)

	s, err := physics.NewSolver()
	require.NoError(t, err)
	bodies, err := f.Build(s)
	require.NoError(t, err)
	require.Len(t, bodies, 3)
	assert.Equal(t, bodies, s.Bodies())

	ball, cloth, floor := bodies[0], bodies[1], bodies[2]

	assert.Equal(t, "floor", floor.Name())
	assert.Zero(t, floor.Mass())
	assert.Len(t, floor.Levels(), 1)
	assert.InDelta(t, 5, floor.Particle(3).Position.X, 1e-6)

	assert.Equal(t, 36, cloth.ParticleCount())
	assert.Len(t, cloth.Constraints(physics.KindFixed), 4)
	assert.Equal(t, 1, cloth.CollisionLevel())
	assert.Equal(t, float32(0.05), cloth.Constraints(physics.KindDistance)[0].Compliance())
	assert.InDelta(t, 1.5, cloth.Centroid().Y, 1e-5)

	assert.Equal(t, float32(2), ball.Mass())
	assert.True(t, ball.Closed())
	assert.NotEmpty(t, ball.Constraints(physics.KindDihedralBend))
	p, ok := ball.Pressure()
	assert.True(t, ok)
	assert.Equal(t, float32(1.5), p)
}

func TestBuildRejectsCollisionLevel(t *testing.T) {
	f, err := Parse("[body \"floor\"]\nshape = ground\ncollision-level = 2\n")
	require.NoError(t, err)

	s, err := physics.NewSolver()
	require.NoError(t, err)
	_, err = f.Build(s)
	assert.ErrorIs(t, err, physics.ErrInvalidCollisionLevel)
}

func TestFactories(t *testing.T) {
	a := physics.NewArena()

	ground := Ground(a)
	assert.Zero(t, ground.Mass())
	assert.Equal(t, 4, ground.ParticleCount())

	carpet := Carpet(a, 4, math.V3(0, 0.2, 0), false)
	assert.Empty(t, carpet.Constraints(physics.KindFixed))
	assert.Equal(t, 16, carpet.ParticleCount())

	pinned := Carpet(a, 4, math.V3(0, 2, 0), true)
	fixed := pinned.Constraints(physics.KindFixed)
	require.Len(t, fixed, 4)
	assert.Equal(t, pinned.Handle(15), fixed[3].Particles()[0])

	ball := Sphere(a, 1, math.V3(0, 9, 0))
	assert.Equal(t, 42, ball.ParticleCount())
	assert.InDelta(t, 9, ball.Centroid().Y, 1e-4)
}

func TestDisabledBody(t *testing.T) {
	b, err := NewBody(physics.NewArena(), "ball", &Body{Shape: "sphere", Resolution: 1, Disabled: true})
	require.NoError(t, err)
	assert.False(t, b.Enabled())

	_, err = NewBody(physics.NewArena(), "x", &Body{Shape: "torus"})
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestBodyRotation(t *testing.T) {
	f, err := Parse(`
[body "wall"]
shape = ground
position = 0 5 0
rotation = 0 0 90
scale = 10
`)
	require.NoError(t, err)
	wall := f.Body["wall"]
	assert.Equal(t, math.V3(0, 0, 90), wall.Rotation.Vec3)

	b, err := NewBody(physics.NewArena(), "wall", wall)
	require.NoError(t, err)

	// a quarter turn about Z stands the floor plane upright
	box := geom.Empty()
	for i := range int32(b.ParticleCount()) {
		box = box.ExpandPoint(b.Particle(i).Position)
	}
	assert.InDelta(t, 0, box.Max.X-box.Min.X, 1e-4)
	assert.InDelta(t, 0, box.Min.Y, 1e-4)
	assert.InDelta(t, 10, box.Max.Y, 1e-4)
	assert.InDelta(t, 10, box.Max.Z-box.Min.Z, 1e-4)
}
