package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-softbody/internal/config"
	"github.com/Faultbox/midgard-softbody/internal/scene"
)

const testScene = `
[scene]
name = test

[body "ball"]
shape = sphere
resolution = 1
position = 0 3 0

[body "floor"]
shape = ground
`

func newTestSim(t *testing.T, text string) *Simulation {
	t.Helper()
	f, err := scene.Parse(text)
	require.NoError(t, err)

	cfg := config.Default().Simulation
	cfg.TimeStep = 0.25
	s, err := New(cfg, f)
	require.NoError(t, err)
	return s
}

func TestNewBuildsScene(t *testing.T) {
	s := newTestSim(t, testScene)

	require.Len(t, s.Bodies(), 2)
	assert.Equal(t, "ball", s.Bodies()[0].Name())
	assert.Len(t, s.Meshes(), 2)
	assert.Same(t, s.Bodies()[1].Mesh(), s.Meshes()[1])
	assert.True(t, s.GravityEnabled())
	assert.Len(t, s.Solver().Fields(), 1)
}

func TestWindFromScene(t *testing.T) {
	s := newTestSim(t, "[scene]\nname = windy\nwind = true\n\n[body \"floor\"]\nshape = ground\n")
	assert.Len(t, s.Solver().Fields(), 2)
}

func TestGravityNeedsConfigAndScene(t *testing.T) {
	f, err := scene.Parse(testScene)
	require.NoError(t, err)
	cfg := config.Default().Simulation
	cfg.GravityEnabled = false

	s, err := New(cfg, f)
	require.NoError(t, err)
	assert.False(t, s.GravityEnabled())
	assert.Empty(t, s.Solver().Fields())
}

func TestNewRejectsBadTimeStep(t *testing.T) {
	f, err := scene.Parse(testScene)
	require.NoError(t, err)

	for _, step := range []float32{0, -0.1} {
		cfg := config.Default().Simulation
		cfg.TimeStep = step
		_, err := New(cfg, f)
		assert.ErrorIs(t, err, ErrInvalidTimeStep)
	}
}

func TestAdvanceFixedStep(t *testing.T) {
	s := newTestSim(t, testScene)

	assert.Equal(t, 1, s.Advance(0.375))
	assert.Equal(t, 1, s.Frame())
	// 0.125 carried over
	assert.Equal(t, 1, s.Advance(0.125))
	assert.Equal(t, 0, s.Advance(0.125))
	assert.Equal(t, 2, s.Frame())

	// a long stall is capped
	assert.Equal(t, maxCatchUpSteps, s.Advance(100))
}

func TestPause(t *testing.T) {
	s := newTestSim(t, testScene)

	assert.True(t, s.TogglePause())
	assert.Equal(t, 0, s.Advance(1))
	assert.Equal(t, 0, s.Frame())

	s.Step()
	assert.Equal(t, 1, s.Frame(), "Step runs while paused")

	assert.False(t, s.TogglePause())
	assert.Positive(t, s.Advance(0.25))
}

func TestToggleGravity(t *testing.T) {
	s := newTestSim(t, testScene)

	assert.False(t, s.ToggleGravity())
	assert.False(t, s.GravityEnabled())
	before := s.Bodies()[0].Centroid()
	s.Step()
	assert.InDelta(t, before.Y, s.Bodies()[0].Centroid().Y, 1e-4)

	assert.True(t, s.ToggleGravity())
	s.Step()
	assert.Less(t, s.Bodies()[0].Centroid().Y, before.Y)
}

func TestAdjustPressure(t *testing.T) {
	s := newTestSim(t, testScene)
	ball := s.Bodies()[0]

	p, ok := ball.Pressure()
	require.True(t, ok)

	s.AdjustPressure(0.5)
	got, _ := ball.Pressure()
	assert.InDelta(t, p+0.5, got, 1e-6)

	s.AdjustPressure(-100)
	got, _ = ball.Pressure()
	assert.Zero(t, got)

	_, ok = s.Bodies()[1].Pressure()
	assert.False(t, ok, "ground has no volume constraint")
}

func TestShiftCollisionLevelClamps(t *testing.T) {
	s := newTestSim(t, testScene)
	ball, floor := s.Bodies()[0], s.Bodies()[1]

	s.ShiftCollisionLevel(10)
	assert.Equal(t, len(ball.DistanceLevels())-1, ball.CollisionLevel())
	assert.Equal(t, 0, floor.CollisionLevel())

	s.ShiftCollisionLevel(-10)
	assert.Equal(t, 0, ball.CollisionLevel())
}

func TestResetRestoresBodies(t *testing.T) {
	s := newTestSim(t, testScene)
	start := s.Stats()

	for range 4 {
		s.Step()
	}
	assert.NotEqual(t, start[0].Centroid, s.Stats()[0].Centroid)

	s.Reset()
	assert.Equal(t, 0, s.Frame())
	after := s.Stats()
	require.Len(t, after, len(start))
	assert.InDelta(t, start[0].Centroid.Y, after[0].Centroid.Y, 1e-5)
	assert.InDelta(t, start[0].Volume, after[0].Volume, 1e-5)
}

func TestStatsSkipsDisabled(t *testing.T) {
	s := newTestSim(t, testScene+"\n[body \"ghost\"]\nshape = sphere\nresolution = 1\ndisabled = true\n")

	require.Len(t, s.Bodies(), 3)
	stats := s.Stats()
	require.Len(t, stats, 2)
	for _, st := range stats {
		assert.NotEqual(t, "ghost", st.Name)
		assert.Len(t, st.Fields(), 4)
	}
	assert.Greater(t, stats[0].Volume, float32(0))
}
