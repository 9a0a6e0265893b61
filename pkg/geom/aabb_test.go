package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/midgard-softbody/pkg/math"
)

func unitBox() AABB {
	return NewAABB(math.V3(0, 0, 0), math.V3(1, 1, 1))
}

func TestEmptyExpand(t *testing.T) {
	box := Empty()
	assert.True(t, box.IsEmpty())
	assert.Equal(t, float32(0), box.Volume())

	box = box.ExpandPoint(math.V3(1, 2, 3)).ExpandPoint(math.V3(-1, 0, 5))
	assert.False(t, box.IsEmpty())
	assert.Equal(t, math.V3(-1, 0, 3), box.Min)
	assert.Equal(t, math.V3(1, 2, 5), box.Max)
}

func TestNewAABBOrdersCorners(t *testing.T) {
	box := NewAABB(math.V3(1, -1, 2), math.V3(0, 3, -2))
	assert.Equal(t, math.V3(0, -1, -2), box.Min)
	assert.Equal(t, math.V3(1, 3, 2), box.Max)
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"overlap", NewAABB(math.V3(0.5, 0.5, 0.5), math.V3(2, 2, 2)), true},
		{"touching", NewAABB(math.V3(1, 0, 0), math.V3(2, 1, 1)), true},
		{"inside", NewAABB(math.V3(0.2, 0.2, 0.2), math.V3(0.4, 0.4, 0.4)), true},
		{"apart", NewAABB(math.V3(1.1, 0, 0), math.V3(2, 1, 1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unitBox().Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(unitBox()))
		})
	}
}

func TestIntersection(t *testing.T) {
	a := unitBox()
	b := NewAABB(math.V3(0.5, -1, 0.25), math.V3(3, 0.5, 0.75))

	got, ok := Intersection(a, b)
	assert.True(t, ok)
	assert.Equal(t, math.V3(0.5, 0, 0.25), got.Min)
	assert.Equal(t, math.V3(1, 0.5, 0.75), got.Max)

	_, ok = Intersection(a, NewAABB(math.V3(5, 5, 5), math.V3(6, 6, 6)))
	assert.False(t, ok)
}

func TestIntersectsTriangle(t *testing.T) {
	box := unitBox()
	assert.True(t, box.IntersectsTriangle(math.V3(0.5, 0.5, -1), math.V3(0.5, 0.5, 2), math.V3(2, 0.5, 0.5)))
	assert.False(t, box.IntersectsTriangle(math.V3(3, 3, 3), math.V3(4, 3, 3), math.V3(3, 4, 3)))
}

func TestIntersectsRay(t *testing.T) {
	box := unitBox()
	assert.True(t, box.IntersectsRay(Ray{Origin: math.V3(0.5, 0.5, -5), Direction: math.V3(0, 0, 1)}))
	assert.True(t, box.IntersectsRay(Ray{Origin: math.V3(-1, -1, -1), Direction: math.V3(1, 1, 1).Normalize()}))
	assert.False(t, box.IntersectsRay(Ray{Origin: math.V3(2, 0.5, -5), Direction: math.V3(0, 0, 1)}))
	assert.False(t, box.IntersectsRay(Ray{Origin: math.V3(-1, 3, 0.5), Direction: math.V3(1, 0, 0)}))
}

func TestContainsAndExpandBy(t *testing.T) {
	box := unitBox()
	assert.True(t, box.Contains(math.V3(1, 1, 1)))
	assert.False(t, box.Contains(math.V3(1.1, 0.5, 0.5)))

	padded := box.ExpandBy(0.2)
	assert.True(t, padded.Contains(math.V3(1.1, 0.5, 0.5)))
	assert.InDelta(t, 1.4*1.4*1.4, padded.Volume(), 1e-4)
	assert.Equal(t, math.V3(0.5, 0.5, 0.5), padded.Center())
}

func TestFromPositions(t *testing.T) {
	positions := []float32{0, 0, 0, 1, 2, 3, -1, 0, 1}
	box := FromPositions(positions, math.Translate(10, 0, 0))
	assert.Equal(t, math.V3(9, 0, 0), box.Min)
	assert.Equal(t, math.V3(11, 2, 3), box.Max)

	merged := box.ExpandBox(NewAABB(math.V3(0, 0, 0), math.V3(1, 1, 1)))
	assert.Equal(t, math.V3(0, 0, 0), merged.Min)
}
