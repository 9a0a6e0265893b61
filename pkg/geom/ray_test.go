package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/midgard-softbody/pkg/math"
)

func TestRayTriangle(t *testing.T) {
	t0 := math.V3(0, 0, 0)
	t1 := math.V3(1, 0, 0)
	t2 := math.V3(0, 0, 1)

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		param float32
	}{
		{"down through face", Ray{Origin: math.V3(0.25, 1, 0.25), Direction: math.V3(0, -1, 0)}, true, 1},
		{"up through face", Ray{Origin: math.V3(0.25, -2, 0.25), Direction: math.V3(0, 1, 0)}, true, 2},
		{"outside", Ray{Origin: math.V3(0.9, 1, 0.9), Direction: math.V3(0, -1, 0)}, false, 0},
		{"parallel", Ray{Origin: math.V3(0.25, 0, -1), Direction: math.V3(0, 0, 1)}, false, 0},
		{"behind", Ray{Origin: math.V3(0.25, 1, 0.25), Direction: math.V3(0, 1, 0)}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RayTriangle(tt.ray, t0, t1, t2)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.InDelta(t, tt.param, got, 1e-5)
				assert.InDelta(t, 0, tt.ray.At(got).Y, 1e-5)
			}
		})
	}
}
