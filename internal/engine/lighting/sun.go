// Package lighting provides the directional light of the viewer.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-softbody/pkg/math"
)

// Default sun placement, in degrees.
const (
	DefaultLongitude = 35
	DefaultLatitude  = 55
)

// SunDirection converts longitude (rotation around +Y) and latitude
// (elevation above the horizon), both in degrees, to a unit vector pointing
// towards the sun.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180
	return math.V3(
		math32.Cos(lat)*math32.Sin(lon),
		math32.Sin(lat),
		math32.Cos(lat)*math32.Cos(lon),
	)
}

// LightDirection is the direction sunlight travels in.
func LightDirection(longitude, latitude float32) math.Vec3 {
	return SunDirection(longitude, latitude).Neg()
}
