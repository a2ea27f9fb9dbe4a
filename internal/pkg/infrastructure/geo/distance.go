package geo

import (
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/golang/geo/s2"
)

const EarthRadiusMeters float64 = 6371008.8

// Distance returns the great-circle distance in meters between a and b.
// Identical coordinates give exactly zero.
func Distance(a, b types.Position) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}
