// Package geofence holds the pure containment maths for circular farm
// boundaries. Everything here is stateless; callers pass coordinates in and
// get answers out, which keeps the breach decision trivially testable.
package geofence

import "math"

// EarthRadiusM is the spherical Earth radius used for great-circle distances.
const EarthRadiusM = 6371000.0

// Distance returns the haversine distance in meters between two
// latitude/longitude points.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// IsOutside reports whether the point lies strictly beyond the circular
// boundary centered at (centerLat, centerLng) with the given radius in meters.
func IsOutside(lat, lng, centerLat, centerLng, radiusM float64) bool {
	return Distance(lat, lng, centerLat, centerLng) > radiusM
}

// Point is a latitude/longitude vertex of a display polygon.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BoundaryPolygon approximates the circular boundary as an n-vertex ring for
// map rendering. Display-only: containment decisions always go through
// IsOutside, never through this polygon.
func BoundaryPolygon(centerLat, centerLng, radiusM float64, n int) []Point {
	if n < 3 {
		n = 64
	}
	latRad := centerLat * math.Pi / 180
	dLat := radiusM / EarthRadiusM * 180 / math.Pi
	dLng := dLat / math.Cos(latRad)

	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		points = append(points, Point{
			Lat: centerLat + dLat*math.Sin(theta),
			Lng: centerLng + dLng*math.Cos(theta),
		})
	}
	return points
}
