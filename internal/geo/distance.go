package geo

import (
	"math"

	"city-direction-service/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the Haversine great-circle distance between a and b.
// The atan2 form keeps precision near antipodal points.
func DistanceKm(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h slightly past 1 for antipodes.
	h = math.Min(math.Max(h, 0), 1)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TrueBearing returns the bearing from one point toward another.
//
// This is a flat-plane approximation: the latitude and longitude deltas are
// treated as planar north/east offsets. It is close for short, regional
// distances but drifts for long distances, at high latitudes, and across the
// antimeridian. Prediction results depend on this exact behavior, so it is
// kept instead of the spherical initial-bearing formula.
func TrueBearing(from, to domain.Coordinates) float64 {
	dLat := to.Lat - from.Lat
	dLon := to.Lon - from.Lon
	return Normalize(toDegrees(math.Atan2(dLon, dLat)))
}
