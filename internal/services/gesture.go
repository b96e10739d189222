package services

import (
	"city-direction-service/internal/domain"
	"city-direction-service/internal/geo"
)

// DefaultMinSwipeLength is the shortest swipe, in screen pixels, that counts
// as a directional gesture.
const DefaultMinSwipeLength = 100.0

// Interpret a swipe from start to end as a screen-relative bearing.
// Swipes not longer than minLength are not directional gestures and report
// ok=false; they must not reach the heading aggregator.
func GestureBearing(start, end domain.Point, minLength float64) (bearing float64, ok bool) {
	if start.DistanceTo(end) <= minLength {
		return 0, false
	}
	dx, dy := start.To(end)
	return geo.BearingFromVector(dx, dy), true
}
