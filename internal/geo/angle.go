// Package geo holds the pure angle and distance math used by the predictor.
// Every function is stateless and safe for concurrent use.
//
// Bearings are degrees clockwise from north, normalized to [0, 360).
package geo

import "math"

const (
	fullCircle = 360.0
	halfCircle = 180.0
)

// Quaternion is a device orientation reading in [x, y, z, w] order.
type Quaternion [4]float64

// Normalize maps any finite angle into [0, 360).
// Non-finite input yields NaN.
func Normalize(degrees float64) float64 {
	r := math.Mod(degrees, fullCircle)
	if r < 0 {
		r += fullCircle
	}
	// A tiny negative remainder rounds up to exactly 360 after the shift.
	// Returning a literal 0 also drops the sign of -0.
	if r >= fullCircle || r == 0 {
		return 0
	}
	return r
}

// BearingFromVector converts an on-screen delta into a bearing where 0 is
// screen-up. Screen y grows downward. No domain inversion is applied; callers
// decide what a given direction means.
func BearingFromVector(dx, dy float64) float64 {
	return Normalize(toDegrees(math.Atan2(dy, dx)) + 90)
}

// BearingFromOrientation converts an absolute-orientation quaternion in the
// device reference frame into an azimuth.
func BearingFromOrientation(q Quaternion) float64 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	return Normalize(toDegrees(math.Atan2(2*(x*y+z*w), 1-2*(y*y+z*z))))
}

// AngularDifference returns the unsigned minimal separation of two bearings,
// in [0, 180]. It is correct across the 0/360 seam.
func AngularDifference(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > halfCircle {
		d = fullCircle - d
	}
	return d
}

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassPoint converts a bearing to an 8-point compass label.
func CompassPoint(bearing float64) string {
	idx := int((Normalize(bearing)+22.5)/45.0) % len(compassPoints)
	return compassPoints[idx]
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
