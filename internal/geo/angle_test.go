package geo

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertBearing compares bearings across the 0/360 seam.
func assertBearing(t *testing.T, want, got float64) {
	t.Helper()
	assert.Less(t, AngularDifference(want, got), 1e-9, "want %v, got %v", want, got)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{720, 0},
		{-90, 270},
		{-450, 270},
		{-3600, 0},
		{359.5, 359.5},
		{-0.5, 359.5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g", tt.in), func(t *testing.T) {
			assert.InDelta(t, tt.want, Normalize(tt.in), 1e-9)
		})
	}
}

func TestNormalize_AlwaysInRange(t *testing.T) {
	inputs := []float64{-1e-15, 1e-15, -1e300, 1e300, -123456789.123, 987654321.5, -360, math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64}
	for _, in := range inputs {
		got := Normalize(in)
		assert.GreaterOrEqual(t, got, 0.0, "Normalize(%g)", in)
		assert.Less(t, got, 360.0, "Normalize(%g)", in)
	}
}

func TestNormalize_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(Normalize(math.Inf(1))))
	assert.True(t, math.IsNaN(Normalize(math.NaN())))
}

func TestAngularDifference(t *testing.T) {
	tests := []struct {
		a, b float64
		want float64
	}{
		{10, 350, 20},
		{350, 10, 20},
		{0, 180, 180},
		{0, 0, 0},
		{90, 270, 180},
		{359, 1, 2},
		{-10, 10, 20},
		{725, 5, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g-%g", tt.a, tt.b), func(t *testing.T) {
			assert.InDelta(t, tt.want, AngularDifference(tt.a, tt.b), 1e-9)
		})
	}
}

func TestAngularDifference_SymmetricAndBounded(t *testing.T) {
	for a := -720.0; a <= 720; a += 37.5 {
		for b := -720.0; b <= 720; b += 41 {
			d := AngularDifference(a, b)
			assert.Equal(t, d, AngularDifference(b, a))
			assert.GreaterOrEqual(t, d, 0.0)
			assert.LessOrEqual(t, d, 180.0)
		}
	}
}

func TestBearingFromVector(t *testing.T) {
	// Screen y grows downward; 0 is screen-up.
	tests := []struct {
		name   string
		dx, dy float64
		want   float64
	}{
		{"up", 0, -1, 0},
		{"right", 1, 0, 90},
		{"down", 0, 1, 180},
		{"left", -1, 0, 270},
		{"up-right", 1, -1, 45},
		{"down-left", -3, 3, 225},
		{"up-left", -2, -2, 315},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertBearing(t, tt.want, BearingFromVector(tt.dx, tt.dy))
		})
	}
}

func TestBearingFromOrientation(t *testing.T) {
	// A yaw of theta about z is [0, 0, sin(theta/2), cos(theta/2)].
	yaw := func(deg float64) Quaternion {
		half := toRadians(deg) / 2
		return Quaternion{0, 0, math.Sin(half), math.Cos(half)}
	}

	assertBearing(t, 0, BearingFromOrientation(Quaternion{0, 0, 0, 1}))
	assertBearing(t, 90, BearingFromOrientation(yaw(90)))
	assertBearing(t, 180, BearingFromOrientation(yaw(180)))
	assertBearing(t, 270, BearingFromOrientation(yaw(-90)))
	assertBearing(t, 30, BearingFromOrientation(yaw(30)))

	got := BearingFromOrientation(yaw(-45))
	assert.GreaterOrEqual(t, got, 0.0)
	assertBearing(t, 315, got)
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{360, "N"},
		{22, "N"},
		{23, "NE"},
		{-10, "N"},
		{-60, "NW"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f degrees", tt.bearing), func(t *testing.T) {
			assert.Equal(t, tt.expected, CompassPoint(tt.bearing))
		})
	}
}

func TestNormalize_NegativeZero(t *testing.T) {
	negZero := math.Copysign(0, -1)

	assert.False(t, math.Signbit(Normalize(negZero)))
	assert.False(t, math.Signbit(Normalize(-360)))
	assert.False(t, math.Signbit(BearingFromOrientation(Quaternion{1, negZero, negZero, 1})))
}

func TestBearingFromOrientation_Overflow(t *testing.T) {
	// The products overflow to +Inf and -Inf, which sum to NaN.
	assert.True(t, math.IsNaN(BearingFromOrientation(Quaternion{1e200, 1e200, 1e200, -1e200})))
}
