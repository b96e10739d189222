package domain

import "math"

// A point in screen coordinates; Y grows downward.
type Point struct {
	X float64
	Y float64
}

// Delta from p to q.
func (p Point) To(q Point) (dx, dy float64) {
	return q.X - p.X, q.Y - p.Y
}

// Euclidean length of the segment from p to q.
func (p Point) DistanceTo(q Point) float64 {
	dx, dy := p.To(q)
	return math.Hypot(dx, dy)
}
