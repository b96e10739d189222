package domain

// Immutable geographic coordinates in degrees.
// Out-of-range values are tolerated; math on them is meaningless but safe.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat], the order used by catalog records.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Build coordinates from a [lon, lat] pair.
func CoordinatesFromList(pair []float64) Coordinates {
	return Coordinates{Lon: pair[0], Lat: pair[1]}
}
