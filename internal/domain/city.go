package domain

// A catalog entry: a capital city and where it is.
// Entries are created in bulk when a catalog loads and never mutated.
type City struct {
	Coordinates Coordinates
	Capital     string
}

// The winning candidate of a prediction.
// AngularDeviation is the minimal separation in degrees between the city's
// bearing from the user and the query bearing. DistanceKm is rounded to
// whole kilometres.
type Prediction struct {
	City             City
	AngularDeviation float64
	DistanceKm       int
}
