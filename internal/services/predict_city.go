package services

import (
	"math"

	"city-direction-service/internal/catalog"
	"city-direction-service/internal/domain"
	"city-direction-service/internal/geo"
)

// DefaultAngleThreshold is the widest angular deviation, in degrees, a city
// may have from the query bearing and still be a candidate.
const DefaultAngleThreshold = 20.0

type candidate struct {
	city      domain.City
	deviation float64
}

// Predict the city the user is pointing at.
//
// Angular alignment is the primary key: a far but exactly aligned city beats
// a near one that is off-axis. Distance only breaks ties among cities sharing
// the minimum deviation, and catalog order breaks exact distance ties.
// The second result is false when no city deviates less than threshold
// (strictly) from bearing; that is an ordinary outcome, not a failure.
func PredictCity(
	user domain.Coordinates,
	bearing float64,
	cat *catalog.Catalog,
	threshold float64,
) (domain.Prediction, bool) {
	kept := make([]candidate, 0)
	minDeviation := math.Inf(1)

	for _, city := range cat.All() {
		dev := geo.AngularDifference(geo.TrueBearing(user, city.Coordinates), bearing)
		if !(dev < threshold) {
			continue
		}
		kept = append(kept, candidate{city: city, deviation: dev})
		if dev < minDeviation {
			minDeviation = dev
		}
	}

	if len(kept) == 0 {
		return domain.Prediction{}, false
	}

	var (
		best         candidate
		bestDistance = math.Inf(1)
		found        bool
	)

	// Distances are only computed for the finalists.
	for _, c := range kept {
		if c.deviation != minDeviation {
			continue
		}
		d := geo.DistanceKm(user, c.city.Coordinates)
		// Strict less-than keeps the earliest catalog entry on exact ties.
		if !found || d < bestDistance {
			best = c
			bestDistance = d
			found = true
		}
	}

	return domain.Prediction{
		City:             best.city,
		AngularDeviation: best.deviation,
		DistanceKm:       int(math.Round(bestDistance)),
	}, true
}
