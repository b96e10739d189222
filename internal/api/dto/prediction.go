package dto

type PredictionRequest struct {
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Bearing        *float64 `json:"bearing"`
	AngleThreshold *float64 `json:"angle_threshold"`
}

// PredictionResponse carries either a city or match=false.
type PredictionResponse struct {
	Match            bool     `json:"match"`
	Capital          string   `json:"capital,omitempty"`
	DistanceKm       *int     `json:"distance_km,omitempty"`
	AngularDeviation *float64 `json:"angular_deviation,omitempty"`
	Bearing          float64  `json:"bearing"`
	Compass          string   `json:"compass"`
}
