package dto

type CreateSessionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type OrientationRequest struct {
	// [x, y, z, w]
	Quaternion []float64 `json:"quaternion"`
}

type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type GestureRequest struct {
	Start *PointRequest `json:"start"`
	End   *PointRequest `json:"end"`
}

type SessionResponse struct {
	ID              string              `json:"id"`
	Stage           string              `json:"stage"`
	Latitude        float64             `json:"latitude"`
	Longitude       float64             `json:"longitude"`
	DeviceHeading   float64             `json:"device_heading"`
	GestureHeading  *float64            `json:"gesture_heading,omitempty"`
	ResolvedBearing *float64            `json:"resolved_bearing,omitempty"`
	Prediction      *PredictionResponse `json:"prediction,omitempty"`
}
