package handlers

import (
	"net/http"

	"city-direction-service/internal/api/dto"
	"city-direction-service/internal/domain"
	"city-direction-service/internal/geo"
	"city-direction-service/internal/services"
)

type PredictionHandler struct {
	Predictor *services.Predictor
}

// Predict answers a one-shot query with an already resolved bearing.
// "No city in that direction" is a 200 with match=false.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, r, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	if req.Bearing == nil {
		writeError(w, r, http.StatusBadRequest, "bearing is required")
		return
	}

	threshold := h.Predictor.Threshold()
	if req.AngleThreshold != nil {
		threshold = *req.AngleThreshold
		if threshold <= 0 || threshold > 180 {
			writeError(w, r, http.StatusBadRequest, "angle_threshold must be in (0, 180]")
			return
		}
	}

	user := domain.Coordinates{Lon: *req.Longitude, Lat: *req.Latitude}
	bearing := geo.Normalize(*req.Bearing)

	pred, ok := h.Predictor.PredictWithThreshold(r.Context(), user, bearing, threshold)
	if !ok {
		writeJSON(w, r, http.StatusOK, predictionResponse(bearing, nil))
		return
	}
	writeJSON(w, r, http.StatusOK, predictionResponse(bearing, &pred))
}
