package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"city-direction-service/internal/api/dto"
	"city-direction-service/internal/domain"
	"city-direction-service/internal/geo"
	"city-direction-service/internal/logger"
)

const maxBodyBytes = 1 << 20

// writeJSON encodes before writing the header so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		buf.Reset()
		buf.WriteString(`{"error":"internal server error"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func predictionResponse(bearing float64, p *domain.Prediction) dto.PredictionResponse {
	res := dto.PredictionResponse{
		Bearing: bearing,
		Compass: geo.CompassPoint(bearing),
	}
	if p == nil {
		return res
	}

	dist := p.DistanceKm
	dev := p.AngularDeviation
	res.Match = true
	res.Capital = p.City.Capital
	res.DistanceKm = &dist
	res.AngularDeviation = &dev
	return res
}
