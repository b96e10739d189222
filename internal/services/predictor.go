package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"city-direction-service/internal/catalog"
	"city-direction-service/internal/domain"
	"city-direction-service/internal/logger"
	"city-direction-service/internal/metrics"
)

// Predictor runs PredictCity against the current catalog snapshot.
// Safe for concurrent use.
type Predictor struct {
	catalogs  *catalog.Store
	threshold float64
}

func NewPredictor(catalogs *catalog.Store, threshold float64) *Predictor {
	if threshold <= 0 {
		threshold = DefaultAngleThreshold
	}
	return &Predictor{catalogs: catalogs, threshold: threshold}
}

func (p *Predictor) Threshold() float64 { return p.threshold }

// Predict uses the configured angle threshold.
func (p *Predictor) Predict(ctx context.Context, user domain.Coordinates, bearing float64) (domain.Prediction, bool) {
	return p.PredictWithThreshold(ctx, user, bearing, p.threshold)
}

func (p *Predictor) PredictWithThreshold(
	ctx context.Context,
	user domain.Coordinates,
	bearing float64,
	threshold float64,
) (domain.Prediction, bool) {
	start := time.Now()
	snapshot := p.catalogs.Current()

	pred, ok := PredictCity(user, bearing, snapshot, threshold)

	metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	log := logger.FromContext(ctx)
	if !ok {
		metrics.PredictionsTotal.WithLabelValues("no_match").Inc()
		log.Debug("no city in direction",
			zap.Float64("bearing", bearing),
			zap.Float64("threshold", threshold),
			zap.Int("catalog_size", snapshot.Len()),
		)
		return pred, false
	}

	metrics.PredictionsTotal.WithLabelValues("match").Inc()
	log.Debug("predicted city",
		zap.String("capital", pred.City.Capital),
		zap.Int("distance_km", pred.DistanceKm),
		zap.Float64("angular_deviation", pred.AngularDeviation),
		zap.Float64("bearing", bearing),
	)
	return pred, true
}
