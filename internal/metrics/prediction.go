package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prediction and catalog metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "citydir",
			Name:      "predictions_total",
			Help:      "Total number of predictions by result",
		},
		[]string{"result"}, // "match" / "no_match"
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "citydir",
			Name:      "prediction_duration_seconds",
			Help:      "Prediction duration in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	CatalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "citydir",
			Name:      "catalog_entries",
			Help:      "Number of cities in the current catalog snapshot",
		},
	)

	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "citydir",
			Name:      "catalog_reloads_total",
			Help:      "Catalog reload attempts by status",
		},
		[]string{"status"}, // "ok" / "error"
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "citydir",
			Name:      "sessions_active",
			Help:      "Number of live prediction sessions",
		},
	)

	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "citydir",
			Name:      "operation_duration_seconds",
			Help:      "Duration of internal operations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "status"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Safe to call
// more than once; call it from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PredictionsTotal,
			PredictionDuration,
			CatalogEntries,
			CatalogReloadsTotal,
			SessionsActive,
			OperationDuration,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
