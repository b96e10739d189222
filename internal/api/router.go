package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"city-direction-service/internal/api/handlers"
	"city-direction-service/internal/catalog"
	"city-direction-service/internal/metrics"
	"city-direction-service/internal/ports"
	"city-direction-service/internal/services"
)

// Dependencies of the HTTP surface.
type Deps struct {
	Catalogs  *catalog.Store
	Source    ports.CitySource
	Predictor *services.Predictor
	Sessions  *services.SessionStore
	Logger    *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	cityHandler := &handlers.CityHandler{Catalogs: d.Catalogs, Source: d.Source}
	predictionHandler := &handlers.PredictionHandler{Predictor: d.Predictor}
	sessionHandler := &handlers.SessionHandler{Sessions: d.Sessions}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(d.Logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(loggingMiddleware(d.Logger))
	r.Use(metrics.Middleware())

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/cities", cityHandler.List)
	r.Post("/catalog/reload", cityHandler.Reload)
	r.Post("/predictions", predictionHandler.Predict)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessionHandler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Delete)
			r.Post("/ready", sessionHandler.Ready)
			r.Post("/orientation", sessionHandler.Orientation)
			r.Post("/gesture", sessionHandler.Gesture)
			r.Post("/approve", sessionHandler.Approve)
			r.Post("/deny", sessionHandler.Deny)
		})
	})

	return r
}
