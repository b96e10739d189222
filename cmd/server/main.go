package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"city-direction-service/internal/adapters/repositories"
	"city-direction-service/internal/api"
	"city-direction-service/internal/catalog"
	"city-direction-service/internal/config"
	logpkg "city-direction-service/internal/logger"
	"city-direction-service/internal/metrics"
	"city-direction-service/internal/platform/db"
	"city-direction-service/internal/ports"
	"city-direction-service/internal/services"
)

// main is the application composition root.
// It wires the catalog source (Postgres or JSON file) behind its port and
// starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logpkg.ContextWithLogger(ctx, logger)

	metrics.Register()

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		logger.Fatal("open catalog source", zap.Error(err))
	}
	defer closeSource()

	// A malformed catalog is fatal at startup; predictions need one.
	catalogs := catalog.NewStore(nil)
	if _, err := services.ReloadCatalog(ctx, source, catalogs); err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	predictor := services.NewPredictor(catalogs, cfg.Prediction.AngleThresholdDeg)
	sessions := services.NewSessionStore(predictor, services.SessionStoreConfig{
		MinSwipeLength: cfg.Gesture.MinSwipeLength,
		TTL:            cfg.Sessions.TTL(),
	})
	go sessions.RunSweeper(ctx, cfg.Sessions.SweepInterval())

	router := api.NewRouter(api.Deps{
		Catalogs:  catalogs,
		Source:    source,
		Predictor: predictor,
		Sessions:  sessions,
		Logger:    logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Server listening",
			zap.String("addr", addr),
			zap.String("env", cfg.Env),
			zap.Float64("angle_threshold_deg", predictor.Threshold()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// openSource picks Postgres when a database URL is configured, otherwise the
// JSON catalog file.
func openSource(ctx context.Context, cfg config.Config) (ports.CitySource, func(), error) {
	if cfg.Database.URL == "" {
		return repositories.NewJSONCitySource(cfg.Catalog.Path), func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("open source: %w", err)
	}
	return repositories.NewSQLCityRepository(conn), func() { _ = conn.Close() }, nil
}
