package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"city-direction-service/internal/adapters/repositories"
	"city-direction-service/internal/config"
	logpkg "city-direction-service/internal/logger"
	"city-direction-service/internal/platform/db"
)

// dbtool creates the cities table and seeds it from the JSON catalog.
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

	if cfg.Database.URL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	conn, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", cfg.Catalog.Path)

	logger.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	logger.Info("Schema ready.")

	logger.Info("Seeding cities...", zap.String("path", seedPath))
	n, err := repositories.SeedFromJSON(ctx, conn, seedPath)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("Seeding complete.", zap.Int("cities", n))
}
