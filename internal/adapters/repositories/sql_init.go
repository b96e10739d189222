package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"city-direction-service/internal/catalog"
)

// Initialize the database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCitiesQuery := `
	CREATE TABLE IF NOT EXISTS cities (
		position INTEGER PRIMARY KEY,
		capital TEXT NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_cities_capital
    ON cities(capital);
	`

	statements := []string{
		createCitiesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the cities table from a JSON catalog file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) (int, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed cities: read %q: %w", jsonPath, err)
	}

	records, err := catalog.DecodeJSON(data)
	if err != nil {
		return 0, fmt.Errorf("seed cities: %w", err)
	}

	if err := NewSQLCityRepository(db).ReplaceAll(ctx, records); err != nil {
		return 0, fmt.Errorf("seed cities: %w", err)
	}

	return len(records), nil
}
