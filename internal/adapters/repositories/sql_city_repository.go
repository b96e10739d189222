package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"city-direction-service/internal/catalog"
	"city-direction-service/internal/domain"
	"city-direction-service/internal/platform/obs"
)

// SQL-backed implementation of the CitySource port.
type SQLCityRepository struct {
	DB *sql.DB
}

func NewSQLCityRepository(db *sql.DB) *SQLCityRepository {
	return &SQLCityRepository{DB: db}
}

// Return all cities ordered by their catalog position.
func (s *SQLCityRepository) ListCities(ctx context.Context) (_ []catalog.RawCity, err error) {
	defer obs.Time(ctx, "cities.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql city repository: db is nil")
	}

	q := `
	SELECT capital, lon, lat
    FROM cities
    ORDER BY position;
	`

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list cities: query cities table: %w", err)
	}
	defer rows.Close()

	out := make([]catalog.RawCity, 0, 64)
	for rows.Next() {
		var capital string
		var c domain.Coordinates
		if err := rows.Scan(&capital, &c.Lon, &c.Lat); err != nil {
			return nil, fmt.Errorf("list cities: scan row: %w", err)
		}
		out = append(out, catalog.RawCity{
			Coordinates: c.CoordsToList(),
			Capital:     capital,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: row iteration: %w", err)
	}

	return out, nil
}

// Replace the stored catalog with records, keeping their order.
// Records are validated first; a malformed set leaves the table untouched.
func (s *SQLCityRepository) ReplaceAll(ctx context.Context, records []catalog.RawCity) (err error) {
	defer obs.Time(ctx, "cities.sql.ReplaceAll")(&err)

	if s.DB == nil {
		return errors.New("sql city repository: db is nil")
	}

	cat, err := catalog.Load(records)
	if err != nil {
		return fmt.Errorf("replace cities: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace cities: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cities;`); err != nil {
		return fmt.Errorf("replace cities: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO cities (position, capital, lon, lat)
    VALUES ($1, $2, $3, $4);
	`)
	if err != nil {
		return fmt.Errorf("replace cities: db prepare: %w", err)
	}
	defer stmt.Close()

	for i, c := range cat.Entries() {
		if _, err := stmt.ExecContext(ctx, i, c.Capital, c.Coordinates.Lon, c.Coordinates.Lat); err != nil {
			return fmt.Errorf("replace cities: insert position=%d capital=%q: %w", i, c.Capital, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace cities: commit: %w", err)
	}

	return nil
}
