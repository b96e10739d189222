package repositories

import (
	"context"
	"fmt"
	"os"

	"city-direction-service/internal/catalog"
	"city-direction-service/internal/platform/obs"
)

// File-backed implementation of the CitySource port.
// The file is re-read on every call so reloads pick up edits.
type JSONCitySource struct {
	Path string
}

func NewJSONCitySource(path string) *JSONCitySource {
	return &JSONCitySource{Path: path}
}

func (s *JSONCitySource) ListCities(ctx context.Context) (_ []catalog.RawCity, err error) {
	defer obs.Time(ctx, "cities.json.List")(&err)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("list cities: read %q: %w", s.Path, err)
	}

	records, err := catalog.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("list cities: %q: %w", s.Path, err)
	}
	return records, nil
}
