// Package catalog holds the immutable, ordered list of candidate cities.
package catalog

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"slices"
	"strings"

	"city-direction-service/internal/domain"
)

// RawCity is one catalog record as delivered by a data source.
// Coordinates are a [lon, lat] pair.
type RawCity struct {
	Coordinates []float64 `json:"coordinates"`
	Capital     string    `json:"capital"`
}

// Catalog is an immutable ordered sequence of cities. Order is preserved
// exactly as loaded; it decides exact distance ties during prediction.
type Catalog struct {
	entries []domain.City
}

// Load validates every record and builds a catalog. Any malformed record
// fails the whole load with a *DataFormatError; there are no partial loads.
func Load(records []RawCity) (*Catalog, error) {
	entries := make([]domain.City, 0, len(records))
	for i, r := range records {
		if r.Coordinates == nil {
			return nil, &DataFormatError{Index: i, Field: "coordinates", Reason: "missing"}
		}
		if len(r.Coordinates) != 2 {
			return nil, &DataFormatError{
				Index:  i,
				Field:  "coordinates",
				Reason: fmt.Sprintf("want [lon, lat] pair, got %d values", len(r.Coordinates)),
			}
		}

		name := strings.TrimSpace(r.Capital)
		if name == "" {
			return nil, &DataFormatError{Index: i, Field: "capital", Reason: "missing"}
		}

		entries = append(entries, domain.City{
			Coordinates: domain.CoordinatesFromList(r.Coordinates),
			Capital:     name,
		})
	}

	return &Catalog{entries: entries}, nil
}

// DecodeJSON decodes a JSON array of records without validating them.
func DecodeJSON(data []byte) ([]RawCity, error) {
	var records []RawCity
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &DataFormatError{Index: -1, Reason: "decode json", Err: err}
	}
	return records, nil
}

// ParseJSON decodes a JSON array of records and loads it.
func ParseJSON(data []byte) (*Catalog, error) {
	records, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return Load(records)
}

// LoadFile reads a JSON catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: read %q: %w", path, err)
	}

	c, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", path, err)
	}
	return c, nil
}

// Entries returns a copy of the catalog entries in catalog order.
func (c *Catalog) Entries() []domain.City {
	if c == nil {
		return nil
	}
	return slices.Clone(c.entries)
}

// All iterates entries in catalog order without copying.
func (c *Catalog) All() iter.Seq2[int, domain.City] {
	return func(yield func(int, domain.City) bool) {
		if c == nil {
			return
		}
		for i, e := range c.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
