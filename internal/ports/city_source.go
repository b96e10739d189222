package ports

import (
	"context"

	"city-direction-service/internal/catalog"
)

// Port: a boundary for retrieving raw catalog records from a data source.
type CitySource interface {
	// Retrieve every record, in catalog order.
	ListCities(ctx context.Context) ([]catalog.RawCity, error)
}
