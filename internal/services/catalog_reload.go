package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"city-direction-service/internal/catalog"
	"city-direction-service/internal/logger"
	"city-direction-service/internal/metrics"
	"city-direction-service/internal/platform/obs"
	"city-direction-service/internal/ports"
)

// Load the catalog from source and publish it to store.
// On any error the current snapshot stays in place.
func ReloadCatalog(
	ctx context.Context,
	source ports.CitySource,
	store *catalog.Store,
) (_ *catalog.Catalog, err error) {
	defer obs.Time(ctx, "catalog.Reload")(&err)

	records, err := source.ListCities(ctx)
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("reload catalog: list cities: %w", err)
	}

	cat, err := catalog.Load(records)
	if err != nil {
		metrics.CatalogReloadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("reload catalog: %w", err)
	}

	store.Replace(cat)
	metrics.CatalogReloadsTotal.WithLabelValues("ok").Inc()
	metrics.CatalogEntries.Set(float64(cat.Len()))
	logger.FromContext(ctx).Info("catalog loaded", zap.Int("entries", cat.Len()))

	return cat, nil
}
