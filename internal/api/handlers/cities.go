package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"city-direction-service/internal/api/dto"
	"city-direction-service/internal/catalog"
	"city-direction-service/internal/logger"
	"city-direction-service/internal/ports"
	"city-direction-service/internal/services"
)

// CityHandler exposes the catalog and its reload.
type CityHandler struct {
	Catalogs *catalog.Store
	Source   ports.CitySource
}

func (h *CityHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.Catalogs.Current().Entries()

	res := dto.ListCitiesResponse{
		Cities: make([]dto.CityResponse, 0, len(entries)),
	}
	for _, c := range entries {
		res.Cities = append(res.Cities, dto.CityResponse{
			Capital:   c.Capital,
			Longitude: c.Coordinates.Lon,
			Latitude:  c.Coordinates.Lat,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Reload re-reads the catalog source. A malformed source leaves the current
// catalog in place.
func (h *CityHandler) Reload(w http.ResponseWriter, r *http.Request) {
	cat, err := services.ReloadCatalog(r.Context(), h.Source, h.Catalogs)
	if err != nil {
		var dfe *catalog.DataFormatError
		if errors.As(err, &dfe) {
			writeError(w, r, http.StatusUnprocessableEntity, dfe.Error())
			return
		}
		logger.FromContext(r.Context()).Error("reload catalog failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReloadCatalogResponse{Entries: cat.Len()})
}
