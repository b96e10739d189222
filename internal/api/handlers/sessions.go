package handlers

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"city-direction-service/internal/api/dto"
	"city-direction-service/internal/domain"
	"city-direction-service/internal/geo"
	"city-direction-service/internal/logger"
	"city-direction-service/internal/services"
)

// SessionHandler drives hosted heading sessions for remote UI clients.
type SessionHandler struct {
	Sessions *services.SessionStore
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, r, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	v := h.Sessions.Create(r.Context(), domain.Coordinates{Lon: *req.Longitude, Lat: *req.Latitude})
	writeJSON(w, r, http.StatusCreated, sessionResponse(v))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.Sessions.Get(chi.URLParam(r, "id"))
	h.respond(w, r, v, err)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(chi.URLParam(r, "id")); err != nil {
		h.respond(w, r, services.SessionView{}, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Ready(w http.ResponseWriter, r *http.Request) {
	v, err := h.Sessions.Ready(chi.URLParam(r, "id"))
	h.respond(w, r, v, err)
}

func (h *SessionHandler) Orientation(w http.ResponseWriter, r *http.Request) {
	var req dto.OrientationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Quaternion) != 4 {
		writeError(w, r, http.StatusBadRequest, "quaternion must have 4 components [x, y, z, w]")
		return
	}

	var q geo.Quaternion
	for i, c := range req.Quaternion {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			writeError(w, r, http.StatusBadRequest, "quaternion components must be finite")
			return
		}
		q[i] = c
	}
	if math.IsNaN(geo.BearingFromOrientation(q)) {
		writeError(w, r, http.StatusBadRequest, "quaternion does not describe a heading")
		return
	}

	v, err := h.Sessions.RecordOrientation(chi.URLParam(r, "id"), q)
	h.respond(w, r, v, err)
}

func (h *SessionHandler) Gesture(w http.ResponseWriter, r *http.Request) {
	var req dto.GestureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Start == nil || req.End == nil {
		writeError(w, r, http.StatusBadRequest, "start and end are required")
		return
	}

	start := domain.Point{X: req.Start.X, Y: req.Start.Y}
	end := domain.Point{X: req.End.X, Y: req.End.Y}

	v, err := h.Sessions.RecordGesture(chi.URLParam(r, "id"), start, end)
	h.respond(w, r, v, err)
}

func (h *SessionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	v, err := h.Sessions.Approve(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, v, err)
}

func (h *SessionHandler) Deny(w http.ResponseWriter, r *http.Request) {
	v, err := h.Sessions.Deny(chi.URLParam(r, "id"))
	h.respond(w, r, v, err)
}

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, v services.SessionView, err error) {
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, sessionResponse(v))
	case errors.Is(err, services.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, err.Error()+": "+v.Stage.String())
	case errors.Is(err, services.ErrGestureTooShort):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidOrientation):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		logger.FromContext(r.Context()).Error("session action failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func sessionResponse(v services.SessionView) dto.SessionResponse {
	res := dto.SessionResponse{
		ID:              v.ID,
		Stage:           v.Stage.String(),
		Latitude:        v.Location.Lat,
		Longitude:       v.Location.Lon,
		DeviceHeading:   v.DeviceHeading,
		GestureHeading:  v.GestureHeading,
		ResolvedBearing: v.ResolvedBearing,
	}
	if v.ResolvedBearing != nil {
		p := predictionResponse(*v.ResolvedBearing, v.Prediction)
		res.Prediction = &p
	}
	return res
}
