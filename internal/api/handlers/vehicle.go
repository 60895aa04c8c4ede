package handlers

import (
	"car-maneuver-service/internal/api/dto"
	"car-maneuver-service/internal/domain"
	"car-maneuver-service/internal/services"
	"errors"
	"log"
	"net/http"
)

// VehicleDriver is the slice of the driver loop the HTTP layer needs.
type VehicleDriver interface {
	State() domain.VehicleState
	CurrentManeuverID() string
	Tap(p domain.Position) (string, error)
}

// VehicleHandler exposes the vehicle state and accepts taps.
type VehicleHandler struct {
	Driver VehicleDriver
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	res := dto.VehicleResponse{
		VehicleStateDTO: dto.FromState(h.Driver.State()),
		ManeuverID:      h.Driver.CurrentManeuverID(),
		Width:           domain.CarWidth,
		Length:          domain.CarLength,
		TurningRadius:   domain.TurningRadius,
	}
	res.Busy = res.ManeuverID != ""

	writeJSON(w, r, http.StatusOK, res)
}

// Tap starts a maneuver towards the tapped point. The vehicle drives in the
// background; the response only acknowledges the start.
func (h *VehicleHandler) Tap(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.TapRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, ok := point(req.X, req.Y)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "x and y must be finite numbers")
		return
	}

	id, err := h.Driver.Tap(p)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrManeuverInProgress):
		writeError(w, r, http.StatusConflict, "vehicle is already moving")
		return
	case errors.Is(err, services.ErrTapOnVehicle):
		writeError(w, r, http.StatusUnprocessableEntity, "tap landed on the vehicle")
		return
	case errors.Is(err, services.ErrInvalidDestination):
		writeError(w, r, http.StatusBadRequest, "x and y must be finite numbers")
		return
	case errors.Is(err, services.ErrDriverClosed):
		writeError(w, r, http.StatusServiceUnavailable, "shutting down")
		return
	default:
		log.Printf("tap failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusAccepted, dto.TapResponse{
		ManeuverID:  id,
		Destination: dto.PositionDTO{X: p.X, Y: p.Y},
	})
}

func point(x, y *float64) (domain.Position, bool) {
	if x == nil || y == nil {
		return domain.Position{}, false
	}
	p := domain.Position{X: *x, Y: *y}
	if !p.IsFinite() {
		return domain.Position{}, false
	}
	return p, true
}
