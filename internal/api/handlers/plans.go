package handlers

import (
	"car-maneuver-service/internal/api/dto"
	"car-maneuver-service/internal/domain"
	"car-maneuver-service/internal/services"
	"errors"
	"log"
	"net/http"
)

type PlanHandler struct {
	Driver   VehicleDriver
	MaxSteps int
}

// Plan returns the steps the vehicle would take to reach a point, without
// moving it. The start is the current vehicle state unless "from" is given.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dest, ok := point(req.X, req.Y)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "x and y must be finite numbers")
		return
	}

	start := h.Driver.State()
	if req.From != nil {
		s, err := req.From.ToDomain()
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "from must have a finite position and an orientation of up, right, left or down")
			return
		}
		start = s
	}

	m, err := services.PlanManeuver(start, dest, h.MaxSteps)
	if err != nil {
		if errors.Is(err, services.ErrPlanDidNotConverge) {
			writeError(w, r, http.StatusUnprocessableEntity, "plan did not converge")
			return
		}
		if errors.Is(err, domain.ErrInvalidState) || errors.Is(err, services.ErrInvalidDestination) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("plan maneuver failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromManeuver(m))
}
