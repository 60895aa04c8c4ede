package handlers

import (
	"car-maneuver-service/internal/api/dto"
	"car-maneuver-service/internal/ports"
	"log"
	"net/http"
	"strconv"
)

const (
	defaultManeuverLimit = 20
	maxManeuverLimit     = 100
)

// ManeuverHandler exposes the log of driven maneuvers.
type ManeuverHandler struct {
	Repo ports.ManeuverRepository
}

func (h *ManeuverHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := defaultManeuverLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxManeuverLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	maneuvers, err := h.Repo.ListManeuvers(r.Context(), limit)
	if err != nil {
		log.Printf("list maneuvers failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListManeuversResponse{
		Maneuvers: make([]dto.ManeuverResponse, 0, len(maneuvers)),
	}
	for _, m := range maneuvers {
		res.Maneuvers = append(res.Maneuvers, dto.FromManeuver(m))
	}

	writeJSON(w, r, http.StatusOK, res)
}
