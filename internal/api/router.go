package api

import (
	"car-maneuver-service/internal/api/handlers"
	"car-maneuver-service/internal/ports"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(driver handlers.VehicleDriver, repo ports.ManeuverRepository, maxSteps int) http.Handler {
	mux := http.NewServeMux()

	vehicleHandler := &handlers.VehicleHandler{Driver: driver}
	planHandler := &handlers.PlanHandler{Driver: driver, MaxSteps: maxSteps}
	maneuverHandler := &handlers.ManeuverHandler{Repo: repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/vehicle", vehicleHandler.Get)
	mux.HandleFunc("/taps", vehicleHandler.Tap)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/maneuvers", maneuverHandler.List)

	return requestIDMiddleware(loggingMiddleware(mux))
}
