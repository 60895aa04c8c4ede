package ports

import (
	"car-maneuver-service/internal/domain"
	"context"
)

// Port: a boundary for recording finished maneuvers.
type ManeuverRepository interface {
	// Persist a maneuver together with its steps.
	SaveManeuver(ctx context.Context, m *domain.Maneuver) error
	// Return the most recent maneuvers, newest first.
	ListManeuvers(ctx context.Context, limit int) ([]*domain.Maneuver, error)
}
