package ports

import (
	"car-maneuver-service/internal/domain"
	"context"
)

// Port: snapshot storage for the session's vehicle state, so a restarted
// server resumes where the car was left.
type VehicleStateStore interface {
	// Return the last saved state; ok is false when nothing was saved yet.
	Load(ctx context.Context) (state domain.VehicleState, ok bool, err error)
	Save(ctx context.Context, state domain.VehicleState) error
}
