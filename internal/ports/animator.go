package ports

import (
	"car-maneuver-service/internal/domain"
	"context"
)

// Contract for the visual representation of the vehicle.
type Animator interface {
	// Play one step's animation. Returning is the completion signal:
	// the driver does not plan the next step before Animate returns.
	Animate(ctx context.Context, anim domain.Animation) error
}
