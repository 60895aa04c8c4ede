package animation

import (
	"car-maneuver-service/internal/domain"
	"context"
	"sync"
)

// Recorder completes every animation instantly and keeps a copy of it.
// Useful for headless runs and tests.
type Recorder struct {
	mu         sync.Mutex
	animations []domain.Animation

	// Hook, when set, runs before Animate returns; its error is returned.
	Hook func(ctx context.Context, anim domain.Animation) error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Animate(ctx context.Context, anim domain.Animation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.animations = append(r.animations, anim)
	hook := r.Hook
	r.mu.Unlock()

	if hook != nil {
		return hook(ctx, anim)
	}
	return nil
}

// Animations returns the recorded animations in play order.
func (r *Recorder) Animations() []domain.Animation {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Animation, len(r.animations))
	copy(out, r.animations)
	return out
}
