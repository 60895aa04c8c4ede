package animation

import (
	"car-maneuver-service/internal/domain"
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// TimedAnimator plays animations in real time without drawing anything.
//
// Every track of an animation runs on its own goroutine; the tracks touch
// different properties (x, y, rotation) so they commute. Animate returns
// once the slowest track has finished, which is the step's completion signal.
type TimedAnimator struct {
	// TimeScale stretches every track duration. 0 completes immediately,
	// 0.5 plays twice as fast.
	TimeScale float64
}

func NewTimedAnimator(timeScale float64) *TimedAnimator {
	if timeScale < 0 {
		timeScale = 0
	}
	return &TimedAnimator{TimeScale: timeScale}
}

func (a *TimedAnimator) Animate(ctx context.Context, anim domain.Animation) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, tr := range anim.Tracks {
		tr := tr
		d :=time.Duration(float64(tr.Duration) * a.TimeScale)
		g.Go(func() error {
			if err := wait(ctx, d); err != nil {
				return fmt.Errorf("animate %s track: %w", tr.Property, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
