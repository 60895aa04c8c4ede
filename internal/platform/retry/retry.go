package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy bounds a retry loop with exponential backoff.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
}

var Default = Policy{MaxAttempts: 4, Backoff: 200 * time.Millisecond}

// Do runs fn until it succeeds, the attempts are exhausted, or ctx is done.
// The wait doubles after every failed attempt. The last error is returned.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	backoff := p.Backoff

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return fmt.Errorf("after %d attempts: %w", p.MaxAttempts, lastErr)
}
