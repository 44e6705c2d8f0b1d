// Package retry re-runs a failing operation with linear backoff.
package retry

import (
	"context"
	"time"
)

// Policy is the number of extra attempts and the base backoff between them.
// Attempt n waits n*Backoff before running.
type Policy struct {
	MaxRetries int
	Backoff    time.Duration
}

// DefaultPolicy returns a default retry policy
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		Backoff:    100 * time.Millisecond,
	}
}

// Do runs fn until it succeeds, the retries are used up or ctx is done. It
// returns the last error of fn, or the context error when cancelled while
// waiting.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == p.MaxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * p.Backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return lastErr
}
