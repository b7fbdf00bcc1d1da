// Package poll implements a cancellable polling loop for clients waiting on
// asynchronous jobs. The caller owns the loop: cancelling the context stops
// it immediately, and every stop condition is explicit.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAttemptsExhausted is returned when MaxAttempts polls finish without the
// condition being met.
var ErrAttemptsExhausted = errors.New("poll attempts exhausted")

// Options bound the polling loop.
type Options struct {
	// Interval between polls. Defaults to one second.
	Interval time.Duration
	// MaxAttempts caps the number of polls. Zero means unbounded; the
	// context is then the only stop condition.
	MaxAttempts int
}

// Func inspects the watched resource once. Returning done=true stops the
// loop successfully; a non-nil error stops it with that error.
type Func func(ctx context.Context) (done bool, err error)

// Until runs fn until it reports done, fails, the attempt budget runs out, or
// the context is cancelled. The first poll happens immediately.
func Until(ctx context.Context, opts Options, fn Func) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}

	for attempt := 1; ; attempt++ {
		done, err := fn(ctx)
		if err != nil {
			return fmt.Errorf("poll attempt %d: %w", attempt, err)
		}
		if done {
			return nil
		}
		if opts.MaxAttempts > 0 && attempt >= opts.MaxAttempts {
			return ErrAttemptsExhausted
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
