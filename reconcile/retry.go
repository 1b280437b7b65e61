package reconcile

import (
	"context"
	"errors"
	"time"

	"webexsheets/webinars"
)

const maxRateLimitAttempts = 3

// call invokes a provider operation, retrying on rate limiting (up to three
// attempts, honouring the provider's retry-after interval) and once on a
// transport failure. Auth and validation errors are returned immediately.
func (r *Reconciler) call(ctx context.Context, fn func() error) error {
	limited := 0
	failed := 0

	for {
		err := fn()
		if err == nil {
			return nil
		}

		var ratelimit *webinars.RateLimitError
		var transport *webinars.TransportError

		switch {
		case errors.As(err, &ratelimit) && limited < maxRateLimitAttempts-1:
			limited++
			delay := ratelimit.RetryAfter
			if delay <= 0 {
				delay = time.Duration(limited) * 5 * time.Second
			}

			warnf("rate limited - retrying in %v", delay)
			if err := r.wait(ctx, delay); err != nil {
				return err
			}

		case errors.As(err, &transport) && failed < 1:
			failed++
			warnf("request failed (%v) - retrying", transport.Err)
			if err := r.wait(ctx, time.Second); err != nil {
				return err
			}

		default:
			return err
		}
	}
}

func (r *Reconciler) wait(ctx context.Context, delay time.Duration) error {
	if r.sleep != nil {
		return r.sleep(ctx, delay)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		return nil
	}
}
