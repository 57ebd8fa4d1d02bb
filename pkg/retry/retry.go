// Package retry re-runs operations that fail for transient reasons. Only page
// navigation goes through it; enrichment and sync never retry.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
)

// Policy is the retry budget and the rule for which failures are worth
// another attempt.
type Policy struct {
	Retries    uint64
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	// Retryable reports whether err is transient. Nil treats every error as
	// transient.
	Retryable func(err error) bool
}

// Navigation is three extra attempts, 0.5s to 5s apart.
func Navigation(retryable func(error) bool) Policy {
	return Policy{
		Retries:    3,
		Initial:    500 * time.Millisecond,
		Max:        5 * time.Second,
		Multiplier: 1.5,
		Retryable:  retryable,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.Initial
	bo.MaxInterval = p.Max
	bo.Multiplier = p.Multiplier
	bo.MaxElapsedTime = 0
	bo.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(bo, p.Retries), ctx)
}

// Do runs op until it succeeds, fails permanently, the retries are spent or
// ctx is done. The last error is returned unwrapped.
func Do[T any](ctx context.Context, log logger.Logger, name string, p Policy, op func(context.Context) (T, error)) (T, error) {
	attempt := 0
	wrapped := func() (T, error) {
		attempt++
		v, err := op(ctx)
		if err != nil && p.Retryable != nil && !p.Retryable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}

	notify := func(err error, next time.Duration) {
		log.Warn("Operation failed, retrying",
			"operation", name,
			"attempt", attempt,
			"error", err,
			"next_attempt_in", next.Round(time.Millisecond).String(),
		)
	}

	return backoff.RetryNotifyWithData(wrapped, p.backOff(ctx), notify)
}
