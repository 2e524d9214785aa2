// Package retry implements a retry combinator with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy describes how an operation is retried.
//
// The operation is invoked at most MaxRetries+1 times. Before retry number n
// (starting at 0) the combinator waits BaseDelay * 2^n.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	// Retryable decides whether an error is worth another attempt.
	// When nil, every error is retried.
	Retryable func(error) bool
	// Sleep waits for d or until ctx is done. Tests override it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// ExhaustedError is returned when every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// Delay returns the backoff before retry number attempt.
func Delay(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<attempt)
}

// Do runs op until it succeeds, fails with a non retryable error,
// or the policy runs out of attempts.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	sleep := p.Sleep
	if sleep == nil {
		sleep = wait
	}

	for attempt := 0; ; attempt++ {
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}

		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}

		if attempt >= p.MaxRetries {
			return zero, &ExhaustedError{Attempts: attempt + 1, Err: err}
		}

		if err := sleep(ctx, Delay(p.BaseDelay, attempt)); err != nil {
			return zero, fmt.Errorf("retry wait: %w", err)
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
