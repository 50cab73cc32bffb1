// Package retry runs calls against unreliable external services.
//
// A call moves through Attempting(1) .. Attempting(MaxAttempts). A successful
// attempt whose value passes Accept ends the run. A failed attempt either moves
// to the next attempt after the Backoff delay or, once attempts are exhausted,
// ends in the Fallback value when one is configured. Pacing is done by
// backoff.Retry.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrRejected marks an attempt whose value did not pass Policy.Accept.
var ErrRejected = errors.New("retry: result rejected")

// Policy configures one run of Do. Backoff values carry state, so build a
// Policy per call.
type Policy[T any] struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff paces the waits between attempts. Nil retries without waiting.
	Backoff backoff.BackOff
	// Accept reports whether a value returned without error counts as success.
	Accept func(T) bool
	// Retryable reports whether an error may be retried. Nil retries everything.
	Retryable func(error) bool
	// Fallback produces the terminal value once attempts are exhausted.
	// Without it the last error is returned.
	Fallback func(lastErr error) T
	// OnRetry is called before waiting for the next attempt.
	OnRetry func(attempt int, err error, wait time.Duration)
	// Sleep replaces the backoff timer; tests use it to record waits.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Constant waits the same duration after every failed attempt.
func Constant(d time.Duration) backoff.BackOff {
	return backoff.NewConstantBackOff(d)
}

// LinearBackOff waits Step after the first failure, 2×Step after the second
// and so on.
type LinearBackOff struct {
	Step time.Duration
	n    int
}

func (b *LinearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.Step
}

func (b *LinearBackOff) Reset() { b.n = 0 }

// Linear waits attempt × step after a failed attempt.
func Linear(step time.Duration) backoff.BackOff {
	return &LinearBackOff{Step: step}
}

// pacer sits between backoff.Retry and the policy schedule. It reports each
// upcoming wait through onRetry and, with a custom sleep, does the waiting
// itself so Retry's timer fires at once.
type pacer struct {
	ctx      context.Context
	schedule backoff.BackOff
	sleep    func(context.Context, time.Duration) error
	onRetry  func(wait time.Duration)
	err      error
}

func (p *pacer) NextBackOff() time.Duration {
	d := p.schedule.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	p.onRetry(d)
	if p.sleep == nil {
		return d
	}
	if err := p.sleep(p.ctx, d); err != nil {
		p.err = err
		return backoff.Stop
	}
	return 0
}

func (p *pacer) Reset() { p.schedule.Reset() }

// Do runs fn under the policy. fn receives the 1-based attempt number so
// callers can vary the request between attempts.
func Do[T any](ctx context.Context, p Policy[T], fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	schedule := p.Backoff
	if schedule == nil {
		schedule = &backoff.ZeroBackOff{}
	}

	var (
		attempt   int
		lastErr   error
		permanent bool
	)
	pace := &pacer{
		ctx:      ctx,
		schedule: schedule,
		sleep:    p.Sleep,
		onRetry: func(wait time.Duration) {
			if p.OnRetry != nil {
				p.OnRetry(attempt, errors.Unwrap(lastErr), wait)
			}
		},
	}

	v, err := backoff.Retry(ctx, func() (T, error) {
		attempt++
		v, err := fn(ctx, attempt)
		if err == nil && (p.Accept == nil || p.Accept(v)) {
			return v, nil
		}
		if err == nil {
			err = ErrRejected
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
		if p.Retryable != nil && !p.Retryable(err) {
			permanent = true
			return v, backoff.Permanent(lastErr)
		}
		return v, lastErr
	},
		backoff.WithBackOff(pace),
		backoff.WithMaxTries(uint(maxAttempts)),
	)
	if err == nil {
		return v, nil
	}
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	if pace.err != nil {
		err = pace.err
	}

	var zero T
	if permanent || p.Fallback == nil {
		return zero, err
	}
	return p.Fallback(err), nil
}
