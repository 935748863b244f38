// Package retry wraps a fallible operation with bounded exponential backoff.
// Generation failures are retried whether they came from the transport or
// from extraction: the retried operation re-runs the completion, and a fresh
// completion can parse where the previous one did not. Only context
// cancellation and errors marked permanent stop the loop early.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrEmptyResult should be returned by operations whose upstream answered
// successfully but with nothing usable; it is retryable like any transient
// failure.
var ErrEmptyResult = errors.New("operation returned empty result")

// TransportError marks a network or HTTP-level failure from an external
// service adapter. Op names the call that failed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Config bounds the retry loop. An operation runs at most MaxAttempts times,
// waiting 2^i * BaseDelay between attempts i and i+1 (no jitter).
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	return c
}

// Permanent marks an error as non-retryable. Do returns it immediately
// without further attempts.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do executes op until it succeeds, the attempt budget is exhausted, or the
// context is done. The first successful result is returned; otherwise the
// last failure propagates.
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.BaseDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = time.Hour
	bo.MaxElapsedTime = 0
	bo.Reset()

	var result T
	err := backoff.Retry(func() error {
		v, opErr := op(ctx)
		if opErr != nil {
			return opErr
		}
		result = v
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(cfg.MaxAttempts-1)), ctx))
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
