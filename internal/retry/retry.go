// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retry re-runs an operation with exponential backoff. The graph
// stores use it around connectivity checks; upserts themselves are never
// retried here.
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// BaseDelay is the first backoff interval; it doubles on every attempt.
// Tests override this to avoid real sleeps.
var BaseDelay = 500 * time.Millisecond

const defaultMaxRetries = 3

// Permanent marks an error that must not be retried.
type Permanent struct{ Err error }

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// Do calls fn until it succeeds, returns a *Permanent error, or maxRetries
// retries have failed. With BaseDelay 500ms the waits are 0.5s, 1s, 2s, ...
//
// When maxRetries is 0 the default (3) is used; a negative value disables
// retries. If ctx is cancelled during a wait Do returns ctx.Err(). After
// exhausting retries the last error from fn is returned. onRetry, if not
// nil, is called before each wait.
func Do(ctx context.Context, maxRetries int, fn func(context.Context) error, onRetry func(attempt int, wait time.Duration, err error)) error {
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perm *Permanent
		if errors.As(err, &perm) {
			return perm.Err
		}
		if attempt >= maxRetries {
			return err
		}

		wait := time.Duration(math.Pow(2, float64(attempt))) * BaseDelay
		if onRetry != nil {
			onRetry(attempt+1, wait, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
