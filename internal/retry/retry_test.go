// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	BaseDelay = 1 * time.Millisecond
}

var errUnavailable = errors.New("connection refused")

func TestDo_ImmediateSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, func(context.Context) error {
		calls++
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	var attempts []int
	err := Do(context.Background(), 5, func(context.Context) error {
		calls++
		if calls <= 2 {
			return errUnavailable
		}
		return nil
	}, func(attempt int, _ time.Duration, err error) {
		attempts = append(attempts, attempt)
		assert.ErrorIs(t, err, errUnavailable)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, func(context.Context) error {
		calls++
		return errUnavailable
	}, nil)
	assert.ErrorIs(t, err, errUnavailable)
	// 1 initial + 3 retries = 4 total calls.
	assert.Equal(t, 4, calls)
}

func TestDo_DefaultMaxRetries(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), 0, func(context.Context) error {
		calls++
		return errUnavailable
	}, nil)
	// 1 initial + 3 default retries.
	assert.Equal(t, 4, calls)
}

func TestDo_NegativeDisablesRetries(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), -1, func(context.Context) error {
		calls++
		return errUnavailable
	}, nil)
	assert.Equal(t, 1, calls)
}

func TestDo_PermanentStops(t *testing.T) {
	calls := 0
	errAuth := errors.New("unauthorized")
	err := Do(context.Background(), 5, func(context.Context) error {
		calls++
		return &Permanent{Err: errAuth}
	}, nil)
	assert.ErrorIs(t, err, errAuth)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	// Use a longer base delay so the context cancels during the wait.
	old := BaseDelay
	BaseDelay = 500 * time.Millisecond
	defer func() { BaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Do(ctx, 5, func(context.Context) error { return errUnavailable }, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
