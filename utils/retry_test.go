package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetry(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		Logger:      NewLogger(),
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := newTestRetry(3)

	calls := 0
	err := r.Do("download image", func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	r := newTestRetry(2)

	cause := errors.New("404 not found")
	calls := 0
	err := r.Do("download image", func() error {
		calls++
		return cause
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestRetryFirstTrySuccess(t *testing.T) {
	r := newTestRetry(3)

	calls := 0
	err := r.Do("download image", func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
