package netretry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsWithoutRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), DefaultConfig(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesRetryableError(t *testing.T) {
	calls := 0
	cfg := Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2,
		IsRetryable:  func(error) bool { return true },
	}
	err := Do(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoDoesNotRetryNonRetryableError(t *testing.T) {
	calls := 0
	sentinel := errors.New("permanent")
	err := Do(context.Background(), DefaultConfig(), func() error {
		calls++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, DefaultConfig(), func() error {
		t.Fatal("fn should not be called with an already-cancelled context")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultIsRetryableMatchesTransientStrings(t *testing.T) {
	assert.True(t, DefaultIsRetryable(errors.New("dial tcp: connection refused")))
	assert.True(t, DefaultIsRetryable(errors.New("lookup host: no such host")))
	assert.False(t, DefaultIsRetryable(errors.New("unexpected EOF")))
	assert.False(t, DefaultIsRetryable(nil))
}
