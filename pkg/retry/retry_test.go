package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
)

func TestExponential_SuccessImmediate(t *testing.T) {
	err := Exponential(context.Background(), func() error { return nil }, ExponentialConfig{
		InitialInterval: 5 * time.Millisecond,
		MaxElapsedTime:  100 * time.Millisecond,
	})
	assert.NoError(t, err)
}

func TestExponential_RetryThenSuccess(t *testing.T) {
	var calls int
	var onRetryCount int

	err := Exponential(context.Background(), func() error {
		if calls < 3 {
			calls++
			return errors.New("temporary error")
		}
		return nil
	}, ExponentialConfig{
		InitialInterval: 2 * time.Millisecond,
		MaxElapsedTime:  time.Second,
		OnRetry: func(err error, next time.Duration) {
			onRetryCount++
			assert.Error(t, err)
			assert.Greater(t, next, time.Duration(0))
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls, "should retry exactly 3 times before success")
	assert.Equal(t, 3, onRetryCount)
}

func TestExponential_InvalidConfig(t *testing.T) {
	err := Exponential(context.Background(), func() error { return nil }, ExponentialConfig{
		InitialInterval: 0,
	})
	assert.Error(t, err)
}

func TestExponential_ExhaustedByTime(t *testing.T) {
	err := Exponential(context.Background(), func() error { return errors.New("always fail") }, ExponentialConfig{
		InitialInterval: 5 * time.Millisecond,
		MaxElapsedTime:  15 * time.Millisecond,
	})
	assert.Error(t, err, "should fail when MaxElapsedTime is exceeded")
}

func TestExponential_PermanentStops(t *testing.T) {
	var calls int
	err := Exponential(context.Background(), func() error {
		calls++
		return backoff.Permanent(errors.New("bad credentials"))
	}, ExponentialConfig{
		InitialInterval: time.Millisecond,
		MaxElapsedTime:  time.Second,
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExponential_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	err := Exponential(ctx, func() error {
		calls++
		return errors.New("fail")
	}, ExponentialConfig{
		InitialInterval: time.Millisecond,
		MaxElapsedTime:  time.Second,
	})
	assert.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}
