package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rohit2924/news-sub000/internal/config"
)

type fakeCounter struct {
	counts  map[string]int64
	windows map[string]time.Duration
	err     error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{
		counts:  make(map[string]int64),
		windows: make(map[string]time.Duration),
	}
}

func (f *fakeCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	if f.counts[key] == 1 {
		f.windows[key] = window
	}
	return f.counts[key], nil
}

func testRateLimitConfig() config.RateLimitConfig {
	return config.RateLimitConfig{MaxAttempts: 5, Window: 15 * time.Minute}
}

func TestAttemptLimiterThreshold(t *testing.T) {
	counter := newFakeCounter()
	limiter := NewAttemptLimiter(counter, testRateLimitConfig(), zerolog.Nop())

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		assert.False(t, limiter.Check(ctx, "203.0.113.7"), "attempt %d should be allowed", i+1)
	}
	assert.True(t, limiter.Check(ctx, "203.0.113.7"), "sixth attempt should be limited")
	assert.True(t, limiter.Check(ctx, "203.0.113.7"), "limit holds for the rest of the window")
}

func TestAttemptLimiterPerKeyIsolation(t *testing.T) {
	counter := newFakeCounter()
	limiter := NewAttemptLimiter(counter, testRateLimitConfig(), zerolog.Nop())

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		limiter.Check(ctx, "203.0.113.7")
	}

	assert.True(t, limiter.Check(ctx, "203.0.113.7"))
	assert.False(t, limiter.Check(ctx, "198.51.100.9"), "a different client starts with a fresh budget")
}

func TestAttemptLimiterWindowPropagated(t *testing.T) {
	counter := newFakeCounter()
	limiter := NewAttemptLimiter(counter, testRateLimitConfig(), zerolog.Nop())

	limiter.Check(context.Background(), "203.0.113.7")

	require.Len(t, counter.windows, 1)
	for _, window := range counter.windows {
		assert.Equal(t, 15*time.Minute, window)
	}
}

func TestAttemptLimiterFailsOpenOnCounterError(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("connection refused")
	limiter := NewAttemptLimiter(counter, testRateLimitConfig(), zerolog.Nop())

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		assert.False(t, limiter.Check(ctx, "203.0.113.7"), "backend failure must never limit")
	}
}

func TestAttemptLimiterFailsOpenWithoutCounter(t *testing.T) {
	limiter := NewAttemptLimiter(nil, testRateLimitConfig(), zerolog.Nop())
	assert.False(t, limiter.Check(context.Background(), "203.0.113.7"))
}

func TestRedisCounterUnavailableWithoutAddr(t *testing.T) {
	counter := NewRedisCounter(config.RedisConfig{}, zerolog.Nop())

	_, err := counter.Incr(context.Background(), "login_attempts:203.0.113.7", time.Minute)
	assert.ErrorIs(t, err, ErrCounterUnavailable)
}

func TestRedisCounterUnavailableWhenUnreachable(t *testing.T) {
	counter := NewRedisCounter(config.RedisConfig{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		OpTimeout:   100 * time.Millisecond,
	}, zerolog.Nop())

	_, err := counter.Incr(context.Background(), "login_attempts:203.0.113.7", time.Minute)
	assert.ErrorIs(t, err, ErrCounterUnavailable)

	// The failed connection is remembered; later calls never redial.
	_, err = counter.Incr(context.Background(), "login_attempts:203.0.113.7", time.Minute)
	assert.ErrorIs(t, err, ErrCounterUnavailable)
	assert.Nil(t, counter.client)
}
