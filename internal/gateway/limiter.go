package gateway

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Rohit2924/news-sub000/internal/config"
)

// ErrCounterUnavailable signals that the counting backend is absent or
// unreachable. The limiter converts it to "not limited".
var ErrCounterUnavailable = errors.New("attempt counter unavailable")

// AttemptCounter is the contract with the external counting cache: an
// atomic increment-and-get that sets the window TTL on the first
// increment of a key.
type AttemptCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter implements AttemptCounter on Redis. The connection is
// established lazily once per process lifetime; a failed attempt is
// remembered so later requests do not redial.
type RedisCounter struct {
	cfg         config.RedisConfig
	logger      zerolog.Logger
	connectOnce sync.Once
	client      *redis.Client
	unavailable atomic.Bool
}

func NewRedisCounter(cfg config.RedisConfig, logger zerolog.Logger) *RedisCounter {
	return &RedisCounter{cfg: cfg, logger: logger}
}

func (c *RedisCounter) connect() {
	if c.cfg.Addr == "" {
		c.unavailable.Store(true)
		c.logger.Warn().Msg("no attempt counter configured, login rate limiting disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:         c.cfg.Addr,
		Password:     c.cfg.Password,
		DB:           c.cfg.DB,
		DialTimeout:  c.cfg.DialTimeout,
		ReadTimeout:  c.cfg.OpTimeout,
		WriteTimeout: c.cfg.OpTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		c.unavailable.Store(true)
		// Release the pool: the failure is remembered and never retried.
		client.Close()
		c.logger.Warn().Err(err).Str("addr", c.cfg.Addr).
			Msg("attempt counter unreachable, login rate limiting disabled")
		return
	}

	c.client = client
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.connectOnce.Do(c.connect)

	if c.unavailable.Load() {
		return 0, ErrCounterUnavailable
	}

	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}

	// First increment in this window owns the TTL.
	if count == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}

	return count, nil
}

// AttemptLimiter enforces the login-attempt policy over a counting
// backend. Backend failure means not limited: login availability wins
// over strict limiting when the cache dependency is down.
type AttemptLimiter struct {
	counter     AttemptCounter
	maxAttempts int
	window      time.Duration
	logger      zerolog.Logger
	warned      atomic.Bool
}

func NewAttemptLimiter(counter AttemptCounter, cfg config.RateLimitConfig, logger zerolog.Logger) *AttemptLimiter {
	return &AttemptLimiter{
		counter:     counter,
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window,
		logger:      logger,
	}
}

// Check records one attempt for the client key and reports whether the
// attempt budget is exhausted.
func (l *AttemptLimiter) Check(ctx context.Context, clientKey string) bool {
	if l.counter == nil {
		return false
	}

	count, err := l.counter.Incr(ctx, attemptKeyPrefix+clientKey, l.window)
	if err != nil {
		if l.warned.CompareAndSwap(false, true) {
			l.logger.Warn().Err(err).Msg("attempt counter error, failing open")
		}
		return false
	}

	return count > int64(l.maxAttempts)
}
