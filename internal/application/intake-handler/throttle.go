package intakehandler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"now-hiring/internal/common/config"
	"now-hiring/internal/common/database"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const throttleKeyPrefix = "intake:throttle:"

// NewThrottle builds the configured limiter, or nil when rate limiting is off.
func NewThrottle(cfg config.RateLimitConfig, rdb *database.RedisClient) (Throttle, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	window := config.GetDuration(cfg.Window)
	switch cfg.Backend {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis throttle needs a redis client")
		}
		return NewRedisThrottle(rdb.Client, cfg.Requests, window), nil
	case "local":
		return NewLocalThrottle(cfg.Requests, window), nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", cfg.Backend)
	}
}

// RedisThrottle is a fixed-window counter shared by every server instance.
type RedisThrottle struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func NewRedisThrottle(client redis.Cmdable, limit int, window time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, limit: int64(limit), window: window}
}

// Allow counts the request and reads the key's TTL in one round trip. A
// counter left without an expiry (a failed PEXPIRE or a crash after INCR)
// gets one on the next request, so no client stays blocked past a window.
func (t *RedisThrottle) Allow(ctx context.Context, client string) (bool, error) {
	key := throttleKeyPrefix + client

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := t.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}

	n := incr.Val()
	if ttl.Val() < 0 {
		if err := t.client.PExpire(ctx, key, t.window).Err(); err != nil {
			return n <= t.limit, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n <= t.limit, nil
}

// LocalThrottle is an in-process token bucket per client, for single-node
// installs without redis.
type LocalThrottle struct {
	mu        sync.Mutex
	limiters  map[string]*localEntry
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLocalThrottle(limit int, window time.Duration) *LocalThrottle {
	if limit < 1 {
		limit = 1
	}
	return &LocalThrottle{
		limiters: make(map[string]*localEntry),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idle:     window,
		now:      time.Now,
	}
}

func (t *LocalThrottle) Allow(_ context.Context, client string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweep(now)

	e, ok := t.limiters[client]
	if !ok {
		e = &localEntry{limiter: rate.NewLimiter(t.every, t.burst)}
		t.limiters[client] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1), nil
}

// sweep drops clients idle for longer than one window; their bucket would
// be full again anyway.
func (t *LocalThrottle) sweep(now time.Time) {
	if now.Sub(t.lastSweep) < t.idle {
		return
	}
	t.lastSweep = now
	for k, e := range t.limiters {
		if now.Sub(e.lastSeen) > t.idle {
			delete(t.limiters, k)
		}
	}
}
