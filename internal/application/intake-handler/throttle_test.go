package intakehandler

import (
	"context"
	"errors"
	"testing"
	"time"

	"now-hiring/internal/common/config"
	"now-hiring/internal/common/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisThrottle_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	throttle := NewRedisThrottle(client, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := throttle.Allow(ctx, "203.0.113.9")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}

	ok, err := throttle.Allow(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = throttle.Allow(ctx, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, ok, "clients are counted separately")

	assert.Equal(t, time.Minute, mr.TTL(throttleKeyPrefix+"203.0.113.9"))

	mr.FastForward(time.Minute)
	ok, err = throttle.Allow(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, ok, "window resets")
}

func TestRedisThrottle_Commands(t *testing.T) {
	db, mock := redismock.NewClientMock()
	throttle := NewRedisThrottle(db, 5, 30*time.Second)
	ctx := context.Background()
	key := throttleKeyPrefix + "10.0.0.1"

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectPTTL(key).SetVal(time.Duration(-1))
	mock.ExpectPExpire(key, 30*time.Second).SetVal(true)
	mock.ExpectIncr(key).SetVal(6)
	mock.ExpectPTTL(key).SetVal(20 * time.Second)
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	ok, err := throttle.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = throttle.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = throttle.Allow(ctx, "10.0.0.1")
	assert.ErrorContains(t, err, "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisThrottle_ExpireFailureIsRetried(t *testing.T) {
	db, mock := redismock.NewClientMock()
	throttle := NewRedisThrottle(db, 5, 30*time.Second)
	ctx := context.Background()
	key := throttleKeyPrefix + "10.0.0.1"

	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectPTTL(key).SetVal(time.Duration(-1))
	mock.ExpectPExpire(key, 30*time.Second).SetErr(errors.New("i/o timeout"))
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectPTTL(key).SetVal(time.Duration(-1))
	mock.ExpectPExpire(key, 30*time.Second).SetVal(true)

	ok, err := throttle.Allow(ctx, "10.0.0.1")
	assert.ErrorContains(t, err, "i/o timeout")
	assert.True(t, ok)

	ok, err = throttle.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisThrottle_CounterWithoutExpiryRecovers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	key := throttleKeyPrefix + "203.0.113.9"
	require.NoError(t, mr.Set(key, "1"))

	throttle := NewRedisThrottle(client, 1, time.Minute)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ok, err := throttle.Allow(ctx, "203.0.113.9")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(time.Minute)
	ok, err := throttle.Allow(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, ok, "counter expires once the window passes")
}

func TestLocalThrottle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	throttle := NewLocalThrottle(2, time.Minute)
	throttle.now = func() time.Time { return now }
	ctx := context.Background()

	allow := func(client string) bool {
		ok, err := throttle.Allow(ctx, client)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, allow("a"))
	assert.True(t, allow("a"))
	assert.False(t, allow("a"))
	assert.True(t, allow("b"))

	now = now.Add(30 * time.Second)
	assert.True(t, allow("a"), "one token refilled")
	assert.False(t, allow("a"))

	now = now.Add(2 * time.Minute)
	allow("c")
	assert.NotContains(t, throttle.limiters, "b", "idle clients are swept")
}

func TestNewThrottle(t *testing.T) {
	th, err := NewThrottle(config.RateLimitConfig{Enabled: false}, nil)
	require.NoError(t, err)
	assert.Nil(t, th)

	th, err = NewThrottle(config.RateLimitConfig{Enabled: true, Backend: "local", Requests: 3, Window: 1000}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalThrottle{}, th)

	_, err = NewThrottle(config.RateLimitConfig{Enabled: true, Backend: "redis", Requests: 3, Window: 1000}, nil)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	rdb := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rdb.Close()
	th, err = NewThrottle(config.RateLimitConfig{Enabled: true, Backend: "redis", Requests: 3, Window: 1000}, rdb)
	require.NoError(t, err)
	assert.IsType(t, &RedisThrottle{}, th)

	_, err = NewThrottle(config.RateLimitConfig{Enabled: true, Backend: "memcached"}, nil)
	assert.Error(t, err)
}
