package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-resource-api/internal/application"
	"github.com/oksasatya/go-user-resource-api/internal/domain/repository"
	"github.com/oksasatya/go-user-resource-api/pkg/helpers"
)

// setupRedis uses TEST_REDIS_ADDR and a scratch DB; tests skip when it is unset or unreachable.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := helpers.NewRedisClient(addr, os.Getenv("TEST_REDIS_PASSWORD"), 15)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("redis unreachable: %v", err)
	}
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(setupRedis(t))
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte(`{"a":1}`), time.Minute))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(v))

	require.NoError(t, c.Remove(ctx, "k"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheIncr(t *testing.T) {
	c := NewCache(setupRedis(t))
	ctx := context.Background()

	n, err := c.Incr(ctx, "epoch")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = c.Incr(ctx, "epoch")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	raw, ok, err := c.Get(ctx, "epoch")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", string(raw))
}

func TestSessionStore(t *testing.T) {
	s := NewSessionStore(setupRedis(t))
	ctx := context.Background()

	_, err := s.Get(ctx, 7)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	sess := application.Session{UserID: 7, SessionID: "sid-1", Email: "a@example.com", Name: "A", CreatedAt: time.Now()}
	require.NoError(t, s.Save(ctx, sess, time.Minute))
	got, err := s.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", got.SessionID)
	assert.Equal(t, "a@example.com", got.Email)

	require.NoError(t, s.Delete(ctx, 7))
	_, err = s.Get(ctx, 7)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
