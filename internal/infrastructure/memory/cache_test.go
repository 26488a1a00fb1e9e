package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(59 * time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCacheIncrAndRemove(t *testing.T) {
	c := NewCache()
	ctx := context.Background()

	n, err := c.Incr(ctx, "epoch")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, _ = c.Incr(ctx, "epoch")
	assert.Equal(t, int64(2), n)

	raw, ok, _ := c.Get(ctx, "epoch")
	assert.True(t, ok)
	assert.Equal(t, "2", string(raw))

	require.NoError(t, c.Remove(ctx, "epoch", "missing"))
	assert.Equal(t, 0, c.Len())
}

func TestCacheReturnsCopies(t *testing.T) {
	c := NewCache()
	ctx := context.Background()
	src := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", src, 0))
	src[0] = 'x'

	v, _, _ := c.Get(ctx, "k")
	v[1] = 'y'
	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestCacheSweepsOrphanedKeys(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("users:list:v%d:page:1:per_page:10", i), []byte("{}"), time.Minute))
		_, err := c.Incr(ctx, "users:list:epoch")
		require.NoError(t, err)
		now = now.Add(2 * time.Minute)
	}
	// the epoch counter plus at most the newest page
	assert.LessOrEqual(t, c.Len(), 2)

	raw, ok, _ := c.Get(ctx, "users:list:epoch")
	require.True(t, ok)
	assert.Equal(t, "50", string(raw))
}
