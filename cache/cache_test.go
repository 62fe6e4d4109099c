package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheWithClient(client), mr
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "casefile:case-1", []byte(`{"id":"case-1"}`), time.Hour)

	got, ok := c.Get(ctx, "casefile:case-1")
	require.True(t, ok)
	require.Equal(t, []byte(`{"id":"case-1"}`), got)
}

func TestGetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := c.Get(context.Background(), "casefile:missing")
	require.False(t, ok)
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "casefile:case-1", []byte("payload"), time.Minute)

	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "casefile:case-1")
	require.False(t, ok)
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "casefile:case-1", []byte("payload"), time.Hour)
	c.Delete(ctx, "casefile:case-1")

	_, ok := c.Get(ctx, "casefile:case-1")
	require.False(t, ok)
}

// A dead Redis degrades to cache misses and silent write drops instead of
// surfacing errors to the caller.
func TestDegradesWhenRedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "casefile:case-1", []byte("payload"), time.Hour)
	mr.Close()

	_, ok := c.Get(ctx, "casefile:case-1")
	require.False(t, ok)

	c.Set(ctx, "casefile:case-2", []byte("payload"), time.Hour)
	c.Delete(ctx, "casefile:case-1")
}
