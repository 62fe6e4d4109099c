// Package cache provides the read-through cache for casefile snapshots. The
// cache is a pure optimization: any backend failure degrades to a miss and
// is never surfaced to callers.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"casefilehub/utils"
)

// Cache is the key/value contract the casefile service depends on. Values
// are serialized documents; consistency with the store is bounded only by
// the TTL and by the service's write-through on mutation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection. A failed ping
// is returned to the caller so startup can log it, but a RedisCache is still
// usable afterwards; it simply misses until Redis comes back.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return &RedisCache{client: client}, err
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheWithClient wraps an existing client, used by tests.
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		utils.LogWarning("cache get failed for key " + key + ": " + err.Error())
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		utils.LogWarning("cache set failed for key " + key + ": " + err.Error())
	}
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		utils.LogWarning("cache delete failed for key " + key + ": " + err.Error())
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
