package main

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// menuCache stores raw dining feed responses keyed by request path.
// Implementations must treat every failure as a miss.
type menuCache interface {
	get(ctx context.Context, key string) ([]byte, bool)
	set(ctx context.Context, key string, body []byte)
}

type redisMenuCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// newMenuCache returns a Redis-backed cache, or nil when redisURL is empty or
// invalid. A nil cache disables caching.
func newMenuCache(redisURL string, ttl time.Duration) menuCache {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warnw("[menuCache] invalid REDIS_URL, caching disabled", "error", err)
		return nil
	}
	logger.Infow("[menuCache] redis menu cache enabled", "addr", opts.Addr, "ttl", ttl)
	return &redisMenuCache{rdb: redis.NewClient(opts), ttl: ttl}
}

func (c *redisMenuCache) get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, "dining:"+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warnw("[menuCache] get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return b, true
}

func (c *redisMenuCache) set(ctx context.Context, key string, body []byte) {
	if err := c.rdb.Set(ctx, "dining:"+key, body, c.ttl).Err(); err != nil {
		logger.Warnw("[menuCache] set failed", "key", key, "error", err)
	}
}
