package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SharedNoteCache holds rendered shared notes keyed by share id. A nil
// cache disables caching entirely.
type SharedNoteCache interface {
	// Get returns the cached payload for key, or ok=false on a miss.
	Get(ctx context.Context, key string) (payload []byte, ok bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisSharedNoteCache struct {
	rdb *redis.Client
}

func NewRedisSharedNoteCache(rdb *redis.Client) SharedNoteCache {
	return &redisSharedNoteCache{rdb: rdb}
}

func (c *redisSharedNoteCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors alike fall back to the database
		return nil, false
	}
	return payload, true
}

func (c *redisSharedNoteCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, payload, ttl).Err()
}

func (c *redisSharedNoteCache) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
