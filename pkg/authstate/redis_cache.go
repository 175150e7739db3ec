package authstate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores snapshots in Redis with an expiry equal to the freshness window,
// so stale entries disappear on their own.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed snapshot cache. A non-positive ttl
// falls back to DefaultMaxAge.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultMaxAge
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Write encodes snap as JSON and stores it with the cache TTL.
func (c *RedisCache) Write(ctx context.Context, key string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Join(ErrInvalidSnapshot, err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Read fetches and decodes the snapshot under key.
func (c *RedisCache) Read(ctx context.Context, key string) (*Snapshot, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Join(ErrInvalidSnapshot, err)
	}
	return &snap, nil
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
