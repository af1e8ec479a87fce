package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON snapshots of catalog reads in Redis. A nil Cache or
// nil client disables caching entirely.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache with the given TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads the payload under key into dst, reporting whether the
// key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !c.enabled() || key == "" {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key for the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if !c.enabled() || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate drops the given keys. Missing keys are not an error.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
