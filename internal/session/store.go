package session

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Store is the key/value persistence contract used for session-scoped
// state (the cart and related flags). Implementations must treat a
// missing key as (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStore persists session state in Redis under a common prefix.
type RedisStore struct {
	Client *redis.Client
	Prefix string
}

func (s RedisStore) key(key string) string {
	return s.Prefix + key
}

// Get loads the raw value for key, reporting whether the key existed.
func (s RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.Client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value under key, refreshing its TTL.
func (s RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Client.Set(ctx, s.key(key), value, ttl).Err()
}

// Delete removes key. Deleting an absent key is not an error.
func (s RedisStore) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.key(key)).Err()
}
