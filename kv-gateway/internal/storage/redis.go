// Package storage persists accepted entries in Redis.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/kv-gateway/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as plain string keys under a prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store. A zero ttl keeps entries until overwritten.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Set writes pair, replacing any previous value for its key.
func (s *RedisStore) Set(ctx context.Context, pair domain.KeyValuePair) error {
	if err := s.client.Set(ctx, s.prefix+pair.Key, pair.Value, s.ttl).Err(); err != nil {
		return storeError(ctx, "set", pair.Key, err)
	}
	return nil
}

// Get returns the stored value for key, or domain.ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", storeError(ctx, "get", key, err)
	}
	return val, nil
}

// storeError marks err as a Redis failure unless the caller gave up first.
func storeError(ctx context.Context, op, key string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s entry %q: %w", op, key, err)
	}
	return fmt.Errorf("%w: %s entry %q: %w", domain.ErrDependencyUnavailable, op, key, err)
}
