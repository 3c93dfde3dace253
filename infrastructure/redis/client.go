// Package redis builds go-redis clients from service configuration and
// exposes their connection pool to the health probe.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/north-cloud/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// ErrEmptyAddress is returned when Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

// NewClient creates a pooled Redis client. It does not dial; use Ping to
// verify connectivity so the caller decides whether an unreachable server
// is fatal.
func NewClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		PoolTimeout:  cfg.PoolTimeout,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
	}), nil
}

// Ping verifies connectivity with a single PING.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
