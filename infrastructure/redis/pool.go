package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/infrastructure/health"
	"github.com/redis/go-redis/v9"
)

// Pool adapts a go-redis client's connection pool to health.Pool.
type Pool struct {
	client *redis.Client
}

// NewPool wraps client.
func NewPool(client *redis.Client) *Pool {
	return &Pool{client: client}
}

// Acquire leases a dedicated connection. go-redis takes the underlying
// network connection from the pool on first use, so pool exhaustion and
// dial errors surface from Ping wrapped in health.ErrAcquire.
func (p *Pool) Acquire(ctx context.Context) (health.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &conn{conn: p.client.Conn()}, nil
}

// Stats returns the pool counters for logging.
func (p *Pool) Stats() *redis.PoolStats {
	return p.client.PoolStats()
}

type conn struct {
	conn *redis.Conn
}

func (c *conn) Ping(ctx context.Context) (string, error) {
	reply, err := c.conn.Ping(ctx).Result()
	if err != nil && isAcquireError(err) {
		return "", fmt.Errorf("%w: %w", health.ErrAcquire, err)
	}
	return reply, err
}

// Release returns the connection to the pool.
func (c *conn) Release() error {
	return c.conn.Close()
}

// isAcquireError reports errors raised while taking a connection from the
// pool or dialing a new one, before any command reached the server.
func isAcquireError(err error) bool {
	if errors.Is(err, redis.ErrClosed) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection pool timeout", "connection refused", "no such host", "dial tcp"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
