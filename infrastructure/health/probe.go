package health

import (
	"context"
	"errors"
	"net"
)

// ErrAcquire marks errors caused by failing to obtain a pooled connection,
// as opposed to a failure of the command itself. Pool adapters wrap it.
var ErrAcquire = errors.New("acquire pooled connection")

// Pool leases connections to the probed dependency.
type Pool interface {
	// Acquire waits (bounded by the pool and ctx) for a connection.
	Acquire(ctx context.Context) (Conn, error)
}

// Conn is a leased connection. Release must be called exactly once.
type Conn interface {
	// Ping issues the dependency's liveness command and returns the raw reply.
	Ping(ctx context.Context) (string, error)
	// Release returns the connection to its pool.
	Release() error
}

// Defaults for a Redis-style dependency.
const (
	DefaultExpectedReply  = "PONG"
	DefaultHealthyMessage = "HELLO THERE!"
)

// Probe checks a dependency with exactly one round trip per call.
// It keeps no state between calls and never retries.
type Probe struct {
	pool     Pool
	expected string
	message  string
}

// Option configures a Probe.
type Option func(*Probe)

// WithExpectedReply sets the liveness token the dependency must return.
func WithExpectedReply(reply string) Option {
	return func(p *Probe) { p.expected = reply }
}

// WithHealthyMessage sets the message carried by Healthy.
func WithHealthyMessage(msg string) Option {
	return func(p *Probe) { p.message = msg }
}

// NewProbe creates a Probe over pool.
func NewProbe(pool Pool, opts ...Option) *Probe {
	p := &Probe{
		pool:     pool,
		expected: DefaultExpectedReply,
		message:  DefaultHealthyMessage,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check acquires a connection, pings once and releases the connection on
// every path. Deadlines and cancellation come from ctx; the probe has no
// timeout of its own.
func (p *Probe) Check(ctx context.Context) Status {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return unhealthy(ctx, err, CauseAcquireFailed)
	}
	defer func() { _ = conn.Release() }()

	reply, err := conn.Ping(ctx)
	if err != nil {
		if errors.Is(err, ErrAcquire) {
			return unhealthy(ctx, err, CauseAcquireFailed)
		}
		return unhealthy(ctx, err, CauseCommandFailed)
	}

	if reply != p.expected {
		return Unhealthy{Cause: CauseUnexpectedReply}
	}
	return Healthy{Message: p.message}
}

// unhealthy maps err to a cause; deadlines and cancellation win over fallback.
func unhealthy(ctx context.Context, err error, fallback string) Unhealthy {
	if isTimeout(ctx, err) {
		return Unhealthy{Cause: CauseTimeout, Err: err}
	}
	return Unhealthy{Cause: fallback, Err: err}
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
