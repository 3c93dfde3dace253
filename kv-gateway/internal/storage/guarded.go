package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/infrastructure/circuitbreaker"
	infralogger "github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/domain"
	"golang.org/x/sync/singleflight"
)

// sharedReadTimeout bounds a coalesced read, which outlives the request
// that started it.
const sharedReadTimeout = 5 * time.Second

// Store is the entry store contract shared by RedisStore and GuardedStore.
type Store interface {
	Set(ctx context.Context, pair domain.KeyValuePair) error
	Get(ctx context.Context, key string) (string, error)
}

// GuardedStore stops calling the wrapped store after repeated dependency
// failures until the breaker cooldown elapses. Misses and caller
// cancellations never count.
// Concurrent reads of one key share a single round trip.
type GuardedStore struct {
	next    Store
	breaker *circuitbreaker.Breaker
	reads   singleflight.Group
}

// NewGuardedStore wraps next with a circuit breaker.
func NewGuardedStore(next Store, cfg circuitbreaker.Config, log infralogger.Logger) *GuardedStore {
	cfg.IsFailure = isStoreFailure
	cfg.OnStateChange = func(from, to circuitbreaker.State) {
		log.Warn("Entry store circuit changed",
			infralogger.String("from", from.String()),
			infralogger.String("to", to.String()),
		)
	}
	return &GuardedStore{next: next, breaker: circuitbreaker.New(cfg)}
}

// isStoreFailure reports errors that say something about Redis health.
func isStoreFailure(err error) bool {
	return !errors.Is(err, domain.ErrNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// Set writes pair through the breaker.
func (s *GuardedStore) Set(ctx context.Context, pair domain.KeyValuePair) error {
	return s.wrap(s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.next.Set(ctx, pair)
	}))
}

// Get reads key through the breaker. The shared round trip is detached from
// any single caller; each caller stops waiting when its own ctx is done.
func (s *GuardedStore) Get(ctx context.Context, key string) (string, error) {
	ch := s.reads.DoChan(key, func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedReadTimeout)
		defer cancel()

		var val string
		err := s.breaker.Execute(readCtx, func(ctx context.Context) error {
			var getErr error
			val, getErr = s.next.Get(ctx, key)
			return getErr
		})
		return val, err
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("read entry %q: %w", key, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", s.wrap(res.Err)
		}
		val, _ := res.Val.(string)
		return val, nil
	}
}

// State reports the breaker state.
func (s *GuardedStore) State() circuitbreaker.State {
	return s.breaker.State()
}

func (s *GuardedStore) wrap(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", domain.ErrDependencyUnavailable, err)
	}
	return err
}
