package storage_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/infrastructure/circuitbreaker"
	infralogger "github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/domain"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardedStore_PassesThrough(t *testing.T) {
	t.Parallel()

	redisStore, _ := newStore(t, 0)
	store := storage.NewGuardedStore(redisStore, circuitbreaker.Config{}, infralogger.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.KeyValuePair{Key: "abc", Value: "v"}))
	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestGuardedStore_MissesDoNotOpen(t *testing.T) {
	t.Parallel()

	redisStore, _ := newStore(t, 0)
	store := storage.NewGuardedStore(redisStore, circuitbreaker.Config{FailureThreshold: 1}, infralogger.NewNop())

	for range 3 {
		_, err := store.Get(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, circuitbreaker.StateClosed, store.State())
}

func TestGuardedStore_OpensOnOutage(t *testing.T) {
	t.Parallel()

	redisStore, mr := newStore(t, 0)
	mr.Close()
	store := storage.NewGuardedStore(redisStore, circuitbreaker.Config{
		FailureThreshold: 2,
		Cooldown:         time.Hour,
	}, infralogger.NewNop())
	ctx := context.Background()

	for range 2 {
		require.ErrorIs(t, store.Set(ctx, domain.KeyValuePair{Key: "abc", Value: "v"}), domain.ErrDependencyUnavailable)
	}
	assert.Equal(t, circuitbreaker.StateOpen, store.State())

	_, err := store.Get(ctx, "abc")
	require.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.ErrorIs(t, err, domain.ErrDependencyUnavailable)
}

type countingStore struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *countingStore) Set(context.Context, domain.KeyValuePair) error { return nil }

func (s *countingStore) Get(ctx context.Context, _ string) (string, error) {
	s.calls.Add(1)
	select {
	case <-s.release:
		return "shared", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestGuardedStore_CoalescesConcurrentReads(t *testing.T) {
	t.Parallel()

	next := &countingStore{release: make(chan struct{})}
	store := storage.NewGuardedStore(next, circuitbreaker.Config{}, infralogger.NewNop())

	const readers = 10
	var started, done sync.WaitGroup
	results := make([]string, readers)
	for i := range readers {
		started.Add(1)
		done.Add(1)
		go func() {
			defer done.Done()
			started.Done()
			results[i], _ = store.Get(context.Background(), "same")
		}()
	}
	started.Wait()
	// let the readers pile up behind the in-flight call
	require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(next.release)
	done.Wait()

	assert.Less(t, next.calls.Load(), int32(readers), "reads were not coalesced")
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestGuardedStore_CancelledCallersDoNotOpen(t *testing.T) {
	t.Parallel()

	redisStore, _ := newStore(t, 0)
	store := storage.NewGuardedStore(redisStore, circuitbreaker.Config{
		FailureThreshold: 2,
		Cooldown:         time.Hour,
	}, infralogger.NewNop())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for range 3 {
		err := store.Set(cancelled, domain.KeyValuePair{Key: "abc", Value: "v"})
		require.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, domain.ErrDependencyUnavailable)
	}
	assert.Equal(t, circuitbreaker.StateClosed, store.State())

	require.NoError(t, store.Set(context.Background(), domain.KeyValuePair{Key: "other", Value: "v"}))
	got, err := store.Get(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestGuardedStore_CancelledLeaderDoesNotFailFollower(t *testing.T) {
	t.Parallel()

	next := &countingStore{release: make(chan struct{})}
	store := storage.NewGuardedStore(next, circuitbreaker.Config{FailureThreshold: 1}, infralogger.NewNop())

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := store.Get(leaderCtx, "same")
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return next.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		val string
		err error
	}
	followerRes := make(chan result, 1)
	go func() {
		val, err := store.Get(context.Background(), "same")
		followerRes <- result{val: val, err: err}
	}()
	// let the follower join the in-flight read
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	select {
	case err := <-leaderErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled reader did not return")
	}

	close(next.release)
	res := <-followerRes
	require.NoError(t, res.err)
	assert.Equal(t, "shared", res.val)
	assert.Equal(t, circuitbreaker.StateClosed, store.State())
}
