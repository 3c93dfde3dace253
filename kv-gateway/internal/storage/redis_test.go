package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/domain"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return storage.NewRedisStore(client, "kv:", ttl), mr
}

func TestRedisStore_SetThenGet(t *testing.T) {
	t.Parallel()

	store, mr := newStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.KeyValuePair{Key: "abc", Value: "first"}))
	require.NoError(t, store.Set(ctx, domain.KeyValuePair{Key: "abc", Value: "second"}))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	raw, err := mr.Get("kv:abc")
	require.NoError(t, err)
	assert.Equal(t, "second", raw)
}

func TestRedisStore_GetMissing(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, 0)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	t.Parallel()

	store, mr := newStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.KeyValuePair{Key: "temp", Value: "v"}))
	assert.Equal(t, time.Minute, mr.TTL("kv:temp"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "temp")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	store, mr := newStore(t, 0)
	mr.Close()

	ctx := context.Background()
	err := store.Set(ctx, domain.KeyValuePair{Key: "abc", Value: "v"})
	require.ErrorIs(t, err, domain.ErrDependencyUnavailable)

	_, err = store.Get(ctx, "abc")
	require.ErrorIs(t, err, domain.ErrDependencyUnavailable)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_CancelledCallerIsNotAnOutage(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Set(ctx, domain.KeyValuePair{Key: "abc", Value: "v"})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrDependencyUnavailable)

	_, err = store.Get(ctx, "abc")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrDependencyUnavailable)
}
