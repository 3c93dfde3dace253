package logger_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileLogger returns a debug-level JSON logger writing to a temp file.
func fileLogger(t *testing.T) (logger.Logger, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ctx.log")
	l, err := logger.New(logger.Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)
	return l, path
}

func readEntries(t *testing.T, l logger.Logger, path string) []map[string]any {
	t.Helper()

	_ = l.Sync()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	return entries
}

func TestFromContext_ReturnsRequestLogger(t *testing.T) {
	t.Parallel()

	base, path := fileLogger(t)
	reqLog := base.With(logger.String("request_id", "0123456789abcdef0123456789abcdef"))
	ctx := logger.WithContext(context.Background(), reqLog)

	logger.FromContext(ctx).Error("Entry lookup failed", logger.String("key", "color"))

	entries := readEntries(t, base, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "Entry lookup failed", entries[0]["msg"])
	assert.Equal(t, "0123456789abcdef0123456789abcdef", entries[0]["request_id"])
	assert.Equal(t, "color", entries[0]["key"])
}

func TestFromContext_InnerRequestLoggerWins(t *testing.T) {
	t.Parallel()

	base, path := fileLogger(t)
	ctx := logger.WithContext(context.Background(), base.With(logger.String("request_id", "outer")))
	ctx = logger.WithContext(ctx, base.With(logger.String("request_id", "inner")))

	logger.FromContext(ctx).Warn("Redis health probe failed")

	entries := readEntries(t, base, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "inner", entries[0]["request_id"])
}

func TestFromContext_NilLoggerUsesFallback(t *testing.T) {
	t.Parallel()

	ctx := logger.WithContext(context.Background(), nil)
	assert.NotNil(t, logger.FromContext(ctx))
}

func TestFallback_DefaultIsStableAndUsable(t *testing.T) {
	t.Parallel()

	a := logger.FromContext(context.Background())
	b := logger.Fallback()
	require.NotNil(t, a)
	assert.NotNil(t, b)

	a.Warn("handler ran without a request logger")
}

// Not parallel: SetFallback is process-wide.
func TestSetFallback_RoutesContextlessLogs(t *testing.T) {
	root, path := fileLogger(t)
	svc := root.With(logger.String("service", "kv-gateway"))

	logger.SetFallback(svc)
	t.Cleanup(func() { logger.SetFallback(nil) })

	logger.FromContext(context.Background()).Error("Entry write failed", logger.String("key", "abc"))

	entries := readEntries(t, root, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "kv-gateway", entries[0]["service"])
	assert.Equal(t, "abc", entries[0]["key"])

	logger.SetFallback(nil)
	assert.NotSame(t, svc, logger.Fallback())
}
