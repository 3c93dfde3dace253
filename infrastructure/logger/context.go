package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

type ctxKey struct{}

// WithContext returns a copy of ctx carrying l. The gin request-ID
// middleware stores each request's logger this way.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request logger stored by WithContext, or the
// process fallback when ctx carries none.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
		return l
	}
	return Fallback()
}

type holder struct{ l Logger }

var (
	fallback     atomic.Pointer[holder]
	stderrOnce   sync.Once
	stderrLogger Logger
)

// SetFallback installs l as the logger FromContext returns outside a
// request. Services call it with their root logger at startup; nil restores
// the built-in warn-level stderr logger.
func SetFallback(l Logger) {
	if l == nil {
		fallback.Store(nil)
		return
	}
	fallback.Store(&holder{l: l})
}

// Fallback returns the logger installed by SetFallback, or the built-in
// stderr logger.
func Fallback() Logger {
	if h := fallback.Load(); h != nil {
		return h.l
	}
	stderrOnce.Do(func() {
		l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: stderr fallback unavailable: %v\n", err)
			l = NewNop()
		}
		stderrLogger = l
	})
	return stderrLogger
}
