package gin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ginpkg "github.com/gin-gonic/gin"
	infragin "github.com/jonesrussell/north-cloud/infrastructure/gin"
	"github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	ginpkg.SetMode(ginpkg.TestMode)
}

func TestRequestIDLoggerMiddleware_GeneratesID(t *testing.T) {
	t.Parallel()

	w := serve(t, newTestRouter(t), httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	reqID := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, reqID)
	// uuid without dashes
	assert.Len(t, reqID, 32)
	assert.NotContains(t, reqID, "-")
}

func TestRequestIDLoggerMiddleware_PreservesExistingID(t *testing.T) {
	t.Parallel()

	const inboundID = "trace-from-upstream-abc123"

	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))

	var gotCtxID string
	router.GET("/test", func(c *ginpkg.Context) {
		gotCtxID = c.GetString("request_id")
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", inboundID)
	w := serve(t, router, req)

	assert.Equal(t, inboundID, w.Header().Get("X-Request-ID"))
	assert.Equal(t, inboundID, gotCtxID)
}

func TestRequestIDLoggerMiddleware_RejectsOversizedID(t *testing.T) {
	t.Parallel()

	oversizedID := strings.Repeat("x", 200)
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set("X-Request-ID", oversizedID)

	w := serve(t, newTestRouter(t), req)

	gotID := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, gotID)
	assert.NotEqual(t, oversizedID, gotID)
}

func TestRequestIDLoggerMiddleware_StoresLoggerInContext(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))

	var gotLogger logger.Logger
	router.GET("/test", func(c *ginpkg.Context) {
		gotLogger = logger.FromContext(c.Request.Context())
		c.String(http.StatusOK, "ok")
	})

	serve(t, router, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	assert.NotNil(t, gotLogger)
}

func TestRequestIDLoggerMiddleware_LoggerCarriesRequestID(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "requests.log")
	base, err := logger.New(logger.Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(base))
	router.GET("/lookup/:key", func(c *ginpkg.Context) {
		logger.FromContext(c.Request.Context()).Info("lookup", logger.String("key", c.Param("key")))
		c.Status(http.StatusOK)
	})

	w := serve(t, router, httptest.NewRequest(http.MethodGet, "/lookup/abc", http.NoBody))
	require.NoError(t, base.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry))

	assert.Equal(t, w.Header().Get("X-Request-ID"), entry["request_id"])
	assert.Equal(t, "abc", entry["key"])
}

func TestRequestIDLoggerMiddleware_UniqueIDs(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	const iterations = 100
	ids := make(map[string]struct{}, iterations)

	for range iterations {
		w := serve(t, router, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
		id := w.Header().Get("X-Request-ID")
		_, dup := ids[id]
		require.False(t, dup, "duplicate request ID generated: %s", id)
		ids[id] = struct{}{}
	}
}

func TestRecoveryMiddleware_ReturnsJSONError(t *testing.T) {
	t.Parallel()

	router := ginpkg.New()
	router.Use(infragin.RecoveryMiddleware(logger.NewNop()))
	router.GET("/boom", func(*ginpkg.Context) {
		panic("boom")
	})

	w := serve(t, router, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantStatus int
		wantAllow  string
	}{
		{name: "wildcard", origins: []string{"*"}, origin: "https://a.example", method: http.MethodGet, wantStatus: http.StatusOK, wantAllow: "*"},
		{name: "listed origin", origins: []string{"https://a.example"}, origin: "https://a.example", method: http.MethodGet, wantStatus: http.StatusOK, wantAllow: "https://a.example"},
		{name: "unlisted origin", origins: []string{"https://a.example"}, origin: "https://b.example", method: http.MethodGet, wantStatus: http.StatusOK, wantAllow: ""},
		{name: "preflight", origins: []string{"*"}, origin: "https://a.example", method: http.MethodOptions, wantStatus: http.StatusNoContent, wantAllow: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := ginpkg.New()
			router.Use(infragin.CORSMiddleware(infragin.CORSConfig{Enabled: true, AllowedOrigins: tt.origins}))
			router.GET("/test", func(c *ginpkg.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/test", http.NoBody)
			req.Header.Set("Origin", tt.origin)
			w := serve(t, router, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func serve(t *testing.T, router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// newTestRouter creates a gin.Engine with RequestIDLoggerMiddleware and a simple GET /test route.
func newTestRouter(t *testing.T) *ginpkg.Engine {
	t.Helper()

	router := ginpkg.New()
	router.Use(infragin.RequestIDLoggerMiddleware(logger.NewNop()))
	router.GET("/test", func(c *ginpkg.Context) {
		c.String(http.StatusOK, "ok")
	})

	return router
}
