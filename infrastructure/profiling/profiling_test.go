package profiling_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/infrastructure/profiling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPyroscope_DisabledByDefault(t *testing.T) {
	t.Setenv("ENABLE_CONTINUOUS_PROFILING", "")

	p, err := profiling.StartPyroscope("kv-gateway", "test", logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Stop())
}

func TestPprofMux_ServesIndex(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	profiling.PprofMux().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/pprof/", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutine")
}
