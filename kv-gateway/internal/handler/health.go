package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	infraerrors "github.com/jonesrussell/north-cloud/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/infrastructure/health"
	infralogger "github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/domain"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/telemetry"
)

// Prober checks the Redis dependency once.
type Prober interface {
	Check(ctx context.Context) health.Status
}

// HealthHandler reports dependency health.
type HealthHandler struct {
	probe   Prober
	timeout time.Duration
	metrics *telemetry.Metrics
}

// NewHealthHandler creates a HealthHandler that bounds each probe by timeout.
func NewHealthHandler(probe Prober, timeout time.Duration, metrics *telemetry.Metrics) *HealthHandler {
	return &HealthHandler{probe: probe, timeout: timeout, metrics: metrics}
}

// HealthCheck runs one probe and maps it to 200 {"message": ...} or 500.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if healthy, ok := h.check(c); ok {
		c.JSON(http.StatusOK, gin.H{"message": healthy.Message})
	}
}

// Ping is the legacy liveness route: the healthy message as plain text,
// failures as the same JSON error as HealthCheck.
func (h *HealthHandler) Ping(c *gin.Context) {
	if healthy, ok := h.check(c); ok {
		c.String(http.StatusOK, healthy.Message)
	}
}

// check probes once. On failure it writes the error response and returns false.
func (h *HealthHandler) check(c *gin.Context) (health.Healthy, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := h.probe.Check(ctx)
	h.metrics.ObserveProbe(status)

	switch s := status.(type) {
	case health.Healthy:
		return s, true
	case health.Unhealthy:
		infralogger.FromContext(c.Request.Context()).Warn("Redis health probe failed",
			infralogger.String("cause", s.Cause),
			infralogger.Error(s.Err),
		)
		infraerrors.Respond(c, infraerrors.NewHTTPError(http.StatusInternalServerError, msgDependencyFailure,
			fmt.Errorf("%w: %s", domain.ErrDependencyUnavailable, s.Cause)))
	default:
		infraerrors.Respond(c, fmt.Errorf("unknown health status %T", status))
	}
	return health.Healthy{}, false
}
