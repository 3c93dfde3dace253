package api

import (
	"time"

	"github.com/gin-gonic/gin"
	infragin "github.com/jonesrussell/north-cloud/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/infrastructure/metrics"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/config"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/handler"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// MetricsNamespace prefixes every kv-gateway metric.
const MetricsNamespace = "kv_gateway"

// Registry is the Prometheus registry the server registers on and serves.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// NewServer creates the HTTP server.
func NewServer(
	entries *handler.EntryHandler,
	healthHandler *handler.HealthHandler,
	cfg *config.Config,
	reg Registry,
	log infralogger.Logger,
) *infragin.Server {
	builder := infragin.NewServerBuilder(cfg.Service.Name, cfg.Service.Port)
	if len(cfg.Service.CORSOrigins) > 0 {
		builder = builder.WithCORSOrigins(cfg.Service.CORSOrigins)
	}

	return builder.
		WithLogger(log).
		WithDebug(cfg.Service.Debug).
		WithVersion(cfg.Service.Version).
		WithTimeouts(defaultReadTimeout, defaultWriteTimeout, defaultIdleTimeout).
		WithMetrics(metrics.NewHTTPMetrics(reg, MetricsNamespace), reg).
		WithRoutes(func(router *gin.Engine) {
			SetupRoutes(router, entries, healthHandler, cfg.Service.LegacyRoutesEnabled())
		}).
		Build()
}
