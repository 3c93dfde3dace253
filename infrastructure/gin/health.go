package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/infrastructure/monitoring"
)

// RegisterOperationalRoutes adds the dependency-free health endpoints:
//   - HEAD /health        load balancer check
//   - GET  /health/live   process liveness with uptime
//   - GET  /health/memory runtime memory statistics
//
// GET /health itself belongs to the service, which knows its dependencies.
func RegisterOperationalRoutes(router *gin.Engine, serviceName, version string) {
	started := time.Now()

	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "alive",
			"service": serviceName,
			"version": version,
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	})
	router.GET("/health/memory", monitoring.MemoryHandler)
}
