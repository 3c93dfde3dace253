// Package api wires the kv-gateway handlers into the shared gin server.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/handler"
)

// SetupRoutes configures all API routes. HEAD /health, /health/live,
// /health/memory and /metrics are registered by the infrastructure builder.
func SetupRoutes(
	router *gin.Engine,
	entries *handler.EntryHandler,
	healthHandler *handler.HealthHandler,
	legacyRoutes bool,
) {
	router.GET("/greeting", entries.Greeting)
	router.GET("/lookup/:key", entries.Lookup)
	router.POST("/entries", entries.Set)
	router.GET("/health", healthHandler.HealthCheck)

	if legacyRoutes {
		router.GET("/hello", entries.Greeting)
		router.GET("/", healthHandler.Ping)
		router.GET("/get_string/:key", entries.Lookup)
		router.POST("/set_string", entries.Set)
	}
}
