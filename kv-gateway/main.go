package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonesrussell/north-cloud/infrastructure/circuitbreaker"
	infraconfig "github.com/jonesrussell/north-cloud/infrastructure/config"
	infraerrors "github.com/jonesrussell/north-cloud/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/infrastructure/health"
	"github.com/jonesrussell/north-cloud/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/infrastructure/profiling"
	infraredis "github.com/jonesrussell/north-cloud/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/api"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/config"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/handler"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/storage"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/telemetry"
	"github.com/jonesrussell/north-cloud/kv-gateway/internal/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Redis startup check: total budget across retries.
const redisStartupTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()
	logger.SetFallback(log)

	profiling.StartPprofServer(log)
	profiler, err := profiling.StartPyroscope(cfg.Service.Name, cfg.Service.Version, log)
	if err != nil {
		log.Warn("Continuous profiling disabled", logger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	client, err := infraredis.NewClient(cfg.Redis)
	if err != nil {
		log.Error("Failed to create Redis client", logger.Error(err))
		return 1
	}
	defer func() { _ = client.Close() }()

	pool := infraredis.NewPool(client)
	verifyRedis(client, pool, cfg, log)

	return runServer(cfg, log, client, pool)
}

// loadConfig loads and validates configuration.
func loadConfig() (*config.Config, error) {
	configPath := infraconfig.GetConfigPath("config.yml")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, infraerrors.WrapWithContextf(err, "load config %s", configPath)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, infraerrors.WrapWithContext(validationErr, "validate config")
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, infraerrors.WrapWithContext(err, "create logger")
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// verifyRedis pings Redis with backoff. An unreachable Redis is logged but
// not fatal: /health reports it and recovers once Redis is back.
func verifyRedis(client *redis.Client, pool *infraredis.Pool, cfg *config.Config, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), redisStartupTimeout)
	defer cancel()

	retryCfg := retry.DefaultConfig()
	retryCfg.IsRetryable = func(error) bool { return true }

	err := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
		return infraredis.Ping(ctx, client)
	})
	if err != nil {
		log.Warn("Redis not reachable at startup",
			logger.String("address", cfg.Redis.Address),
			logger.Error(err),
		)
		return
	}

	stats := pool.Stats()
	log.Info("Redis connected",
		logger.String("address", cfg.Redis.Address),
		logger.Int("db", cfg.Redis.DB),
		logger.Int("pool_size", cfg.Redis.PoolSize),
		logger.Uint32("total_conns", stats.TotalConns),
		logger.Uint32("idle_conns", stats.IdleConns),
		logger.Uint32("pool_timeouts", stats.Timeouts),
	)
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, client *redis.Client, pool *infraredis.Pool) int {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	domainMetrics := telemetry.New(reg, api.MetricsNamespace)

	var store handler.EntryStore
	if cfg.Store.Enabled {
		store = storage.NewGuardedStore(
			storage.NewRedisStore(client, cfg.Store.KeyPrefix, cfg.Store.TTL),
			circuitbreaker.Config{
				FailureThreshold: cfg.Store.Breaker.FailureThreshold,
				Cooldown:         cfg.Store.Breaker.Cooldown,
			},
			log,
		)
		log.Info("Entry store enabled",
			logger.String("key_prefix", cfg.Store.KeyPrefix),
			logger.Duration("ttl", cfg.Store.TTL),
		)
	}

	entryHandler := handler.NewEntryHandler(validation.New(), store, domainMetrics)
	probe := health.NewProbe(pool)
	healthHandler := handler.NewHealthHandler(probe, cfg.Health.Timeout, domainMetrics)

	server := api.NewServer(entryHandler, healthHandler, cfg, reg, log)

	log.Info("kv-gateway starting",
		logger.Int("port", cfg.Service.Port),
		logger.Bool("legacy_routes", cfg.Service.LegacyRoutesEnabled()),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("kv-gateway exited cleanly")
	return 0
}
