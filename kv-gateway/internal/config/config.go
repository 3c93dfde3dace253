// Package config loads the kv-gateway configuration.
package config

import (
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/infrastructure/config"
)

// Default configuration values.
const (
	defaultServiceName   = "kv-gateway"
	defaultServicePort   = 8099
	defaultVersion       = "0.1.0"
	defaultHealthTimeout = 2 * time.Second
	defaultKeyPrefix     = "kv:"
)

// Config holds the application configuration.
type Config struct {
	Service ServiceConfig             `yaml:"service"`
	Redis   infraconfig.RedisConfig   `yaml:"redis"`
	Health  HealthConfig              `yaml:"health"`
	Store   StoreConfig               `yaml:"store"`
	Logging infraconfig.LoggingConfig `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"KV_GATEWAY_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"       yaml:"debug"`
	// LegacyRoutes keeps /hello, /, /get_string/:key and /set_string mounted.
	LegacyRoutes *bool `yaml:"legacy_routes"`
	// CORSOrigins restricts browser origins; empty allows any.
	CORSOrigins []string `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// LegacyRoutesEnabled reports whether the legacy aliases are mounted.
func (s ServiceConfig) LegacyRoutesEnabled() bool {
	return s.LegacyRoutes == nil || *s.LegacyRoutes
}

// HealthConfig bounds the dependency probe.
type HealthConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig controls the optional Redis entry store.
type StoreConfig struct {
	Enabled   bool          `env:"KV_STORE_ENABLED" yaml:"enabled"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
	// Breaker guards store calls; zero values take the circuitbreaker defaults.
	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig configures the entry store circuit breaker.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	Cooldown         time.Duration `yaml:"cooldown"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return infraconfig.LoadWithDefaults[Config](path, setDefaults)
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = defaultVersion
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Health.Timeout == 0 {
		cfg.Health.Timeout = defaultHealthTimeout
	}
	if cfg.Store.KeyPrefix == "" {
		cfg.Store.KeyPrefix = defaultKeyPrefix
	}
	cfg.Redis.SetDefaults()
	cfg.Logging.SetDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := infraconfig.ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidatePositiveDuration("health.timeout", c.Health.Timeout); err != nil {
		return err
	}
	if c.Store.TTL < 0 {
		return &infraconfig.ValidationError{Field: "store.ttl", Message: "must not be negative"}
	}
	if c.Store.Breaker.FailureThreshold < 0 {
		return &infraconfig.ValidationError{Field: "store.breaker.failure_threshold", Message: "must not be negative"}
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
