package config

import "time"

// Default values shared by the section types below.
const (
	DefaultRedisAddress     = "localhost:6379"
	DefaultRedisPoolSize    = 10
	DefaultRedisPoolTimeout = 2 * time.Second
	DefaultRedisDialTimeout = 2 * time.Second
	DefaultRedisReadTimeout = time.Second
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// RedisConfig holds Redis connection and pool settings.
type RedisConfig struct {
	Address      string        `env:"REDIS_ADDRESS"  yaml:"address"`
	Password     string        `env:"REDIS_PASSWORD" yaml:"password"`
	DB           int           `env:"REDIS_DB"       yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	PoolTimeout  time.Duration `yaml:"pool_timeout"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
}

// SetDefaults applies default values for RedisConfig.
func (c *RedisConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = DefaultRedisAddress
	}
	if c.PoolSize == 0 {
		c.PoolSize = DefaultRedisPoolSize
	}
	if c.PoolTimeout == 0 {
		c.PoolTimeout = DefaultRedisPoolTimeout
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultRedisDialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultRedisReadTimeout
	}
}

// Validate validates a RedisConfig.
func (c *RedisConfig) Validate() error {
	if err := ValidateRequired("redis.address", c.Address); err != nil {
		return err
	}
	if c.PoolSize < 1 {
		return &ValidationError{Field: "redis.pool_size", Message: "must be at least 1"}
	}
	if c.MinIdleConns < 0 || c.MinIdleConns > c.PoolSize {
		return &ValidationError{Field: "redis.min_idle_conns", Message: "must be between 0 and pool_size"}
	}
	return ValidatePositiveDuration("redis.pool_timeout", c.PoolTimeout)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// SetDefaults applies default values for LoggingConfig.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLogLevel
	}
	if c.Format == "" {
		c.Format = DefaultLogFormat
	}
}

// Validate validates a LoggingConfig.
func (c *LoggingConfig) Validate() error {
	if err := ValidateLogLevel(c.Level); err != nil {
		return err
	}
	return ValidateLogFormat(c.Format)
}
