package config

import (
	"fmt"

	pkgconfig "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/config"
)

// Cart store backend names.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for the ordering service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Cart store backend: memory or redis.
	CartStore string `env:"CART_STORE" envDefault:"memory"`

	// Redis (used when CartStore is redis)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 24 hours, a browsing session's working set)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"24"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Simulated settlement delay in milliseconds.
	SettlementDelayMS int `env:"SETTLEMENT_DELAY_MS" envDefault:"3000"`

	// Rate limit for checkout submissions, per session.
	SubmitRateRPS   int `env:"SUBMIT_RATE_RPS" envDefault:"1"`
	SubmitRateBurst int `env:"SUBMIT_RATE_BURST" envDefault:"3"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load ordering config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartStore != StoreMemory && c.CartStore != StoreRedis {
		return fmt.Errorf("invalid cart store: %q (must be %s or %s)", c.CartStore, StoreMemory, StoreRedis)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("invalid cart TTL: %d hours", c.CartTTL)
	}
	if c.SettlementDelayMS < 0 {
		return fmt.Errorf("invalid settlement delay: %d ms", c.SettlementDelayMS)
	}
	if c.SubmitRateRPS < 1 || c.SubmitRateBurst < 1 {
		return fmt.Errorf("invalid submit rate limit: %d rps, burst %d", c.SubmitRateRPS, c.SubmitRateBurst)
	}
	return nil
}
