package config

import (
	"fmt"

	"github.com/prwkhar/aura-gift/internal/domain"
	pkgconfig "github.com/prwkhar/aura-gift/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart snapshot TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// How identical products combine in the cart: "by-product-id" merges
	// into one line with a quantity, "by-instance" keeps a line per add
	// so each can carry its own gift note.
	MergeStrategy string `env:"CART_MERGE_STRATEGY" envDefault:"by-product-id"`

	// Catalog
	CatalogURL string `env:"CATALOG_URL,required"`

	// Checkout relay
	CheckoutRelayURL  string `env:"CHECKOUT_RELAY_URL,required"`
	CheckoutAccessKey string `env:"CHECKOUT_ACCESS_KEY,required"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
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
	if c.CartTTL < 1 {
		return fmt.Errorf("invalid cart TTL: %d hours", c.CartTTL)
	}
	if !domain.MergeStrategy(c.MergeStrategy).Valid() {
		return fmt.Errorf("invalid merge strategy: %q", c.MergeStrategy)
	}
	return nil
}

// Strategy returns the configured merge strategy as its domain type.
func (c *Config) Strategy() domain.MergeStrategy {
	return domain.MergeStrategy(c.MergeStrategy)
}
