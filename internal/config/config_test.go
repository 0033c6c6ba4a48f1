package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prwkhar/aura-gift/internal/domain"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CATALOG_URL", "https://sheets.example.com/catalog.csv")
	t.Setenv("CHECKOUT_RELAY_URL", "https://relay.example.com/submit")
	t.Setenv("CHECKOUT_ACCESS_KEY", "key-123")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 168, cfg.CartTTL)
	assert.Equal(t, domain.MergeByProductID, cfg.Strategy())
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_MissingCatalogURL(t *testing.T) {
	t.Setenv("CHECKOUT_RELAY_URL", "https://relay.example.com/submit")
	t.Setenv("CHECKOUT_ACCESS_KEY", "key-123")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_URL")
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidMergeStrategy(t *testing.T) {
	setRequired(t)
	t.Setenv("CART_MERGE_STRATEGY", "by-sku")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid merge strategy")
}

func TestLoad_InstanceStrategy(t *testing.T) {
	setRequired(t)
	t.Setenv("CART_MERGE_STRATEGY", "by-instance")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, domain.MergeByInstance, cfg.Strategy())
}

func TestLoad_InvalidCartTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("CART_TTL_HOURS", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cart TTL")
}

func TestLoad_KafkaBrokerList(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}
