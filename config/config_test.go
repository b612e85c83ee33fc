package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("CATALOG_LATENCY_MS", "")
	t.Setenv("KAFKA_ENABLED", "")

	cfg := Load()

	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 300, cfg.Catalog.LatencyMillis)
	assert.Equal(t, 12, cfg.Catalog.PageSize)
	assert.Equal(t, 10, cfg.Catalog.SearchLimit)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionIdle)
	assert.Equal(t, 720*time.Hour, cfg.Redis.StateTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CATALOG_LATENCY_MS", "0")

	cfg := Load()

	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 0, cfg.Catalog.LatencyMillis)
}

func TestGetBoolFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_FLAG", "sometimes")
	assert.True(t, getBool("SOME_FLAG", true))
}
