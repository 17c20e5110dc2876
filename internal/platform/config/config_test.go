package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "300-M", cfg.RateLimit)
	assert.Equal(t, "none", cfg.EventsDriver)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("EVENTS_DRIVER", "KAFKA")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "kafka", cfg.EventsDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}
