package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:5000", cfg.Web.Addr)
	assert.Equal(t, 5*time.Second, cfg.Web.ReadTimeout)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, "root@tcp(127.0.0.1:3306)/fyyur?charset=utf8mb4&clientFoundRows=true", cfg.DSN())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FYYUR_DB_DRIVER", "sqlite3")
	t.Setenv("FYYUR_WEB_ADDR", ":8080")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Web.Addr)
	assert.Equal(t, "fyyur.db", cfg.DSN())

	t.Setenv("FYYUR_DB_DSN", "file:test.db")
	cfg, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "file:test.db", cfg.DSN())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("FYYUR_DB_DRIVER", "oracle")
	_, err := Load(nil)
	assert.Error(t, err)
}

func TestHelpWanted(t *testing.T) {
	_, err := Load([]string{"--help"})
	assert.ErrorIs(t, err, ErrHelpWanted)
}

func TestRateLimitOffByDefault(t *testing.T) {
	assert.False(t, LoadRateLimitConfig().Enabled)

	t.Setenv("RATE_LIMIT_ENABLED", "true")
	assert.True(t, LoadRateLimitConfig().Enabled)
}

func TestRateLimitNormalizedGuardsZeroValues(t *testing.T) {
	cfg := RateLimitConfig{Enabled: true}.Normalized()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, 5*time.Second, cfg.TTL)
}

func TestRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 5*time.Second, cfg.TTL)
}

func TestEventsConfig(t *testing.T) {
	assert.Equal(t, BrokerNone, LoadEventsConfig().Broker)

	t.Setenv("EVENTS_BROKER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	cfg := LoadEventsConfig()
	assert.Equal(t, BrokerKafka, cfg.Broker)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)

	t.Setenv("EVENTS_BROKER", "carrier-pigeon")
	assert.Equal(t, BrokerNone, LoadEventsConfig().Broker)
}

func TestCacheConfigDisabledByDefault(t *testing.T) {
	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.True(t, cfg.Methods["GET"])
	assert.Nil(t, NewRedisClient(LoadRedisConfig()))
}
