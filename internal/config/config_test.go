package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass-service/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/gatepass")
	t.Setenv("GATEPASS_SECRET", "gp-secret")
	t.Setenv("AUTH_SECRET", "auth-secret")
	t.Setenv("POLICE_ACCESS_TOKEN", "police-credential")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 48*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.StrictDocDates)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gatepass")
	t.Setenv("GATEPASS_SECRET", "")
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("POLICE_ACCESS_TOKEN", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GATEPASS_SECRET")
	assert.Contains(t, err.Error(), "AUTH_SECRET")
	assert.Contains(t, err.Error(), "POLICE_ACCESS_TOKEN")
	assert.NotContains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL_HOURS", "12")
	t.Setenv("STRICT_DOC_DATES", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.StrictDocDates)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_BadTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL_HOURS", "soon")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ZeroTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("TOKEN_TTL_HOURS", "0")

	_, err := config.Load()
	assert.Error(t, err)
}
