package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, ProviderModeFixture, cfg.ProviderMode)
	assert.Equal(t, PaymentModeSimulated, cfg.PaymentMode)
	assert.True(t, cfg.LoadOnStartup)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9000")
	t.Setenv("PROVIDER_MODE", "redis")
	t.Setenv("PAYMENT_MODE", "http")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, ProviderModeRedis, cfg.ProviderMode)
	assert.Equal(t, PaymentModeHTTP, cfg.PaymentMode)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "STOREFRONT_HTTP_PORT", "0"},
		{"bad provider mode", "PROVIDER_MODE", "postgres"},
		{"bad payment mode", "PAYMENT_MODE", "cash"},
		{"bad sample rate", "TRACE_SAMPLE_RATE", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
