package config

import (
	"fmt"

	pkgconfig "github.com/shopkit/storefront/pkg/config"
)

// Provider and payment mode values.
const (
	ProviderModeFixture = "fixture"
	ProviderModeRedis   = "redis"

	PaymentModeSimulated = "simulated"
	PaymentModeHTTP      = "http"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Product provider
	ProviderMode    string `env:"PROVIDER_MODE" envDefault:"fixture"`
	ProviderDelayMS int    `env:"PROVIDER_DELAY_MS" envDefault:"300"`
	LoadOnStartup   bool   `env:"CATALOG_LOAD_ON_STARTUP" envDefault:"true"`

	// Redis (used when PROVIDER_MODE=redis)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Payment gateway
	PaymentMode    string `env:"PAYMENT_MODE" envDefault:"simulated"`
	PaymentDelayMS int    `env:"PAYMENT_DELAY_MS" envDefault:"2000"`
	PaymentURL     string `env:"PAYMENT_PROVIDER_URL" envDefault:"http://localhost:8090"`

	// Kafka
	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"true"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSample    float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
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

	switch c.ProviderMode {
	case ProviderModeFixture, ProviderModeRedis:
	default:
		return fmt.Errorf("invalid provider mode: %q", c.ProviderMode)
	}

	switch c.PaymentMode {
	case PaymentModeSimulated, PaymentModeHTTP:
	default:
		return fmt.Errorf("invalid payment mode: %q", c.PaymentMode)
	}

	if c.TraceSample < 0 || c.TraceSample > 1 {
		return fmt.Errorf("invalid trace sample rate: %f", c.TraceSample)
	}

	return nil
}
