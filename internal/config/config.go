package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/refh96/catalogo-rancho-sub000/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Redis (cart store)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Abandoned carts expire after this many hours.
	CartTTLHours int `env:"CART_TTL_HOURS" envDefault:"72"`

	// Firestore (catalog and counters)
	FirestoreProjectID string `env:"FIRESTORE_PROJECT_ID"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Order dispatch. When the gateway URL is empty the service falls back
	// to a logging mock sender.
	WhatsAppGatewayURL string `env:"WHATSAPP_GATEWAY_URL" envDefault:""`
	OrderDestination   string `env:"ORDER_DESTINATION" envDefault:""`

	// Admin endpoints require this token; empty disables them.
	AdminToken string `env:"ADMIN_TOKEN" envDefault:""`

	// CORS
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Circuit breaker settings for the WhatsApp gateway
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
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
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.CartTTLHours < 1 {
		return fmt.Errorf("CART_TTL_HOURS must be at least 1, got %d", c.CartTTLHours)
	}
	if c.FirestoreProjectID == "" {
		return fmt.Errorf("FIRESTORE_PROJECT_ID is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.WhatsAppGatewayURL != "" {
		if _, err := url.ParseRequestURI(c.WhatsAppGatewayURL); err != nil {
			return fmt.Errorf("invalid WHATSAPP_GATEWAY_URL %q: %w", c.WhatsAppGatewayURL, err)
		}
		if c.OrderDestination == "" {
			return fmt.Errorf("ORDER_DESTINATION is required when WHATSAPP_GATEWAY_URL is set")
		}
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// CartTTL returns the cart expiry as a duration.
func (c *Config) CartTTL() time.Duration {
	return time.Duration(c.CartTTLHours) * time.Hour
}
