package config

import (
	"fmt"

	pkgconfig "github.com/thiago536/v0-gabycommerce-structure/pkg/config"
)

// Config holds all configuration for the storefront backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// CORS
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// PostgreSQL
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"gabycommerce"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"gabycommerce_secret"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"gabycommerce"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis (local store documents)
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Store document TTL in hours (default: 30 days)
	StoreTTL int `env:"STORE_TTL_HOURS" envDefault:"720"`

	// Cart mirror sync queue depth
	SyncQueueSize int `env:"SYNC_QUEUE_SIZE" envDefault:"256"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Admin auth
	JWTSecret      string `env:"ADMIN_JWT_SECRET" envDefault:"change-me-in-production"`
	JWTExpiryHours int    `env:"ADMIN_JWT_EXPIRY_HOURS" envDefault:"24"`

	// WhatsApp hand-off
	WhatsAppNumber string `env:"WHATSAPP_NUMBER" envDefault:"5511999999999"`
	StoreName      string `env:"STORE_NAME" envDefault:"Gaby Store"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
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
	if c.JWTExpiryHours < 1 {
		return fmt.Errorf("invalid JWT expiry: %d hours", c.JWTExpiryHours)
	}
	if c.Environment != "development" && c.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("ADMIN_JWT_SECRET must be set outside development")
	}
	return nil
}
