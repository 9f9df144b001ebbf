package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/utafrali/wishlist/pkg/database"
	pkgconfig "github.com/utafrali/wishlist/pkg/config"
	"github.com/utafrali/wishlist/pkg/httpclient"
	"github.com/utafrali/wishlist/pkg/tracing"
)

// Config holds all configuration for the wishlist service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort              int `env:"WISHLIST_HTTP_PORT" envDefault:"8080"`
	RequestTimeoutSeconds int `env:"WISHLIST_REQUEST_TIMEOUT_SECONDS" envDefault:"60"`

	// PostgreSQL. DatabaseURL takes precedence over the individual parts.
	DatabaseURL  string `env:"DATABASE_URL"`
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB   string `env:"WISHLIST_DB_NAME" envDefault:"wishlist"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	DBMaxConns               int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns               int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMinutes int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMinutes int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`
	SlowQueryMS              int   `env:"LOG_SLOW_QUERY_MS" envDefault:"0"`

	// Downstream services
	CatalogServiceURL        string `env:"CATALOG_SERVICE_URL" envDefault:"http://localhost:5001"`
	CartServiceURL           string `env:"CART_SERVICE_URL" envDefault:"http://localhost:5002"`
	DownstreamTimeoutSeconds int    `env:"DOWNSTREAM_TIMEOUT_SECONDS" envDefault:"30"`

	// Circuit breaker around the downstream services
	CBEnabled         bool    `env:"CB_ENABLED" envDefault:"false"`
	CBMaxRequests     uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBIntervalSeconds int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeoutSeconds  int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio    float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests     uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Maintenance
	ResetEnabled bool `env:"RESET_ENABLED" envDefault:"true"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load wishlist config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.DatabaseURL != "" {
		if _, err := url.ParseRequestURI(c.DatabaseURL); err != nil {
			return fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
	}
	for name, raw := range map[string]string{
		"CATALOG_SERVICE_URL": c.CatalogServiceURL,
		"CART_SERVICE_URL":    c.CartServiceURL,
	} {
		u, err := url.ParseRequestURI(raw)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}
	if c.DownstreamTimeoutSeconds <= 0 {
		return fmt.Errorf("DOWNSTREAM_TIMEOUT_SECONDS must be positive, got %d", c.DownstreamTimeoutSeconds)
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("WISHLIST_REQUEST_TIMEOUT_SECONDS must not be negative, got %d", c.RequestTimeoutSeconds)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0 and 1, got %v", c.OTelSampleRate)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0, 1], got %v", c.CBFailureRatio)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	return nil
}

// PostgresConfig returns the connection pool settings.
func (c *Config) PostgresConfig() *database.PostgresConfig {
	return &database.PostgresConfig{
		URL:             c.DatabaseURL,
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMinutes) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMinutes) * time.Minute,
	}
}

// HTTPClientConfig returns the settings of the downstream HTTP client.
// Downstream calls are attempted once; retries are left to the circuit
// breaker and the caller.
func (c *Config) HTTPClientConfig() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = time.Duration(c.DownstreamTimeoutSeconds) * time.Second
	cfg.MaxRetries = 0
	return cfg
}

// CircuitBreakerConfig returns the breaker settings for the named downstream.
func (c *Config) CircuitBreakerConfig(name string) httpclient.CircuitBreakerConfig {
	return httpclient.CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  c.CBMaxRequests,
		Interval:     time.Duration(c.CBIntervalSeconds) * time.Second,
		Timeout:      time.Duration(c.CBTimeoutSeconds) * time.Second,
		FailureRatio: c.CBFailureRatio,
		MinRequests:  c.CBMinRequests,
	}
}

// TracingConfig returns the OpenTelemetry settings for serviceName.
func (c *Config) TracingConfig(serviceName string) tracing.Config {
	cfg := tracing.DefaultConfig(serviceName)
	cfg.Environment = c.Environment
	cfg.OTLPEndpoint = c.OTelEndpoint
	cfg.SampleRate = c.OTelSampleRate
	cfg.Enabled = c.OTelEnabled
	return cfg
}

// RequestTimeout bounds the handling of a single API request.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
