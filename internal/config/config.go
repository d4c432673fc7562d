// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP API listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the optional gRPC health endpoint; empty disables it.
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the DSN for DBDriver. Required by server, seed and migrate.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// DBDriver is "postgres" or "sqlite".
	DBDriver string `mapstructure:"DB_DRIVER"`
	// ModelPath is the model artifact (.json, .yaml or .yml), loaded once at startup.
	ModelPath string `mapstructure:"MODEL_PATH"`
	// AutoMigrate runs the embedded migrations before the server starts.
	AutoMigrate bool `mapstructure:"AUTO_MIGRATE"`
	// CORSAllowedOrigins is a comma-separated list of dashboard origins.
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	// MaxUploadBytes caps request bodies, including batch CSV uploads.
	MaxUploadBytes int64 `mapstructure:"MAX_UPLOAD_BYTES"`
	// HealthProbeInterval is how often the gRPC health status re-checks the database.
	HealthProbeInterval time.Duration `mapstructure:"HEALTH_PROBE_INTERVAL"`
	// LogMode selects the zap preset: "production" for JSON, anything else for console.
	LogMode string `mapstructure:"LOG_MODE"`
	// Env is the application environment (e.g. "development", "production"); reported as a resource attribute.
	Env string `mapstructure:"APP_ENV"`

	// OTLP export (optional). Empty endpoint keeps traces and logs in-process.
	OTelEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure    bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OTelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`
	// MetricsEnabled exposes /metrics through the Prometheus exporter.
	MetricsEnabled bool `mapstructure:"METRICS_ENABLED"`

	// Prediction events (optional). When Kafka brokers are set, events go to Kafka instead of OTel logs.
	// KafkaBrokers is a comma-separated list of broker addresses (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventsTopic is the Kafka topic for prediction events.
	EventsTopic string `mapstructure:"PREDICTION_EVENTS_TOPIC"`

	// Worker-only: Loki URL for the event worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the event worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("GRPC_ADDR", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("MODEL_PATH", "ml/artifacts/churn_pipeline.json")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("MAX_UPLOAD_BYTES", 32<<20)
	v.SetDefault("HEALTH_PROBE_INTERVAL", "10s")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "churn-api")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("PREDICTION_EVENTS_TOPIC", "churn-prediction-events")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "churn-events-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("config: DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.DBDriver)
	}
	switch strings.ToLower(filepath.Ext(cfg.ModelPath)) {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config: MODEL_PATH must end in .json, .yaml or .yml, got %q", cfg.ModelPath)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.HealthProbeInterval <= 0 {
		cfg.HealthProbeInterval = 10 * time.Second
	}

	return &cfg, nil
}

// RequireDatabase returns an error when DATABASE_URL is empty. Commands that touch the store call it.
func (c *Config) RequireDatabase() error {
	if c == nil || strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("config: DATABASE_URL must be set")
	}
	return nil
}

// AllowedOrigins returns CORS origins from the comma-separated config.
func (c *Config) AllowedOrigins() []string {
	if c == nil {
		return nil
	}
	return splitList(c.CORSAllowedOrigins)
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if Kafka event delivery is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.KafkaBrokers)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
