package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the reporting service.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Mail      MailConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	Migrate         bool
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// AuthConfig configures the session middleware. Sessions are issued by
// the external identity provider; this service only resolves tokens to a
// user id and role.
type AuthConfig struct {
	Enabled    bool
	SessionTTL time.Duration
	SkipPaths  []string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// MailConfig configures the external email provider hand-off.
type MailConfig struct {
	Endpoint string
	APIKey   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("ADREPORT_HTTP_ADDR", ":8080"),
			Env:             getEnv("ADREPORT_ENV", "development"),
			ShutdownTimeout: getDurationEnv("ADREPORT_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("ADREPORT_DB_HOST", "localhost"),
			Port:     getIntEnv("ADREPORT_DB_PORT", 5432),
			User:     getEnv("ADREPORT_DB_USER", "adreport"),
			Password: getEnv("ADREPORT_DB_PASSWORD", "adreport_secret"),
			DBName:   getEnv("ADREPORT_DB_NAME", "adreport"),
			SSLMode:  getEnv("ADREPORT_DB_SSLMODE", "disable"),
			MaxConns:        getIntEnv("ADREPORT_DB_MAX_CONNS", 25),
			MinConns:        getIntEnv("ADREPORT_DB_MIN_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("ADREPORT_DB_CONN_LIFETIME", time.Hour),
			ConnMaxIdleTime: getDurationEnv("ADREPORT_DB_CONN_IDLE_TIME", 30*time.Minute),
			Migrate:         getBoolEnv("ADREPORT_DB_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("ADREPORT_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("ADREPORT_REDIS_PASSWORD", ""),
			DB:       getIntEnv("ADREPORT_REDIS_DB", 0),
			PoolSize: getIntEnv("ADREPORT_REDIS_POOL_SIZE", 50),
		},
		Auth: AuthConfig{
			Enabled:    getBoolEnv("ADREPORT_AUTH_ENABLED", true),
			SessionTTL: getDurationEnv("ADREPORT_SESSION_TTL", 24*time.Hour),
			SkipPaths:  getSliceEnv("ADREPORT_AUTH_SKIP_PATHS", []string{"/health", "/metrics"}),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("ADREPORT_RATE_LIMIT_ENABLED", true),
			RPS:     getFloatEnv("ADREPORT_RATE_LIMIT_RPS", 100),
			Burst:   getIntEnv("ADREPORT_RATE_LIMIT_BURST", 50),
		},
		Log: LogConfig{
			Level:  getEnv("ADREPORT_LOG_LEVEL", "info"),
			Format: getEnv("ADREPORT_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("ADREPORT_METRICS_ENABLED", true),
			Path:    getEnv("ADREPORT_METRICS_PATH", "/metrics"),
		},
		Mail: MailConfig{
			Endpoint: getEnv("ADREPORT_MAIL_ENDPOINT", ""),
			APIKey:   getEnv("ADREPORT_MAIL_API_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("ADREPORT_REDIS_ADDR is required when auth is enabled")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
