package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Data backends selectable with DATA_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Logger      LoggerConfig
	Auth        AuthConfig
	S3          S3Config
	Seed        SeedConfig
	Session     SessionConfig
	I18n        I18nConfig
	DataBackend string `env:"DATA_BACKEND" envDefault:"postgres"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host            string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int    `env:"SERVER_PORT" envDefault:"8080"`
	AllowedOrigin   string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	ShutdownTimeout int    `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"postgres"`
	Password        string `env:"DB_PASSWORD"`
	Database        string `env:"DB_NAME" envDefault:"restaurants"`
	SSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConnections  int    `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConnections  int    `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime int    `env:"DB_MAX_CONN_LIFETIME" envDefault:"300"` // seconds
	Migrate         bool   `env:"DB_MIGRATE" envDefault:"true"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string `env:"API_KEY"`
}

// S3Config holds AWS S3 configuration for the seed catalogue.
type S3Config struct {
	Enabled bool   `env:"S3_ENABLED" envDefault:"false"`
	Bucket  string `env:"S3_BUCKET"`
	Region  string `env:"S3_REGION" envDefault:"us-east-1"`
	Prefix  string `env:"S3_PREFIX" envDefault:"seeds/"`
}

// SeedConfig controls the start-up restaurant import.
type SeedConfig struct {
	Enabled   bool     `env:"SEED_ENABLED" envDefault:"false"`
	FilePaths []string `env:"SEED_FILES" envSeparator:","`
}

// SessionConfig bounds the admin session registry.
type SessionConfig struct {
	MaxOpen int `env:"SESSION_MAX_OPEN" envDefault:"100"`
}

// I18nConfig selects the locale used when negotiation fails.
type I18nConfig struct {
	DefaultLocale string `env:"I18N_DEFAULT_LOCALE" envDefault:"en-US"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ShutdownTimeout < 1 {
		return fmt.Errorf("server shutdown timeout must be at least 1 second")
	}

	switch c.DataBackend {
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid data backend: %s (must be postgres or memory)", c.DataBackend)
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	if c.Seed.Enabled && len(c.Seed.FilePaths) == 0 {
		return fmt.Errorf("seed files are required when seeding is enabled")
	}

	if c.Session.MaxOpen < 1 {
		return fmt.Errorf("session max open must be at least 1")
	}

	if c.I18n.DefaultLocale == "" {
		return fmt.Errorf("default locale is required")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
