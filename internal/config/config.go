package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Gateway   GatewayConfig
	Security  SecurityConfig
	BasicAuth BasicAuthConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// Driver returns the GORM dialect implied by the connection URL
func (c DatabaseConfig) Driver() string {
	if strings.HasPrefix(c.URL, "postgres://") || strings.HasPrefix(c.URL, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// SQLitePath strips the sqlite:// scheme from the connection URL
func (c DatabaseConfig) SQLitePath() string {
	return strings.TrimPrefix(c.URL, "sqlite://")
}

// RedisConfig holds Redis configuration. An empty URL disables Redis.
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// Enabled reports whether a Redis URL was configured
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// GatewayConfig holds payment gateway OAuth application credentials
type GatewayConfig struct {
	Environment  string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	BaseURL      string
	Timeout      time.Duration
}

// SecurityConfig holds token encryption keys.
// TokenKeys is a comma separated list of kid:base64secret pairs; the first one encrypts.
type SecurityConfig struct {
	TokenKeys      string
	LegacyTokenKey string
}

// BasicAuthConfig gates the UI behind HTTP basic auth when both values are set
type BasicAuthConfig struct {
	Username string
	Password string
}

// Enabled reports whether basic auth is configured
func (c BasicAuthConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "4567"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "sqlite://db/development.sqlite3"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Gateway: GatewayConfig{
			Environment:  getEnv("BRAINTREE_ENVIRONMENT", "sandbox"),
			ClientID:     getEnv("BRAINTREE_CLIENT_ID", ""),
			ClientSecret: getEnv("BRAINTREE_CLIENT_SECRET", ""),
			RedirectURI:  getEnv("BRAINTREE_REDIRECT_URI", "http://localhost:4567/callback"),
			BaseURL:      getEnv("GATEWAY_BASE_URL", ""),
			Timeout:      getEnvAsDuration("GATEWAY_TIMEOUT", 60*time.Second),
		},
		Security: SecurityConfig{
			TokenKeys:      getEnv("TOKEN_ENCRYPTION_KEYS", "k1:Jt4BWW375DkoBaiX22bQRt6xzwnFdUIbTCENxK4lOqw="),
			LegacyTokenKey: getEnv("LEGACY_TOKEN_KEY", "Jt4BWW375DkoBaiX22bQRt6xzwnFdUIbTCENxK4lOqw="), // base64, 32 bytes
		},
		BasicAuth: BasicAuthConfig{
			Username: getEnv("BASIC_AUTH_USERNAME", ""),
			Password: getEnv("BASIC_AUTH_PASSWORD", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
