// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	apperrors "github.com/allisson/vault/internal/errors"
	customValidation "github.com/allisson/vault/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ShutdownTimeout bounds how long graceful shutdown may take.
	ShutdownTimeout time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RootSecret is the base64-encoded 32-byte secret every key version is derived from.
	RootSecret string
	// KeyRotationInterval is the time between scheduled key rotations.
	KeyRotationInterval time.Duration
	// KeyRotationRetryInterval is the delay before retrying a failed scheduled rotation.
	KeyRotationRetryInterval time.Duration
	// CipherAlgorithm is the AEAD algorithm used for new records.
	CipherAlgorithm string

	// MaxPayloadBytes caps the size of request bodies.
	MaxPayloadBytes int

	// RateLimitEnabled indicates whether per-IP rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per client IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for per-IP rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:      env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:      env.GetInt("SERVER_PORT", 8080),
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 10, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Keys
		RootSecret:               env.GetString("ROOT_SECRET", ""),
		KeyRotationInterval:      env.GetDuration("KEY_ROTATION_INTERVAL_MS", 3600000, time.Millisecond),
		KeyRotationRetryInterval: env.GetDuration("KEY_ROTATION_RETRY_SECONDS", 30, time.Second),
		CipherAlgorithm:          env.GetString("CIPHER_ALGORITHM", string(cryptoDomain.AESGCM)),

		// Requests
		MaxPayloadBytes: env.GetInt("MAX_PAYLOAD_BYTES", 1<<20),

		// Rate Limiting (per client IP)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "vault"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate checks the settings that do not depend on the root secret.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.KeyRotationInterval, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.KeyRotationRetryInterval, validation.Required),
		validation.Field(&c.CipherAlgorithm, validation.Required, customValidation.Algorithm),
		validation.Field(&c.MaxPayloadBytes, validation.Required, validation.Min(1)),
		validation.Field(&c.RateLimitBurst, validation.When(c.RateLimitEnabled, validation.Min(1))),
		validation.Field(&c.MetricsPort, validation.When(c.MetricsEnabled, validation.Min(1), validation.Max(65535))),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

// LoadRootSecret decodes ROOT_SECRET into a locked buffer.
func (c *Config) LoadRootSecret() (*cryptoDomain.RootSecret, error) {
	if c.RootSecret == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "ROOT_SECRET is not set")
	}
	return cryptoDomain.ParseRootSecret(c.RootSecret)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
