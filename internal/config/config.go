// Package config provides environment configuration for the sync agent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the agent.
type Config struct {
	// Upstream API settings
	UpstreamURL     string
	UpstreamTimeout time.Duration
	CSRFPath        string

	// Login credentials for the agent's session
	Email    string
	Password string
	Role     string

	// Local surface settings
	AgentPort          string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Polling intervals
	MessageRefreshInterval time.Duration
	MarkReadInterval       time.Duration
	ListRefreshInterval    time.Duration

	// Outbox settings
	OutboxCapacity   int
	OutboxMaxRetries int

	// NATS settings (fan-out is disabled when URL is empty)
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Rate limiting for the local surface
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from the environment, after loading an optional
// .env file, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Upstream
		UpstreamURL:     getEnv("UPSTREAM_URL", "http://localhost:8000/api/v1"),
		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", 15*time.Second),
		CSRFPath:        getEnv("CSRF_PATH", "/sanctum/csrf-cookie"),

		// Credentials
		Email:    getEnv("AGENT_EMAIL", ""),
		Password: getEnv("AGENT_PASSWORD", ""),
		Role:     getEnv("AGENT_ROLE", "employee"),

		// Local surface
		AgentPort:          getEnv("AGENT_PORT", "8090"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),

		// Polling
		MessageRefreshInterval: getDurationEnv("MESSAGE_REFRESH_INTERVAL", 5*time.Second),
		MarkReadInterval:       getDurationEnv("MARK_READ_INTERVAL", 20*time.Second),
		ListRefreshInterval:    getDurationEnv("LIST_REFRESH_INTERVAL", 30*time.Second),

		// Outbox
		OutboxCapacity:   getIntEnv("OUTBOX_CAPACITY", 256),
		OutboxMaxRetries: getIntEnv("OUTBOX_MAX_RETRIES", 3),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.UpstreamURL == "" {
		return fmt.Errorf("UPSTREAM_URL must not be empty")
	}
	if c.MessageRefreshInterval <= 0 {
		return fmt.Errorf("MESSAGE_REFRESH_INTERVAL must be positive")
	}
	if c.MarkReadInterval < c.MessageRefreshInterval {
		return fmt.Errorf("MARK_READ_INTERVAL must not be shorter than MESSAGE_REFRESH_INTERVAL")
	}
	if c.ListRefreshInterval <= 0 {
		return fmt.Errorf("LIST_REFRESH_INTERVAL must be positive")
	}
	if c.OutboxCapacity < 1 {
		return fmt.Errorf("OUTBOX_CAPACITY must be at least 1")
	}
	if c.OutboxMaxRetries < 0 {
		return fmt.Errorf("OUTBOX_MAX_RETRIES must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
