package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Extract  ExtractConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN           string
	HealthTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr  string
	UploadDir string
}

// ExtractConfig holds extraction pipeline configuration. Provider selects the
// strategy (heuristic or delegated); the remaining fields only matter for the
// delegated service.
type ExtractConfig struct {
	Provider        string
	APIKey          string
	BaseURL         string
	Model           string
	DisableJSONMode bool
	Timeout         time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:           getEnv("DB_URL", "file:data/app.db"),
			HealthTimeout: getEnvAsDuration("DB_HEALTH_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr:  getEnv("HTTP_ADDR", ":5000"),
			UploadDir: getEnv("UPLOAD_DIR", "data/uploads"),
		},
		Extract: ExtractConfig{
			Provider:        getEnv("LLM_PROVIDER", "heuristic"),
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			DisableJSONMode: getEnvAsBool("LLM_DISABLE_JSON_MODE", false),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 90*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
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

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if strings.EqualFold(strings.TrimSpace(c.Extract.Provider), "delegated") && c.Extract.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the delegated provider", ErrMissingCredential)
	}
	return nil
}
