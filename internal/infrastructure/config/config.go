// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion       string
	LogLevel         string
	MetricsNamespace string

	// Server
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	AllowedOrigin string
	PollInterval  time.Duration
	ActionTimeout time.Duration

	// MongoDB run log, disabled when MongoURI is empty
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL submitted-email archive, disabled when PostgresURI is empty
	PostgresURI string

	// Gmail
	GmailClientID         string
	GmailClientSecret     string
	GmailRefreshToken     string
	GmailUserID           string
	GmailPageSize         int
	GmailQuery            string
	GmailFetchConcurrency int

	// Categorization service
	CategorizerURL     string
	CategorizerTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:       getEnv("APP_VERSION", "1.0.0"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "inboxpert"),

		Port:          getEnv("PORT", "8080"),
		ReadTimeout:   getEnvAsDuration("READ_TIMEOUT", 30),
		WriteTimeout:  getEnvAsDuration("WRITE_TIMEOUT", 30),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", ""),
		PollInterval:  getEnvAsDuration("POLL_INTERVAL", 0),
		ActionTimeout: getEnvAsDuration("ACTION_TIMEOUT", 120),

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "inboxpert"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		GmailClientID:         getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret:     getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken:     getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailUserID:           getEnv("GMAIL_USER_ID", "me"),
		GmailPageSize:         getEnvAsInt("GMAIL_PAGE_SIZE", 50),
		GmailQuery:            getEnv("GMAIL_QUERY", ""),
		GmailFetchConcurrency: getEnvAsInt("GMAIL_FETCH_CONCURRENCY", 0),

		CategorizerURL:     strings.TrimRight(getEnv("CATEGORIZER_URL", "http://localhost:8081"), "/"),
		CategorizerTimeout: getEnvAsDuration("CATEGORIZER_TIMEOUT", 0),
	}

	return config, nil
}

// Validate checks the settings the server cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.GmailClientID == "" || c.GmailClientSecret == "" {
		errs = append(errs, errors.New("GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET are required"))
	}
	if c.GmailRefreshToken == "" {
		errs = append(errs, errors.New("GMAIL_REFRESH_TOKEN is required; run cmd/utils/get_token.go to obtain one"))
	}
	if c.CategorizerURL == "" {
		errs = append(errs, errors.New("CATEGORIZER_URL is required"))
	}
	if c.GmailPageSize <= 0 {
		errs = append(errs, errors.New("GMAIL_PAGE_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration reads a whole number of seconds
func getEnvAsDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSeconds)) * time.Second
}
