package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Directories
	DataDir   string // per-symbol bar CSVs live here
	OutputDir string // stage output CSVs are written here

	// Market data provider
	Provider ProviderConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// ProviderConfig holds the chart-data provider configuration.
type ProviderConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64 // rate limit applied by the fetcher
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		DataDir:   getEnv("SCREENER_DATA_DIR", "data"),
		OutputDir: getEnv("SCREENER_OUTPUT_DIR", "out"),

		Provider: ProviderConfig{
			BaseURL:        getEnv("PROVIDER_BASE_URL", "https://fchart.stock.example.com/siseJson"),
			Timeout:        getEnvAsDuration("PROVIDER_TIMEOUT", "30s"),
			RequestsPerSec: getEnvAsFloat("PROVIDER_REQUESTS_PER_SEC", 2.0),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("SCREENER_DATA_DIR must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("SCREENER_OUTPUT_DIR must not be empty")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
