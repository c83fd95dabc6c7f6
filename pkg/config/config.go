package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Dataset
	Data DataConfig

	// Reports
	Reports ReportsConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DataConfig holds flat-file dataset configuration.
type DataConfig struct {
	// Path is the canonical daily sales CSV consumed by every analysis run.
	Path string

	// BackupPath receives a copy of the current dataset before an import
	// replaces it, so a failed import can be rolled back.
	BackupPath string

	// UploadMaxBytes caps the request body size on the import endpoint.
	UploadMaxBytes int64

	// ImportPerMinute limits how many imports the server accepts per minute.
	ImportPerMinute int
}

// ReportsConfig holds scheduled report configuration.
type ReportsConfig struct {
	// Dir is where the daily report job writes its text reports.
	Dir string

	// Schedule is the cron expression (with seconds) for the daily report job.
	Schedule string
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8085"),
		Env:  getEnv("ENV", "development"),

		Data: DataConfig{
			Path:            getEnv("DATA_PATH", filepath.Join("data", "daily_sales.csv")),
			BackupPath:      getEnv("DATA_BACKUP_PATH", filepath.Join("data", "daily_sales_backup.csv")),
			UploadMaxBytes:  getEnvAsInt64("UPLOAD_MAX_BYTES", 16<<20),
			ImportPerMinute: getEnvAsInt("IMPORT_PER_MINUTE", 6),
		},

		Reports: ReportsConfig{
			Dir:      getEnv("REPORTS_DIR", "reports"),
			Schedule: getEnv("REPORT_SCHEDULE", "0 0 7 * * *"), // 7 AM daily (with seconds)
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Data.Path == "" {
		return fmt.Errorf("DATA_PATH is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Data.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
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

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
