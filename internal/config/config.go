// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every tunable for the API server and the archive worker.
type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Persistence
	StorageBackend string
	SQLiteDBPath   string
	DataDir        string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Archive (worker side)
	ArchiveBackend      string
	ArchiveCSVPath      string
	GoogleSpreadsheetID string
	GoogleSheetName     string
	GoogleCredFile      string

	// Stats cache
	StatsCacheSize int
	StatsCacheTTL  time.Duration
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8082"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		StorageBackend: getEnv("STORAGE_BACKEND", "sqlite"),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/betledger.db"),
		DataDir:        getEnv("DATA_DIR", "./data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "betledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "archive_entries"),

		ArchiveBackend:      getEnv("ARCHIVE_BACKEND", "csv"),
		ArchiveCSVPath:      getEnv("ARCHIVE_CSV_PATH", "./data/archive.csv"),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),
		GoogleCredFile:      getEnv("GOOGLE_CREDENTIALS_FILE", ""),

		StatsCacheSize: getEnvInt("STATS_CACHE_SIZE", 64),
		StatsCacheTTL:  getEnvDuration("STATS_CACHE_TTL", 30*time.Second),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StorageBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using the sqlite backend")
		}
	case "memory":
	default:
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be 'sqlite' or 'memory'", c.StorageBackend))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.ArchiveBackend {
	case "csv":
		if c.ArchiveCSVPath == "" {
			errors = append(errors, "archive CSV path cannot be empty when using the csv archive backend")
		}
	case "gsheet":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google spreadsheet ID is required when using the gsheet archive backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google sheet name is required when using the gsheet archive backend")
		}
		if c.GoogleCredFile == "" {
			errors = append(errors, "Google credentials file is required when using the gsheet archive backend")
		} else if _, err := os.Stat(c.GoogleCredFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredFile))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid archive backend '%s': must be 'csv' or 'gsheet'", c.ArchiveBackend))
	}

	if c.StatsCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid stats cache size %d: must be at least 1", c.StatsCacheSize))
	}
	if c.StatsCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid stats cache TTL %v: must be at least 1 second", c.StatsCacheTTL))
	} else if c.StatsCacheTTL > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid stats cache TTL %v: must be at most 1 hour", c.StatsCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
