package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"nekobudget/internal/log"
)

const (
	DefaultDBPath       = "nekobudget.db"
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 1000
)

type Config struct {
	// Database
	DBPath string

	// Logging
	LogLevel string

	// Bill-account history rows shown when no --limit is given
	HistoryLimit int

	// Default directory for XLSX exports
	ExportDir string

	// Refuse withdrawals larger than the current balance
	CheckFunds bool

	// Values that were set but could not be parsed, reported by Validate
	invalid []string
}

func Load() *Config {
	cfg := &Config{
		DBPath:    getEnv("NEKOBUDGET_DB_PATH", DefaultDBPath),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		ExportDir: getEnv("EXPORT_DIR", "."),
	}
	cfg.HistoryLimit = cfg.getEnvInt("HISTORY_LIMIT", DefaultHistoryLimit)
	cfg.CheckFunds = cfg.getEnvBool("CHECK_FUNDS", true)
	return cfg
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	errors := append([]string(nil), c.invalid...)

	if strings.TrimSpace(c.DBPath) == "" {
		errors = append(errors, "database path cannot be empty")
	} else if info, err := os.Stat(c.DBPath); err == nil && info.IsDir() {
		errors = append(errors, fmt.Sprintf("database path '%s' is a directory", c.DBPath))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.HistoryLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid history limit %d: must be at least 1", c.HistoryLimit))
	} else if c.HistoryLimit > MaxHistoryLimit {
		errors = append(errors, fmt.Sprintf("invalid history limit %d: must be at most %d", c.HistoryLimit, MaxHistoryLimit))
	}

	if c.ExportDir == "" {
		errors = append(errors, "export directory cannot be empty")
	} else if info, err := os.Stat(c.ExportDir); err == nil && !info.IsDir() {
		errors = append(errors, fmt.Sprintf("export directory '%s' is not a directory", c.ExportDir))
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

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		c.invalid = append(c.invalid, fmt.Sprintf("invalid %s '%s': must be a number", key, value))
		return defaultValue
	}
	return i
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		c.invalid = append(c.invalid, fmt.Sprintf("invalid %s '%s': must be true or false", key, value))
		return defaultValue
	}
	return b
}
