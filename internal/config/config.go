package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// Database
	DBPath string

	// Actor name stamped into record audit fields
	Actor string

	// Logging
	LogLevel string

	// Directory export files are written to
	ExportDir string
}

func Load() *Config {
	return &Config{
		DBPath:    getEnv("LEDGERBOOK_DB_PATH", defaultDBPath()),
		Actor:     getEnv("LEDGERBOOK_ACTOR", "Local User"),
		LogLevel:  getEnv("LEDGERBOOK_LOG_LEVEL", "warn"),
		ExportDir: getEnv("LEDGERBOOK_EXPORT_DIR", "."),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if strings.TrimSpace(c.Actor) == "" {
		errors = append(errors, "actor name cannot be empty")
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if c.ExportDir == "" {
		errors = append(errors, "export directory cannot be empty")
	} else if info, err := os.Stat(c.ExportDir); err == nil && !info.IsDir() {
		errors = append(errors, fmt.Sprintf("export path '%s' is not a directory", c.ExportDir))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ParseLogLevel maps the configured level name to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", level)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data/ledgerbook.db"
	}
	return filepath.Join(home, ".ledgerbook", "ledgerbook.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
