// Package cli provides common initialization utilities shared by the
// command entrypoints: logging, .env loading, config validation, and
// store setup.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ledgerbook/internal/config"
	"ledgerbook/internal/storage"
)

// SetupLogger initializes structured logging at the configured level
// and sets it as the default logger. Logs go to stderr so command
// output stays clean for piping.
func SetupLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, brings up logging at the
// configured level, and validates. Returns the config and logger or
// exits the process on validation failure.
func LoadAndValidateConfig() (*config.Config, *slog.Logger) {
	cfg := config.Load()
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	logger := SetupLogger(level)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitStore opens the SQLite store at the given path.
// Returns the store or exits the process on failure.
func InitStore(logger *slog.Logger, dbPath string) *storage.Store {
	store, err := storage.NewStore(dbPath)
	if err != nil {
		logger.Error("Failed to open store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return store
}
