// Package cli consolidates the initialization shared by cmd/contas and
// cmd/contas-worker: env loading, logging and configuration.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"contas/internal/config"
	"contas/internal/log"
)

// SetupLogger initializes structured logging for a binary and sets it as
// the default logger. LOG_LEVEL and LOG_JSON are read from the environment.
func SetupLogger(component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.LevelFromEnv(),
		Component: component,
		JSON:      os.Getenv("LOG_JSON") == "true",
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}
