package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/laxenta/laxenta-web/config"
)

//nolint:gochecknoglobals // shared with the default logger installed by InitLogger
var logLevel = new(slog.LevelVar)

// InitLogger initializes the structured logger at info level.
// SetLogLevel adjusts it once configuration is loaded.
func InitLogger() *slog.Logger {
	logLevel.Set(slog.LevelInfo)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// SetLogLevel changes the level of the logger returned by InitLogger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
