package config

import (
	"log/slog"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - bot.go: Discord bot identity and stats keys
//   - spotify.go: Spotify client credentials
//   - database.go: Postgres and Redis configuration
//   - http.go: HTTP server and cookie configuration
type AppConfig struct {
	// IsDev controls development mode behavior (templates and static files from disk).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP    HTTPConfig
	Bot     BotConfig     `envPrefix:"BOT_"`
	Stats   StatsConfig   `envPrefix:"STATS_"`
	Spotify SpotifyConfig `envPrefix:"SPOTIFY_"`

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Bot.Sanitize()
	c.Stats.Sanitize()
	c.Postgres.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks NODE_ENV as a fallback when DEV is unset.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// SlogLevel returns the slog level for LogLevel, defaulting to info.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
