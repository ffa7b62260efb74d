package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/laxenta/laxenta-web/config"
	"github.com/laxenta/laxenta-web/internal/adapters/discord"
	"github.com/laxenta/laxenta-web/internal/adapters/spotify"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	"github.com/laxenta/laxenta-web/internal/ports"
)

// newProfileSource returns a Discord-backed profile source when a bot token
// is configured, and the configured identity otherwise.
//
//nolint:ireturn // callers only need the port.
func newProfileSource(cfg config.BotConfig, logger *slog.Logger) (ports.BotProfileSource, error) {
	fallback := model.BotProfile{ID: cfg.ClientID, Name: cfg.Name, AvatarURL: cfg.AvatarURL}
	if cfg.Token == "" {
		logger.Info("bot token not configured; using static bot profile")
		return discord.StaticProfile(fallback), nil
	}

	fetcher, err := discord.NewSessionFetcher(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	src, err := discord.NewProfileSource(discord.ProfileSourceOptions{
		Fetcher:  fetcher,
		Fallback: fallback,
		TTL:      cfg.ProfileTTL,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create discord profile source: %w", err)
	}
	return src, nil
}

// newTokenRefresher returns nil when Spotify credentials are not configured;
// the refresh endpoint then answers 503.
//
//nolint:ireturn // callers only need the port.
func newTokenRefresher(cfg config.SpotifyConfig, logger *slog.Logger) (ports.TokenRefresher, error) {
	if !cfg.Enabled() {
		logger.Info("spotify credentials not configured; token refresh disabled")
		return nil, nil
	}
	r, err := spotify.NewTokenRefresher(spotify.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create spotify token refresher: %w", err)
	}
	return r, nil
}
