// Package devseed fills a local database and Redis with demo users, stats
// and a now-playing queue so the landing page has something to show.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
)

// UserStore is the subset of the user directory seeding writes to.
type UserStore interface {
	Upsert(ctx context.Context, u *model.User) error
	AddSession(ctx context.Context, discordID string, s model.UserSession) error
}

// StatsStore is the subset of the bot stats store seeding writes to.
type StatsStore interface {
	SetStats(ctx context.Context, stats model.BotStats) error
	ClearNowPlaying(ctx context.Context) error
	PushNowPlaying(ctx context.Context, t model.Track, keep int) error
}

// Services bundles the dependencies needed for development seeding.
type Services struct {
	Users UserStore
	Stats StatsStore
	Now   func() time.Time
}

// Demo session ids. dev-session mints fresh ones; these exist so a developer
// can set the cookie by hand.
const (
	LinkedSessionID   = "dev-session-linked"
	UnlinkedSessionID = "dev-session-unlinked"
)

const nowPlayingKeep = 10

// Stats published by Run.
var Stats = model.BotStats{Servers: 42, Users: 1000, SongsPlayed: 5000}

// Run executes the full development seeding workflow.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	if svcs.Users == nil || svcs.Stats == nil {
		return errors.New("devseed: user and stats stores are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if svcs.Now != nil {
		now = svcs.Now
	}

	failures := 0
	failures += seedUsers(ctx, svcs.Users, now().UTC(), logger)
	if err := seedStats(ctx, svcs.Stats, logger); err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("devseed: %d seed step(s) failed", failures)
	}
	return nil
}

type seedUser struct {
	user     model.User
	sessions []model.UserSession
}

func demoUsers(now time.Time) []seedUser {
	return []seedUser{
		{
			user: model.User{DiscordID: "100000000000000001", Username: "dj-dev"},
			sessions: []model.UserSession{
				{
					SessionID: LinkedSessionID,
					IP:        "127.0.0.1",
					IsActive:  true,
					CreatedAt: now,
					Spotify: &model.SpotifyLink{
						AccessToken:  "dev-access-token",
						RefreshToken: "dev-refresh-token",
						ExpiresAt:    now.Add(time.Hour),
						ProfileID:    "dev-spotify",
						DisplayName:  "DJ Dev",
					},
				},
				{SessionID: UnlinkedSessionID, IP: "127.0.0.1", IsActive: true, CreatedAt: now.Add(time.Second)},
			},
		},
		{
			user: model.User{DiscordID: "100000000000000002", Username: "listener"},
		},
	}
}

func seedUsers(ctx context.Context, users UserStore, now time.Time, logger *slog.Logger) int {
	failures := 0
	for _, su := range demoUsers(now) {
		u := su.user
		if err := users.Upsert(ctx, &u); err != nil {
			logger.WarnContext(ctx, "failed to seed user", "discord_id", u.DiscordID, "error", err)
			failures++
			continue
		}
		for _, s := range su.sessions {
			err := users.AddSession(ctx, u.DiscordID, s)
			switch {
			case err == nil:
				logger.InfoContext(ctx, "seeded session", "discord_id", u.DiscordID, "session_id", s.SessionID,
					"spotify", s.HasSpotify())
			case apperrors.IsConflict(err):
				logger.InfoContext(ctx, "session already present", "session_id", s.SessionID)
			default:
				logger.WarnContext(ctx, "failed to seed session", "session_id", s.SessionID, "error", err)
				failures++
			}
		}
	}
	return failures
}

func demoTracks() []model.Track {
	return []model.Track{
		{Title: "Lo-fi beats to debug to", Thumbnail: "https://i.ytimg.com/vi/jfKfPfyJRdk/hqdefault.jpg", GuildName: "Laxenta Lounge"},
		{Title: "Midnight City", Thumbnail: "https://i.ytimg.com/vi/dX3k_QDnzHE/hqdefault.jpg", GuildName: "Night Owls"},
	}
}

func seedStats(ctx context.Context, stats StatsStore, logger *slog.Logger) error {
	if err := stats.SetStats(ctx, Stats); err != nil {
		return fmt.Errorf("seed stats: %w", err)
	}
	if err := stats.ClearNowPlaying(ctx); err != nil {
		return fmt.Errorf("clear now playing: %w", err)
	}
	// Pushed oldest first so the first demo track ends up current.
	tracks := demoTracks()
	for i := len(tracks) - 1; i >= 0; i-- {
		if err := stats.PushNowPlaying(ctx, tracks[i], nowPlayingKeep); err != nil {
			return fmt.Errorf("seed now playing: %w", err)
		}
	}
	logger.InfoContext(ctx, "seeded bot stats", "servers", Stats.Servers, "tracks", len(tracks))
	return nil
}
