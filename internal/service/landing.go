package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/ports"
)

const (
	defaultLandingTimeout = 3 * time.Second
	nowPlayingLimit       = 1
)

// LandingServiceOptions groups dependencies for LandingService.
type LandingServiceOptions struct {
	Users      ports.UserDirectory
	Stats      ports.StatsSource
	NowPlaying ports.NowPlayingSource
	Profile    ports.BotProfileSource
	Timeout    time.Duration // per-request budget for all lookups
	Logger     *slog.Logger
}

// LandingService gathers everything the landing page shows.
type LandingService struct {
	users      ports.UserDirectory
	stats      ports.StatsSource
	nowPlaying ports.NowPlayingSource
	profile    ports.BotProfileSource
	timeout    time.Duration
	logger     *slog.Logger
}

// NewLandingService constructs a LandingService.
func NewLandingService(opts LandingServiceOptions) (*LandingService, error) {
	if opts.Users == nil || opts.Stats == nil || opts.NowPlaying == nil || opts.Profile == nil {
		return nil, errors.New("users, stats, now playing and profile sources are required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultLandingTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LandingService{
		users:      opts.Users,
		stats:      opts.Stats,
		nowPlaying: opts.NowPlaying,
		profile:    opts.Profile,
		timeout:    timeout,
		logger:     logger.With("component", "landing_service"),
	}, nil
}

// LandingData is the per-request input to the landing and error pages.
// User is nil for anonymous visitors; Stats is nil when the bot's counters
// could not be read.
type LandingData struct {
	Session    *domainauth.Session
	User       *model.User
	Stats      *model.BotStats
	NowPlaying []model.Track
	Profile    model.BotProfile
}

// Authenticated reports whether the request maps to a known user.
func (d LandingData) Authenticated() bool {
	return d.Session != nil && d.User != nil
}

// Build loads the user, stats, now-playing and bot profile concurrently.
// Each lookup degrades on failure: the user becomes anonymous, stats become
// absent, now-playing becomes empty and the profile falls back to fallback.
func (s *LandingService) Build(
	ctx context.Context,
	sess *domainauth.Session,
	fallback model.BotProfile,
) LandingData {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data := LandingData{Profile: fallback}
	g, gctx := errgroup.WithContext(ctx)

	if sess != nil {
		g.Go(func() error {
			u, err := s.users.GetByDiscordID(gctx, sess.UserID)
			switch {
			case err == nil:
				data.User = u
				data.Session = sess
			case apperrors.IsNotFound(err):
				s.logger.InfoContext(gctx, "session user not in directory", "user_id", sess.UserID)
			default:
				s.logger.ErrorContext(gctx, "failed to load user", "user_id", sess.UserID, "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		stats, err := s.stats.Stats(gctx)
		if err != nil {
			s.logger.WarnContext(gctx, "failed to load bot stats", "error", err)
			return nil
		}
		data.Stats = &stats
		return nil
	})

	g.Go(func() error {
		tracks, err := s.nowPlaying.NowPlaying(gctx, nowPlayingLimit)
		if err != nil {
			s.logger.WarnContext(gctx, "failed to load now playing", "error", err)
			return nil
		}
		data.NowPlaying = tracks
		return nil
	})

	g.Go(func() error {
		prof, err := s.profile.Profile(gctx)
		if err != nil {
			s.logger.WarnContext(gctx, "failed to load bot profile", "error", err)
			return nil
		}
		data.Profile = mergeProfile(prof, fallback)
		return nil
	})

	// Every lookup degrades instead of failing.
	_ = g.Wait()
	return data
}

func mergeProfile(p, fallback model.BotProfile) model.BotProfile {
	if p.Name == "" {
		p.Name = fallback.Name
	}
	if p.AvatarURL == "" {
		p.AvatarURL = fallback.AvatarURL
	}
	return p
}
