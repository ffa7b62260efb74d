// Package discord resolves the bot's public identity through the Discord REST API.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/sync/singleflight"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	"github.com/laxenta/laxenta-web/internal/ports"
)

const avatarSize = "256"

// UserFetcher is the subset of *discordgo.Session used here.
type UserFetcher interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

var _ ports.BotProfileSource = (*ProfileSource)(nil)

// ProfileSourceOptions configures a ProfileSource.
type ProfileSourceOptions struct {
	Fetcher  UserFetcher      // required
	Fallback model.BotProfile // served when Discord is unreachable
	TTL      time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

// ProfileSource caches the bot user fetched from Discord for TTL.
// Concurrent misses share one request.
type ProfileSource struct {
	fetcher  UserFetcher
	fallback model.BotProfile
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
	group    singleflight.Group

	mu        sync.RWMutex
	cached    model.BotProfile
	hasCached bool
	fetchedAt time.Time
}

// NewProfileSource creates a ProfileSource.
func NewProfileSource(opts ProfileSourceOptions) (*ProfileSource, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("discord user fetcher is required")
	}
	if opts.TTL <= 0 {
		return nil, errors.New("profile ttl must be positive")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileSource{
		fetcher:  opts.Fetcher,
		fallback: opts.Fallback,
		ttl:      opts.TTL,
		now:      now,
		logger:   logger.With("component", "discord_profile"),
	}, nil
}

// NewSessionFetcher opens a REST-only discordgo session for a bot token.
func NewSessionFetcher(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, errors.New("bot token is required")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return s, nil
}

// Profile returns the bot's name and avatar. When Discord fails the last good
// profile is served, or the configured fallback if there is none. It never
// returns an error.
func (p *ProfileSource) Profile(ctx context.Context) (model.BotProfile, error) {
	if prof, ok := p.fresh(); ok {
		return prof, nil
	}

	v, err, _ := p.group.Do("@me", func() (any, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		p.logger.WarnContext(ctx, "discord profile fetch failed, serving fallback", "error", err)
		return p.stale(), nil
	}
	return v.(model.BotProfile), nil
}

func (p *ProfileSource) fresh() (model.BotProfile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.hasCached || p.now().Sub(p.fetchedAt) >= p.ttl {
		return model.BotProfile{}, false
	}
	return p.cached, true
}

func (p *ProfileSource) stale() model.BotProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.hasCached {
		return p.cached
	}
	return p.fallback
}

func (p *ProfileSource) fetch(ctx context.Context) (model.BotProfile, error) {
	u, err := p.fetcher.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return model.BotProfile{}, fmt.Errorf("discord get @me: %w", err)
	}
	if u == nil {
		return model.BotProfile{}, errors.New("discord returned no user")
	}

	prof := toProfile(u, p.fallback)

	p.mu.Lock()
	p.cached = prof
	p.hasCached = true
	p.fetchedAt = p.now()
	p.mu.Unlock()
	return prof, nil
}

func toProfile(u *discordgo.User, fallback model.BotProfile) model.BotProfile {
	prof := model.BotProfile{ID: u.ID, Name: u.Username, AvatarURL: fallback.AvatarURL}
	if u.GlobalName != "" {
		prof.Name = u.GlobalName
	}
	if prof.Name == "" {
		prof.Name = fallback.Name
	}
	if u.Avatar != "" {
		prof.AvatarURL = u.AvatarURL(avatarSize)
	}
	return prof
}

// StaticProfile serves a fixed profile when no bot token is configured.
type StaticProfile model.BotProfile

// Profile returns the fixed profile.
func (s StaticProfile) Profile(context.Context) (model.BotProfile, error) {
	return model.BotProfile(s), nil
}
