package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/laxenta/laxenta-web/config"
	redisadapter "github.com/laxenta/laxenta-web/internal/adapters/redis"
	"github.com/laxenta/laxenta-web/internal/data"
	"github.com/laxenta/laxenta-web/internal/ports"
	"github.com/laxenta/laxenta-web/internal/service"
)

// ServiceContainer holds the services and stores shared by the web process
// and the admin tooling.
type ServiceContainer struct {
	Auth    *service.AuthService
	Landing *service.LandingService
	Spotify *service.SpotifyService

	Users    *data.UserRepo
	Sessions *redisadapter.SessionStore
	BotStats *redisadapter.BotStatsStore
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger

	// Optional overrides, used by tests and tooling.
	Profile   ports.BotProfileSource
	Refresher ports.TokenRefresher
}

// NewServices wires stores, adapters and services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database is required")
	}
	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("redis client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	users := data.NewUserRepo(deps.DB)
	sessions := redisadapter.NewSessionStore(deps.RedisClient)
	botStats, err := redisadapter.NewBotStatsStore(deps.RedisClient, redisadapter.BotStatsStoreOptions{
		StatsKey:      cfg.Stats.Key,
		NowPlayingKey: cfg.Stats.NowPlayingKey,
		Logger:        logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create bot stats store: %w", err)
	}

	profile := deps.Profile
	if profile == nil {
		if profile, err = newProfileSource(cfg.Bot, logger); err != nil {
			return ServiceContainer{}, err
		}
	}
	refresher := deps.Refresher
	if refresher == nil {
		if refresher, err = newTokenRefresher(cfg.Spotify, logger); err != nil {
			return ServiceContainer{}, err
		}
	}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Sessions: sessions,
		Users:    users,
		Logger:   logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create auth service: %w", err)
	}
	landingSvc, err := service.NewLandingService(service.LandingServiceOptions{
		Users:      users,
		Stats:      botStats,
		NowPlaying: botStats,
		Profile:    profile,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create landing service: %w", err)
	}
	spotifySvc, err := service.NewSpotifyService(service.SpotifyServiceOptions{
		Users:     users,
		Refresher: refresher,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create spotify service: %w", err)
	}

	return ServiceContainer{
		Auth:     authSvc,
		Landing:  landingSvc,
		Spotify:  spotifySvc,
		Users:    users,
		Sessions: sessions,
		BotStats: botStats,
	}, nil
}

// RunConfig contains everything needed to serve until ctx is canceled.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// Run serves HTTP until ctx is canceled or the server fails, then drains
// in-flight requests.
func Run(ctx context.Context, cfg RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down services...")
	case runErr = <-errCh:
		logger.Error("service error", "error", runErr)
	}

	// The parent context is already canceled, so draining uses a fresh one.
	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: context.WithoutCancel(ctx),
		Server:  server,
		Logger:  logger,
	}); err != nil {
		return errors.Join(runErr, fmt.Errorf("shutdown http server: %w", err))
	}
	return runErr
}
