package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/laxenta/laxenta-web/config"
	"github.com/laxenta/laxenta-web/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

// infra holds the connections shared by every request handler.
type infra struct {
	db    *sql.DB
	redis redis.UniversalClient
}

func (i infra) close() error {
	var errs []error
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if i.db != nil {
		if err := i.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	bootstrap.SetLogLevel(cfg.SlogLevel())
	logStartupInfo(ctx, logger, &cfg)

	conns, err := connect(&cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conns.close(); cerr != nil {
			logger.ErrorContext(ctx, "shutdown close failed", "error", cerr)
		}
	}()

	if !cfg.Postgres.RunMigrationsOnStart {
		logger.InfoContext(ctx, "startup migrations disabled")
	} else if err = bootstrap.RunMigrations(ctx, conns.db, logger); err != nil {
		return err
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          conns.db,
		RedisClient: conns.redis,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.Run(ctx, bootstrap.RunConfig{Config: &cfg, Services: services, Logger: logger})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting laxenta web",
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"bot", cfg.Bot.Name,
		"discord_profile", cfg.Bot.Token != "",
		"spotify_refresh", cfg.Spotify.Enabled(),
		"db_host", cfg.Postgres.Host,
		"db_name", cfg.Postgres.Name)
}

// connect opens Postgres (user directory) then Redis (sessions, bot stats).
// A Redis failure releases the database pool.
func connect(cfg *config.AppConfig, logger *slog.Logger) (infra, error) {
	dbCfg := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}

	db, err := bootstrap.ConnectDB(dbCfg)
	if err != nil {
		return infra{}, fmt.Errorf("connect db: %w", err)
	}
	client, err := bootstrap.ConnectRedis(dbCfg)
	if err != nil {
		err = fmt.Errorf("connect redis: %w", err)
		return infra{}, errors.Join(err, infra{db: db}.close())
	}
	return infra{db: db, redis: client}, nil
}
