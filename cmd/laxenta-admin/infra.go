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
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/laxenta/laxenta-web/config"
	"github.com/laxenta/laxenta-web/internal/bootstrap"
)

var errRedisNotConfigured = errors.New("redis not configured")

// connectInfra connects Postgres and Redis for commands that need both.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectInfra(logger *slog.Logger, cfg *config.AppConfig) (*sql.DB, redis.UniversalClient, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}

	redisClient, err := maybeConnectRedis(logger, &cfg.Redis)
	if err != nil {
		return nil, nil, errors.Join(err, closeInfra(db, nil))
	}
	return db, redisClient, nil
}

// maybeConnectRedis returns a connected client when configuration is present.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func maybeConnectRedis(logger *slog.Logger, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if !hasRedisConfig(cfg) {
		return nil, errRedisNotConfigured
	}
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: *cfg, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// hasRedisConfig reports whether cfg names at least one address for its mode.
func hasRedisConfig(cfg *config.RedisConfig) bool {
	switch {
	case cfg == nil:
		return false
	case cfg.UseCluster:
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	case cfg.UseSentinel:
		return len(cfg.SentinelNodes) > 0
	default:
		return cfg.URI != ""
	}
}

// withRedis runs f with a Redis client and a signal-aware timeout context.
func withRedis(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, redis.UniversalClient) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := maybeConnectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	runErr := f(ctx, client)
	if closeErr := closeInfra(nil, client); closeErr != nil {
		cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
	}
	return runErr
}

// closeInfra closes whichever of db and redisClient is non-nil.
func closeInfra(db *sql.DB, redisClient redis.UniversalClient) error {
	var errs []error
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}
