package bootstrap

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/laxenta/laxenta-web/config"
	"github.com/laxenta/laxenta-web/internal/data"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens the Postgres pool behind the user directory and pings it.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", postgresDSN(cfg.DBConfig))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool := cfg.DBConfig
	pool.Sanitize()
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := pingOrClose(db.PingContext, db.Close); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("database connected",
			"host", cfg.DBConfig.Host,
			"port", cfg.DBConfig.Port,
			"database", cfg.DBConfig.Name,
			"max_open_conns", pool.MaxOpenConns,
		)
	}
	return db, nil
}

// postgresDSN builds a URL-form DSN; url.URL escapes special characters in credentials.
func postgresDSN(cfg config.DBConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// pingOrClose pings with a bounded timeout and releases the client on failure.
func pingOrClose(ping func(context.Context) error, closeFn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	err := ping(ctx)
	if err == nil {
		return nil
	}
	if closeErr := closeFn(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close connection: %w", closeErr))
	}
	return err
}

// redisMode is the deployment shape selected by config.RedisConfig.
type redisMode string

const (
	redisDirect   redisMode = "direct"
	redisSentinel redisMode = "sentinel"
	redisCluster  redisMode = "cluster"
)

// redisTarget is a resolved Redis connection description.
type redisTarget struct {
	mode       redisMode
	addrs      []string
	masterName string
	username   string
	password   string
	sentinelPW string
	tls        *tls.Config
}

// describe returns a log-safe description of the target.
func (t redisTarget) describe() string {
	switch t.mode {
	case redisSentinel:
		return "sentinel:" + t.masterName
	case redisCluster:
		return "cluster:" + strings.Join(t.addrs, ",")
	default:
		return strings.Join(t.addrs, ",")
	}
}

// resolveRedisTarget turns configuration into a single connection description.
// Cluster wins over sentinel when both flags are set.
func resolveRedisTarget(cfg config.RedisConfig) (redisTarget, error) {
	switch {
	case cfg.UseCluster:
		t := redisTarget{mode: redisCluster, addrs: normalizeAddrs(cfg.ClusterNodes), password: cfg.Password}
		if len(t.addrs) == 0 {
			if err := t.fillFromURI(cfg.URI); err != nil {
				return redisTarget{}, fmt.Errorf("parse redis cluster url: %w", err)
			}
		}
		if len(t.addrs) == 0 {
			return redisTarget{}, errors.New("redis cluster configuration requires at least one address")
		}
		return t, nil

	case cfg.UseSentinel:
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return redisTarget{}, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return redisTarget{
			mode:       redisSentinel,
			addrs:      nodes,
			masterName: cfg.SentinelMasterName,
			password:   cfg.Password,
			sentinelPW: cfg.SentinelPassword,
		}, nil

	default:
		t := redisTarget{mode: redisDirect, password: cfg.Password}
		if err := t.fillFromURI(cfg.URI); err != nil {
			return redisTarget{}, fmt.Errorf("parse redis url: %w", err)
		}
		if len(t.addrs) == 0 {
			return redisTarget{}, errors.New("redis direct configuration requires a URI")
		}
		return t, nil
	}
}

// fillFromURI accepts either host:port or a redis:// / rediss:// URL.
// Credentials in the URL override the configured password.
func (t *redisTarget) fillFromURI(raw string) error {
	uri := strings.TrimSpace(raw)
	if uri == "" {
		return nil
	}
	if !isRedisURL(uri) {
		t.addrs = []string{uri}
		return nil
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		return err
	}
	t.addrs = []string{opt.Addr}
	t.username = opt.Username
	if opt.Password != "" {
		t.password = opt.Password
	}
	t.tls = opt.TLSConfig
	return nil
}

//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func (t redisTarget) client() redis.UniversalClient {
	switch t.mode {
	case redisCluster:
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:     t.addrs,
			Username:  t.username,
			Password:  t.password,
			TLSConfig: t.tls,
		})
	case redisSentinel:
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       t.masterName,
			SentinelAddrs:    t.addrs,
			Password:         t.password,
			SentinelPassword: t.sentinelPW,
		})
	default:
		return redis.NewClient(&redis.Options{
			Addr:      t.addrs[0],
			Username:  t.username,
			Password:  t.password,
			TLSConfig: t.tls,
		})
	}
}

// ConnectRedis connects to the Redis deployment holding sessions and bot stats.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(cfg DatabaseConfig) (redis.UniversalClient, error) {
	target, err := resolveRedisTarget(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}

	client := target.client()
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := pingOrClose(ping, client.Close); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected", "mode", string(target.mode), "addr", target.describe())
	}
	return client, nil
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// RunMigrations applies the embedded users and user_sessions migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := data.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}
	return nil
}
