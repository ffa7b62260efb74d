package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	redisadapter "github.com/laxenta/laxenta-web/internal/adapters/redis"
	"github.com/laxenta/laxenta-web/internal/bootstrap"
	"github.com/laxenta/laxenta-web/internal/data"
	"github.com/laxenta/laxenta-web/internal/devseed"
)

// dbOptions covers the flags shared by the database commands.
type dbOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}
		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runDBReset(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBResetFlags(args)
	if err != nil {
		return err
	}

	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)

	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop and recreate the public schema")
	if err != nil {
		return err
	}
	// A remote host always gets the prompt, even with --yes.
	if !opts.Yes || remote {
		if confirmErr := confirmAction(cmdCtx, "reset database schema", target); confirmErr != nil {
			return confirmErr
		}
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if resetErr := cmdCtx.resetDatabase(ctx, db); resetErr != nil {
			return resetErr
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		if opts.Seed {
			cmdCtx.Logger.Info("seeding development data after reset")
			if seedErr := seed(ctx, cmdCtx, db); seedErr != nil {
				return seedErr
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}

	if _, guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "seed development data on the configured database"); guardErr != nil {
		return guardErr
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("seeding development data")
		if seedErr := seed(ctx, cmdCtx, db); seedErr != nil {
			return seedErr
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

// seed writes demo users to db and demo stats to the configured Redis.
func seed(ctx context.Context, cmdCtx *commandContext, db *sql.DB) error {
	redisClient, err := maybeConnectRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	stats, err := redisadapter.NewBotStatsStore(redisClient, redisadapter.BotStatsStoreOptions{
		StatsKey:      cmdCtx.Config.Stats.Key,
		NowPlayingKey: cmdCtx.Config.Stats.NowPlayingKey,
		Logger:        cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("create bot stats store: %w", err)
	}

	if seedErr := devseed.Run(ctx, devseed.Services{
		Users: data.NewUserRepo(db),
		Stats: stats,
	}, cmdCtx.Logger); seedErr != nil {
		return fmt.Errorf("seed data: %w", seedErr)
	}
	return nil
}

// parseDBFlags parses the timeout flag plus whatever extra registers.
func parseDBFlags(name string, args []string, extra func(*flag.FlagSet, *dbOptions)) (dbOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts dbOptions
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration for the "+name+" command")
	if extra != nil {
		extra(fs, &opts)
	}
	if err := fs.Parse(args); err != nil {
		return dbOptions{}, err
	}
	if opts.Timeout <= 0 {
		return dbOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func allowRemoteFlag(fs *flag.FlagSet, opts *dbOptions) {
	fs.BoolVar(&opts.AllowRemote, "allow-remote", false, "Permit database hosts that do not look local")
}

func parseMigrateFlags(args []string) (dbOptions, error) {
	return parseDBFlags("migrate", args, nil)
}

func parseDBResetFlags(args []string) (dbOptions, error) {
	return parseDBFlags("db-reset", args, func(fs *flag.FlagSet, opts *dbOptions) {
		fs.BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt on local hosts")
		fs.BoolVar(&opts.Seed, "seed", false, "Seed demo users and stats after the reset")
		allowRemoteFlag(fs, opts)
	})
}

func parseDBSeedFlags(args []string) (dbOptions, error) {
	return parseDBFlags("db-seed", args, allowRemoteFlag)
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

func guardRemoteHost(cmdCtx *commandContext, allow bool, action string) (bool, error) {
	remote := isLikelyRemoteHost(cmdCtx.Config.Postgres.Host)
	if !remote {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			cmdCtx.Config.Postgres.Host,
		)
	}
	if err := requireRemoteHostConfirmation(cmdCtx, action, cmdCtx.Config.Postgres.Host); err != nil {
		return true, err
	}
	return true, nil
}

// resetStatements recreates the public schema and regrants it to owner.
func resetStatements(owner string) []string {
	stmts := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if owner = strings.TrimSpace(owner); owner != "" && !strings.EqualFold(owner, "public") {
		stmts = append(stmts, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(owner))
	}
	return stmts
}

func (cmdCtx *commandContext) resetDatabase(ctx context.Context, db *sql.DB) error {
	for _, stmt := range resetStatements(cmdCtx.Config.Postgres.User) {
		cmdCtx.Logger.DebugContext(ctx, "executing reset statement", "sql", stmt)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" || h == "localhost" || strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

var errAborted = errors.New("aborted by user")

// requireRemoteHostConfirmation makes the operator type the host name back.
func requireRemoteHostConfirmation(cmdCtx *commandContext, action, host string) error {
	if err := writef(cmdCtx.out(),
		"\nWARNING: database host %q does not look local.\nThis will %s.\nType %q to continue or press enter to abort: ",
		host, action, host,
	); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	if readAnswer(cmdCtx) != host {
		return errAborted
	}
	return nil
}

func confirmAction(cmdCtx *commandContext, actionType, target string) error {
	if err := writef(cmdCtx.out(), "About to %s for %s.\nContinue? [y/N]: ", actionType, target); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	switch strings.ToLower(readAnswer(cmdCtx)) {
	case "y", "yes":
		return nil
	default:
		return errAborted
	}
}

// readAnswer returns one trimmed line of operator input, "" on EOF.
func readAnswer(cmdCtx *commandContext) string {
	line, err := cmdCtx.in().ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
