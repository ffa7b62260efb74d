package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/laxenta/laxenta-web/config"
	"github.com/laxenta/laxenta-web/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
	In     io.Reader

	reader *bufio.Reader
}

// in buffers operator input once so consecutive prompts share it.
func (c *commandContext) in() *bufio.Reader {
	if c.reader == nil {
		var src io.Reader = os.Stdin
		if c.In != nil {
			src = c.In
		}
		c.reader = bufio.NewReader(src)
	}
	return c.reader
}

func (c *commandContext) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = 30 * time.Second
)

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	bootstrap.SetLogLevel(cfg.SlogLevel())

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema, run migrations, and optionally seed data",
			run:         runDBReset,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Run database migrations and seed demo users, stats and now playing",
			run:         runDBSeed,
		},
		"show-stats": {
			name:        "show-stats",
			description: "Print the bot stats and now-playing list the landing page reads",
			run:         runShowStats,
		},
		"set-stats": {
			name:        "set-stats",
			description: "Overwrite the bot stats counters in Redis",
			run:         runSetStats,
		},
		"push-now-playing": {
			name:        "push-now-playing",
			description: "Push a track to the head of the now-playing list",
			run:         runPushNowPlaying,
		},
		"clear-now-playing": {
			name:        "clear-now-playing",
			description: "Empty the now-playing list",
			run:         runClearNowPlaying,
		},
		"dev-session": {
			name:        "dev-session",
			description: "Create a login session for a user and print its cookie",
			run:         runDevSession,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: laxenta-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		if err := writef(w, "  %-24s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
