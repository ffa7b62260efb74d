package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/laxenta/laxenta-web/internal/adapters/discord"
	"github.com/laxenta/laxenta-web/internal/bootstrap"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/service"
)

const defaultDevSessionTTL = 24 * time.Hour

type devSessionOptions struct {
	DiscordID   string
	Username    string
	IP          string
	TTL         time.Duration
	Spotify     bool
	AllowRemote bool
}

func parseDevSessionFlags(args []string) (devSessionOptions, error) {
	fs := flag.NewFlagSet("dev-session", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts devSessionOptions
	fs.StringVar(&opts.DiscordID, "user", "", "Discord user id (required)")
	fs.StringVar(&opts.Username, "username", "dev-user", "Username used when the user does not exist yet")
	fs.StringVar(&opts.IP, "ip", "127.0.0.1", "IP address recorded on the session")
	fs.DurationVar(&opts.TTL, "ttl", defaultDevSessionTTL, "Session lifetime")
	fs.BoolVar(&opts.Spotify, "spotify", false, "Attach a placeholder Spotify link to the new session")
	fs.BoolVar(
		&opts.AllowRemote,
		"allow-remote",
		false,
		"Permit running against database hosts that do not look local",
	)

	if err := fs.Parse(args); err != nil {
		return devSessionOptions{}, err
	}
	opts.DiscordID = strings.TrimSpace(opts.DiscordID)
	if opts.DiscordID == "" {
		return devSessionOptions{}, errors.New("--user is required")
	}
	if opts.TTL <= 0 {
		return devSessionOptions{}, errors.New("--ttl must be greater than zero")
	}
	return opts, nil
}

func runDevSession(cmdCtx *commandContext, args []string) error {
	opts, err := parseDevSessionFlags(args)
	if err != nil {
		return err
	}
	if _, guardErr := guardRemoteHost(cmdCtx, opts.AllowRemote, "create a login session"); guardErr != nil {
		return guardErr
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultCommandTimeout)
	defer cancel()

	db, redisClient, err := connectInfra(cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeInfra(db, redisClient); closeErr != nil {
			cmdCtx.Logger.Warn("close infrastructure failed", "error", closeErr)
		}
	}()

	svcs, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cmdCtx.Config,
		DB:          db,
		RedisClient: redisClient,
		Logger:      cmdCtx.Logger,
		Profile: discord.StaticProfile(model.BotProfile{
			ID:        cmdCtx.Config.Bot.ClientID,
			Name:      cmdCtx.Config.Bot.Name,
			AvatarURL: cmdCtx.Config.Bot.AvatarURL,
		}),
	})
	if err != nil {
		return err
	}

	user, err := ensureUser(ctx, svcs, opts)
	if err != nil {
		return err
	}

	sess, err := svcs.Auth.StartSession(ctx, service.StartSessionInput{User: user, IP: opts.IP, TTL: opts.TTL})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	if opts.Spotify {
		tok := model.SpotifyToken{
			AccessToken:  "dev-access-token",
			RefreshToken: "dev-refresh-token",
			ExpiresAt:    sess.CreatedAt.Add(time.Hour),
		}
		if err := svcs.Users.UpdateSpotifyToken(ctx, user.DiscordID, sess.ID, tok); err != nil {
			return fmt.Errorf("link spotify: %w", err)
		}
	}

	return writef(cmdCtx.out(), "session_id=%s\nexpires_at=%s\ncookie: %s=%s\n",
		sess.ID, sess.ExpiresAt.Format(time.RFC3339), cmdCtx.Config.HTTP.SessionCookie, sess.ID)
}

func ensureUser(ctx context.Context, svcs bootstrap.ServiceContainer, opts devSessionOptions) (*model.User, error) {
	user, err := svcs.Users.GetByDiscordID(ctx, opts.DiscordID)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user = &model.User{DiscordID: opts.DiscordID, Username: opts.Username}
	if err := svcs.Users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
