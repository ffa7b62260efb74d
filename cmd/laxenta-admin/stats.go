package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/redis/go-redis/v9"

	redisadapter "github.com/laxenta/laxenta-web/internal/adapters/redis"
	"github.com/laxenta/laxenta-web/internal/domain/model"
)

const defaultNowPlayingKeep = 10

type setStatsOptions struct {
	Servers     int64
	Users       int64
	SongsPlayed int64
}

type pushNowPlayingOptions struct {
	Track model.Track
	Keep  int
}

func (cmdCtx *commandContext) statsStore(client redis.UniversalClient) (*redisadapter.BotStatsStore, error) {
	store, err := redisadapter.NewBotStatsStore(client, redisadapter.BotStatsStoreOptions{
		StatsKey:      cmdCtx.Config.Stats.Key,
		NowPlayingKey: cmdCtx.Config.Stats.NowPlayingKey,
		Logger:        cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create bot stats store: %w", err)
	}
	return store, nil
}

func runShowStats(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("show-stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", defaultNowPlayingKeep, "Maximum number of now-playing entries to print")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withRedis(cmdCtx, defaultCommandTimeout, func(ctx context.Context, client redis.UniversalClient) error {
		store, err := cmdCtx.statsStore(client)
		if err != nil {
			return err
		}
		stats, err := store.Stats(ctx)
		if err != nil {
			return err
		}
		tracks, err := store.NowPlaying(ctx, *limit)
		if err != nil {
			return err
		}
		return printStats(cmdCtx, stats, tracks)
	})
}

func printStats(cmdCtx *commandContext, stats model.BotStats, tracks []model.Track) error {
	tw := tabwriter.NewWriter(cmdCtx.out(), 0, 0, 2, ' ', 0)
	lines := []string{
		fmt.Sprintf("Servers:\t%d", stats.Servers),
		fmt.Sprintf("Users:\t%d", stats.Users),
		fmt.Sprintf("Songs played:\t%d", stats.SongsPlayed),
		"",
	}
	if len(tracks) == 0 {
		lines = append(lines, "Now playing:\t(nothing)")
	} else {
		lines = append(lines, "#\tTITLE\tGUILD")
		for i, t := range tracks {
			lines = append(lines, fmt.Sprintf("%d\t%s\t%s", i+1, t.Title, t.GuildName))
		}
	}
	for _, line := range lines {
		if err := writeln(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runSetStats(cmdCtx *commandContext, args []string) error {
	opts, err := parseSetStatsFlags(args)
	if err != nil {
		return err
	}
	return withRedis(cmdCtx, defaultCommandTimeout, func(ctx context.Context, client redis.UniversalClient) error {
		store, err := cmdCtx.statsStore(client)
		if err != nil {
			return err
		}
		stats := model.BotStats(opts)
		if err := store.SetStats(ctx, stats); err != nil {
			return err
		}
		cmdCtx.Logger.InfoContext(ctx, "bot stats updated",
			"servers", stats.Servers, "users", stats.Users, "songs_played", stats.SongsPlayed)
		return nil
	})
}

func parseSetStatsFlags(args []string) (setStatsOptions, error) {
	fs := flag.NewFlagSet("set-stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts setStatsOptions
	fs.Int64Var(&opts.Servers, "servers", 0, "Number of servers the bot is in")
	fs.Int64Var(&opts.Users, "users", 0, "Number of users the bot serves")
	fs.Int64Var(&opts.SongsPlayed, "songs", 0, "Number of songs played")

	if err := fs.Parse(args); err != nil {
		return setStatsOptions{}, err
	}
	if opts.Servers < 0 || opts.Users < 0 || opts.SongsPlayed < 0 {
		return setStatsOptions{}, errors.New("stats must not be negative")
	}
	return opts, nil
}

func runPushNowPlaying(cmdCtx *commandContext, args []string) error {
	opts, err := parsePushNowPlayingFlags(args)
	if err != nil {
		return err
	}
	return withRedis(cmdCtx, defaultCommandTimeout, func(ctx context.Context, client redis.UniversalClient) error {
		store, err := cmdCtx.statsStore(client)
		if err != nil {
			return err
		}
		if err := store.PushNowPlaying(ctx, opts.Track, opts.Keep); err != nil {
			return err
		}
		cmdCtx.Logger.InfoContext(ctx, "now playing updated", "title", opts.Track.Title, "guild", opts.Track.GuildName)
		return nil
	})
}

func parsePushNowPlayingFlags(args []string) (pushNowPlayingOptions, error) {
	fs := flag.NewFlagSet("push-now-playing", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts pushNowPlayingOptions
	fs.StringVar(&opts.Track.Title, "title", "", "Track title (required)")
	fs.StringVar(&opts.Track.Thumbnail, "thumbnail", "", "Thumbnail image URL")
	fs.StringVar(&opts.Track.URL, "url", "", "Track URL")
	fs.StringVar(&opts.Track.Author, "author", "", "Track author")
	fs.StringVar(&opts.Track.GuildID, "guild-id", "", "Discord guild id")
	fs.StringVar(&opts.Track.GuildName, "guild", "", "Discord guild name")
	fs.IntVar(&opts.Keep, "keep", defaultNowPlayingKeep, "Number of entries to keep after pushing")

	if err := fs.Parse(args); err != nil {
		return pushNowPlayingOptions{}, err
	}
	opts.Track.Title = strings.TrimSpace(opts.Track.Title)
	if opts.Track.Title == "" {
		return pushNowPlayingOptions{}, errors.New("--title is required")
	}
	if opts.Keep <= 0 {
		return pushNowPlayingOptions{}, errors.New("--keep must be greater than zero")
	}
	return opts, nil
}

func runClearNowPlaying(cmdCtx *commandContext, _ []string) error {
	return withRedis(cmdCtx, defaultCommandTimeout, func(ctx context.Context, client redis.UniversalClient) error {
		store, err := cmdCtx.statsStore(client)
		if err != nil {
			return err
		}
		if err := store.ClearNowPlaying(ctx); err != nil {
			return err
		}
		cmdCtx.Logger.InfoContext(ctx, "now playing cleared")
		return nil
	})
}
