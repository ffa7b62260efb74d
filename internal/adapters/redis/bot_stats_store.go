package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/laxenta/laxenta-web/internal/domain/model"
	"github.com/laxenta/laxenta-web/internal/ports"
)

// Hash fields of the stats key.
const (
	fieldServers     = "servers"
	fieldUsers       = "users"
	fieldSongsPlayed = "songsPlayed"
)

var (
	_ ports.StatsSource      = (*BotStatsStore)(nil)
	_ ports.NowPlayingSource = (*BotStatsStore)(nil)
)

// BotStatsStoreOptions configures a BotStatsStore.
type BotStatsStoreOptions struct {
	StatsKey      string // hash with servers, users, songsPlayed
	NowPlayingKey string // list of JSON tracks, newest at the head
	Logger        *slog.Logger
}

// BotStatsStore reads (and, for tooling, writes) the counters and
// now-playing list the bot publishes to Redis.
type BotStatsStore struct {
	client        redis.UniversalClient
	statsKey      string
	nowPlayingKey string
	logger        *slog.Logger
}

// NewBotStatsStore creates a BotStatsStore. Both keys are required.
func NewBotStatsStore(client redis.UniversalClient, opts BotStatsStoreOptions) (*BotStatsStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if opts.StatsKey == "" || opts.NowPlayingKey == "" {
		return nil, errors.New("stats key and now playing key are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BotStatsStore{
		client:        client,
		statsKey:      opts.StatsKey,
		nowPlayingKey: opts.NowPlayingKey,
		logger:        logger.With("component", "bot_stats_store"),
	}, nil
}

// Stats returns the published counters. Missing key or fields read as zero.
func (s *BotStatsStore) Stats(ctx context.Context) (model.BotStats, error) {
	fields, err := s.client.HGetAll(ctx, s.statsKey).Result()
	if err != nil {
		return model.BotStats{}, fmt.Errorf("redis hgetall %s: %w", s.statsKey, err)
	}

	var stats model.BotStats
	for name, dst := range map[string]*int64{
		fieldServers:     &stats.Servers,
		fieldUsers:       &stats.Users,
		fieldSongsPlayed: &stats.SongsPlayed,
	} {
		raw, ok := fields[name]
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return model.BotStats{}, fmt.Errorf("parse stats field %s=%q: %w", name, raw, err)
		}
		*dst = n
	}
	return stats, nil
}

// SetStats overwrites the published counters.
func (s *BotStatsStore) SetStats(ctx context.Context, stats model.BotStats) error {
	err := s.client.HSet(ctx, s.statsKey,
		fieldServers, stats.Servers,
		fieldUsers, stats.Users,
		fieldSongsPlayed, stats.SongsPlayed,
	).Err()
	if err != nil {
		return fmt.Errorf("redis hset %s: %w", s.statsKey, err)
	}
	return nil
}

// NowPlaying returns up to limit tracks from the head of the list.
// A limit <= 0 returns all of them. Malformed entries are skipped.
func (s *BotStatsStore) NowPlaying(ctx context.Context, limit int) ([]model.Track, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	raw, err := s.client.LRange(ctx, s.nowPlayingKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", s.nowPlayingKey, err)
	}

	tracks := make([]model.Track, 0, len(raw))
	for i, item := range raw {
		var t model.Track
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			s.logger.WarnContext(ctx, "skipping malformed now playing entry", "index", i, "error", err)
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// PushNowPlaying puts t at the head of the list and trims it to keep entries.
func (s *BotStatsStore) PushNowPlaying(ctx context.Context, t model.Track, keep int) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal track: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, s.nowPlayingKey, data)
		if keep > 0 {
			p.LTrim(ctx, s.nowPlayingKey, 0, int64(keep-1))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis push %s: %w", s.nowPlayingKey, err)
	}
	return nil
}

// ClearNowPlaying empties the now-playing list.
func (s *BotStatsStore) ClearNowPlaying(ctx context.Context) error {
	if err := s.client.Del(ctx, s.nowPlayingKey).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.nowPlayingKey, err)
	}
	return nil
}
