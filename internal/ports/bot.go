package ports

import (
	"context"

	"github.com/laxenta/laxenta-web/internal/domain/model"
)

// StatsSource returns the counters published by the bot.
// Implementations return zero stats when nothing has been published yet.
type StatsSource interface {
	Stats(ctx context.Context) (model.BotStats, error)
}

// NowPlayingSource returns the tracks currently playing, most recent first.
type NowPlayingSource interface {
	NowPlaying(ctx context.Context, limit int) ([]model.Track, error)
}

// BotProfileSource resolves the bot's public name and avatar.
type BotProfileSource interface {
	Profile(ctx context.Context) (model.BotProfile, error)
}
