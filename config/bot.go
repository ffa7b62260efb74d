package config

import (
	"strings"
	"time"
)

const minProfileTTL = 30 * time.Second

// BotConfig describes the Discord bot the dashboard is for.
type BotConfig struct {
	// Name and AvatarURL are shown until (or instead of) the profile fetched from Discord.
	Name      string `env:"NAME"       envDefault:"Laxenta"`
	AvatarURL string `env:"AVATAR_URL" envDefault:"https://cdn.discordapp.com/embed/avatars/0.png"`

	// ClientID is the Discord application id used in the invite link.
	ClientID string `env:"CLIENT_ID"`

	// Token is the bot token. When empty the profile is not fetched from Discord.
	Token string `env:"TOKEN"`

	SupportURL string `env:"SUPPORT_URL" envDefault:"https://discord.gg/9emnU25HaY"`

	// ProfileTTL controls how long the fetched bot profile is cached.
	ProfileTTL time.Duration `env:"PROFILE_TTL" envDefault:"10m"`
}

// Sanitize applies guardrails to bot configuration values.
func (b *BotConfig) Sanitize() {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		b.Name = "Laxenta"
	}
	b.Token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(b.Token), "Bot "))
	if b.ProfileTTL < minProfileTTL {
		b.ProfileTTL = minProfileTTL
	}
}

// StatsConfig names the Redis keys the bot publishes into.
type StatsConfig struct {
	Key           string `env:"KEY"             envDefault:"bot:stats"`
	NowPlayingKey string `env:"NOW_PLAYING_KEY" envDefault:"bot:now_playing"`
}

// Sanitize restores default key names when blank.
func (s *StatsConfig) Sanitize() {
	if strings.TrimSpace(s.Key) == "" {
		s.Key = "bot:stats"
	}
	if strings.TrimSpace(s.NowPlayingKey) == "" {
		s.NowPlayingKey = "bot:now_playing"
	}
}
