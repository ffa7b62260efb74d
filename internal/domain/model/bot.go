//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// BotStats are the counters published by the bot process.
type BotStats struct {
	Servers     int64 `json:"servers"`
	Users       int64 `json:"users"`
	SongsPlayed int64 `json:"songsPlayed"`
}

// Track is a song currently playing in a guild.
type Track struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url,omitempty"`
	Author    string `json:"author,omitempty"`
	GuildID   string `json:"guildId,omitempty"`
	GuildName string `json:"guildName"`
}

// BotProfile is the public identity of the bot.
type BotProfile struct {
	ID        string
	Name      string
	AvatarURL string
}
