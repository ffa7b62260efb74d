// Package testutil provides testing utilities and helpers for the laxenta dashboard.
package testutil

import (
	"time"

	"github.com/laxenta/laxenta-web/internal/domain/model"
)

// UserBuilder provides a fluent interface for building model.User values in tests.
type UserBuilder struct {
	user *model.User
}

// NewUser creates a UserBuilder with sensible defaults and no sessions.
func NewUser(discordID string) *UserBuilder {
	return &UserBuilder{
		user: &model.User{
			DiscordID: discordID,
			Username:  "listener",
			CreatedAt: TestTime(),
			LastLogin: TestTime(),
		},
	}
}

// WithUsername sets the username.
func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.user.Username = name
	return b
}

// WithAvatar sets the avatar hash.
func (b *UserBuilder) WithAvatar(hash string) *UserBuilder {
	b.user.AvatarHash = hash
	return b
}

// WithSession appends an active session without a Spotify link.
func (b *UserBuilder) WithSession(sessionID string) *UserBuilder {
	b.user.Sessions = append(b.user.Sessions, model.UserSession{
		SessionID:  sessionID,
		IsActive:   true,
		CreatedAt:  TestTime(),
		LastActive: TestTime(),
	})
	return b
}

// WithSpotifySession appends an active session with a Spotify link.
func (b *UserBuilder) WithSpotifySession(sessionID string) *UserBuilder {
	b.WithSession(sessionID)
	b.user.Sessions[len(b.user.Sessions)-1].Spotify = &model.SpotifyLink{
		AccessToken:  "access-" + sessionID,
		RefreshToken: "refresh-" + sessionID,
		ExpiresAt:    TestTime().Add(time.Hour),
		ProfileID:    "spotify-" + sessionID,
		DisplayName:  "Spotify Listener",
	}
	return b
}

// Build returns the constructed user.
func (b *UserBuilder) Build() *model.User {
	return b.user
}
