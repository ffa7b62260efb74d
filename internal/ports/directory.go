package ports

import (
	"context"

	"github.com/laxenta/laxenta-web/internal/domain/model"
)

// UserDirectory reads and updates users and their login sessions.
// Every mutation is scoped to a single (discordID, sessionID) pair.
type UserDirectory interface {
	// GetByDiscordID returns the user with all of their sessions.
	// A missing user yields an error for which errors.IsNotFound is true.
	GetByDiscordID(ctx context.Context, discordID string) (*model.User, error)

	// AddSession records a new login session for an existing user.
	AddSession(ctx context.Context, discordID string, s model.UserSession) error

	// ClearSpotify removes the Spotify link from one session.
	ClearSpotify(ctx context.Context, discordID, sessionID string) error

	// DeactivateSession marks one session inactive and drops its Spotify link.
	DeactivateSession(ctx context.Context, discordID, sessionID string) error

	// UpdateSpotifyToken stores refreshed tokens on one session and clears its reconnect flag.
	UpdateSpotifyToken(ctx context.Context, discordID, sessionID string, tok model.SpotifyToken) error

	// MarkSpotifyReconnect flags one session's Spotify link as needing a new authorization.
	MarkSpotifyReconnect(ctx context.Context, discordID, sessionID string) error
}
