package auth

// Package auth contains domain-level types for web sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Session is the server-side record behind the session cookie.
// ID matches the session id stored on the user's directory entry, which is
// how per-session state (such as the Spotify link) is located.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"` // Discord user id
	Username  string    `json:"username"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
