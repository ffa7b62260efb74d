//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"fmt"
	"time"
)

const (
	discordCDN = "https://cdn.discordapp.com"
	// DefaultAvatarURL is shown for users without a custom Discord avatar.
	DefaultAvatarURL = discordCDN + "/embed/avatars/0.png"
)

// User is a Discord account known to the web dashboard.
// Sessions are ordered by creation time, oldest first.
type User struct {
	DiscordID  string
	Username   string
	Email      string
	AvatarHash string
	CreatedAt  time.Time
	LastLogin  time.Time
	Sessions   []UserSession
}

// AvatarURL returns the CDN URL for the user's avatar.
func (u *User) AvatarURL() string {
	if u == nil || u.AvatarHash == "" || u.DiscordID == "" {
		return DefaultAvatarURL
	}
	return fmt.Sprintf("%s/avatars/%s/%s.png", discordCDN, u.DiscordID, u.AvatarHash)
}

// FindSession returns the session with the given id, or nil.
func (u *User) FindSession(sessionID string) *UserSession {
	if u == nil {
		return nil
	}
	for i := range u.Sessions {
		if u.Sessions[i].SessionID == sessionID {
			return &u.Sessions[i]
		}
	}
	return nil
}

// UserSession is one login of a user (one device or browser).
// Each session carries its own Spotify link.
type UserSession struct {
	SessionID  string
	IP         string
	IsActive   bool
	CreatedAt  time.Time
	LastActive time.Time
	Spotify    *SpotifyLink
}

// HasSpotify reports whether this session has a Spotify account linked.
func (s *UserSession) HasSpotify() bool {
	return s != nil && s.Spotify != nil
}

// SpotifyLink holds the Spotify tokens obtained for a single session.
type SpotifyLink struct {
	AccessToken    string
	RefreshToken   string
	ExpiresAt      time.Time
	ProfileID      string
	DisplayName    string
	NeedsReconnect bool
}

// SpotifyLinked reports whether the session identified by sessionID has a
// Spotify link. Links held by the user's other sessions are not considered.
func SpotifyLinked(u *User, sessionID string) bool {
	if u == nil || len(u.Sessions) == 0 {
		return false
	}
	for i := range u.Sessions {
		if u.Sessions[i].SessionID == sessionID && u.Sessions[i].HasSpotify() {
			return true
		}
	}
	return false
}

// SpotifyToken is the result of a Spotify token refresh.
// RefreshToken is empty when Spotify did not rotate it.
type SpotifyToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
