package auth

// Package auth contains simple hand-written test doubles for the session and user ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore  = (*MemorySessionStore)(nil)
	_ ports.UserDirectory = (*MemoryUserDirectory)(nil)
)

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ErrNotFound is returned by MemorySessionStore for unknown sessions.
var ErrNotFound = ports.ErrSessionNotFound

// MemoryUserDirectory is an in-memory user directory keyed by Discord id.
// Get returns deep copies so callers cannot mutate stored state.
type MemoryUserDirectory struct {
	mu    sync.Mutex
	users map[string]*model.User
}

// NewMemoryUserDirectory creates a directory seeded with the given users.
func NewMemoryUserDirectory(users ...*model.User) *MemoryUserDirectory {
	d := &MemoryUserDirectory{users: make(map[string]*model.User)}
	for _, u := range users {
		d.Put(u)
	}
	return d
}

// Put stores a copy of the user, replacing any existing entry.
func (d *MemoryUserDirectory) Put(u *model.User) {
	if u == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.DiscordID] = cloneUser(u)
}

func (d *MemoryUserDirectory) GetByDiscordID(_ context.Context, discordID string) (*model.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[discordID]
	if !ok {
		return nil, apperrors.NotFoundf("user %s not found", discordID)
	}
	return cloneUser(u), nil
}

func (d *MemoryUserDirectory) AddSession(_ context.Context, discordID string, s model.UserSession) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[discordID]
	if !ok {
		return apperrors.NotFoundf("user %s not found", discordID)
	}
	if u.FindSession(s.SessionID) != nil {
		return apperrors.Conflictf("session %s already exists", s.SessionID)
	}
	if s.Spotify != nil {
		link := *s.Spotify
		s.Spotify = &link
	}
	u.Sessions = append(u.Sessions, s)
	return nil
}

func (d *MemoryUserDirectory) ClearSpotify(_ context.Context, discordID, sessionID string) error {
	return d.withSession(discordID, sessionID, func(s *model.UserSession) {
		s.Spotify = nil
	})
}

func (d *MemoryUserDirectory) DeactivateSession(_ context.Context, discordID, sessionID string) error {
	return d.withSession(discordID, sessionID, func(s *model.UserSession) {
		s.IsActive = false
		s.Spotify = nil
	})
}

func (d *MemoryUserDirectory) UpdateSpotifyToken(
	_ context.Context,
	discordID, sessionID string,
	tok model.SpotifyToken,
) error {
	return d.withSession(discordID, sessionID, func(s *model.UserSession) {
		if s.Spotify == nil {
			s.Spotify = &model.SpotifyLink{}
		}
		s.Spotify.AccessToken = tok.AccessToken
		if tok.RefreshToken != "" {
			s.Spotify.RefreshToken = tok.RefreshToken
		}
		s.Spotify.ExpiresAt = tok.ExpiresAt
		s.Spotify.NeedsReconnect = false
	})
}

func (d *MemoryUserDirectory) MarkSpotifyReconnect(_ context.Context, discordID, sessionID string) error {
	return d.withSession(discordID, sessionID, func(s *model.UserSession) {
		if s.Spotify != nil {
			s.Spotify.NeedsReconnect = true
		}
	})
}

func (d *MemoryUserDirectory) withSession(discordID, sessionID string, fn func(*model.UserSession)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[discordID]
	if !ok {
		return apperrors.NotFoundf("user %s not found", discordID)
	}
	s := u.FindSession(sessionID)
	if s == nil {
		return apperrors.NotFoundf("session %s not found", sessionID)
	}
	fn(s)
	return nil
}

func cloneUser(u *model.User) *model.User {
	out := *u
	out.Sessions = make([]model.UserSession, len(u.Sessions))
	for i, s := range u.Sessions {
		if s.Spotify != nil {
			link := *s.Spotify
			s.Spotify = &link
		}
		out.Sessions[i] = s
	}
	return &out
}
