package ports

// Package ports defines interfaces (hexagonal ports) for the web dashboard.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
)

// SessionStore persists and retrieves web sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// ErrSessionNotFound is returned by SessionStore.Get for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")
