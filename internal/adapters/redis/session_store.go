// Package redis provides Redis-backed adapters for web sessions and the
// counters the bot publishes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/ports"
)

const defaultSessionPrefix = "session:"

// ErrNotFound is returned when a session is unknown or expired.
var ErrNotFound = ports.ErrSessionNotFound

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	Prefix string           // key prefix, defaults to "session:"
	Now    func() time.Time // clock, defaults to time.Now
}

// SessionStore keeps web sessions as JSON values whose TTL follows ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewSessionStore creates a Redis session store.
func NewSessionStore(client redis.UniversalClient, opts ...SessionStoreOptions) *SessionStore {
	s := &SessionStore{client: client, prefix: defaultSessionPrefix, now: time.Now}
	if len(opts) > 0 {
		if opts[0].Prefix != "" {
			s.prefix = opts[0].Prefix
		}
		if opts[0].Now != nil {
			s.now = opts[0].Now
		}
	}
	return s
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Save stores sess until its expiry. Already-expired sessions are rejected.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Get loads a session. Expired records still present are removed and reported as ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ErrNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	if sess.Expired(s.now()) {
		if err := s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", err)
		}
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
