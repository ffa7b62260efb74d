package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Sessions ports.SessionStore
	Users    ports.UserDirectory
	Logger   *slog.Logger
}

// AuthService resolves session cookies to sessions and users and ends sessions.
type AuthService struct {
	sessions ports.SessionStore
	users    ports.UserDirectory
	logger   *slog.Logger
	now      func() time.Time
}

var (
	errSessionExpired = errors.New("session expired")

	// ErrNoSession is returned when a request carries no usable session.
	ErrNoSession = errors.New("no active session")
)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Sessions == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Users == nil {
		return nil, errors.New("user directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		sessions: opts.Sessions,
		users:    opts.Users,
		logger:   logger.With("component", "auth_service"),
		now:      time.Now,
	}, nil
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// StartSessionInput describes a session to create for an already-authenticated user.
type StartSessionInput struct {
	User *model.User
	IP   string
	TTL  time.Duration
}

// StartSession records a new login session in the directory and the session store.
// The OAuth handshake that normally precedes this lives outside this service;
// the admin CLI uses it to mint development sessions.
func (s *AuthService) StartSession(ctx context.Context, in StartSessionInput) (*domainauth.Session, error) {
	if in.User == nil || in.User.DiscordID == "" {
		return nil, apperrors.Validation("user is required")
	}
	if in.TTL <= 0 {
		return nil, apperrors.Validation("session ttl must be positive")
	}

	now := s.now().UTC()
	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    in.User.DiscordID,
		Username:  in.User.Username,
		IP:        in.IP,
		CreatedAt: now,
		ExpiresAt: now.Add(in.TTL),
	}

	if err := s.users.AddSession(ctx, in.User.DiscordID, model.UserSession{
		SessionID:  session.ID,
		IP:         in.IP,
		IsActive:   true,
		CreatedAt:  now,
		LastActive: now,
	}); err != nil {
		return nil, fmt.Errorf("add user session: %w", err)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// CurrentUser returns the directory entry behind a session.
func (s *AuthService) CurrentUser(ctx context.Context, sess *domainauth.Session) (*model.User, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	u, err := s.users.GetByDiscordID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", sess.UserID, err)
	}
	return u, nil
}

// VerifyResult reports the authentication state of a request.
type VerifyResult struct {
	Valid         bool
	User          *model.User
	SpotifyLinked bool
}

// Verify reports whether the session is valid and whether Spotify is linked
// on that session.
func (s *AuthService) Verify(ctx context.Context, sess *domainauth.Session) (VerifyResult, error) {
	if sess == nil {
		return VerifyResult{}, nil
	}
	u, err := s.CurrentUser(ctx, sess)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return VerifyResult{}, nil
		}
		return VerifyResult{}, err
	}
	return VerifyResult{
		Valid:         true,
		User:          u,
		SpotifyLinked: model.SpotifyLinked(u, sess.ID),
	}, nil
}

// Logout deactivates the directory session and removes the stored session.
// A directory failure is logged and does not keep the session alive.
func (s *AuthService) Logout(ctx context.Context, sess *domainauth.Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}

	if err := s.users.DeactivateSession(ctx, sess.UserID, sess.ID); err != nil && !apperrors.IsNotFound(err) {
		s.logger.WarnContext(ctx, "failed to deactivate user session",
			"user_id", sess.UserID, "session_id", sess.ID, "error", err)
	}

	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID creates a random, URL-safe session ID.
func generateSessionID() string {
	return uuid.New().String()
}
