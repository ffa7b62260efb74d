package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/ports"
)

var (
	// ErrSpotifyNotLinked is returned when the current session has no Spotify link.
	ErrSpotifyNotLinked = errors.New("spotify is not linked on this session")
	// ErrSpotifyUnavailable is returned when no Spotify application is configured.
	ErrSpotifyUnavailable = errors.New("spotify integration is not configured")
)

// SpotifyServiceOptions groups dependencies for SpotifyService.
type SpotifyServiceOptions struct {
	Users     ports.UserDirectory
	Refresher ports.TokenRefresher // optional
	Logger    *slog.Logger
}

// SpotifyService manages the Spotify link of a single login session.
type SpotifyService struct {
	users     ports.UserDirectory
	refresher ports.TokenRefresher
	logger    *slog.Logger
}

// NewSpotifyService constructs a SpotifyService.
func NewSpotifyService(opts SpotifyServiceOptions) (*SpotifyService, error) {
	if opts.Users == nil {
		return nil, errors.New("user directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SpotifyService{
		users:     opts.Users,
		refresher: opts.Refresher,
		logger:    logger.With("component", "spotify_service"),
	}, nil
}

// Disconnect removes the Spotify link from the current session only.
// A session the directory does not know has nothing to disconnect.
func (s *SpotifyService) Disconnect(ctx context.Context, sess *domainauth.Session) error {
	if sess == nil {
		return ErrNoSession
	}
	err := s.users.ClearSpotify(ctx, sess.UserID, sess.ID)
	switch {
	case apperrors.IsNotFound(err):
		s.logger.InfoContext(ctx, "spotify disconnect for unknown session",
			"user_id", sess.UserID, "session_id", sess.ID)
		return nil
	case err != nil:
		return fmt.Errorf("clear spotify for session %s: %w", sess.ID, err)
	}
	s.logger.InfoContext(ctx, "spotify disconnected", "user_id", sess.UserID, "session_id", sess.ID)
	return nil
}

// Refresh exchanges the session's refresh token for a new access token and
// stores it. When Spotify rejects the refresh token the link is flagged for
// reconnection and ports.ErrSpotifyReauthRequired is returned.
func (s *SpotifyService) Refresh(ctx context.Context, sess *domainauth.Session) (model.SpotifyToken, error) {
	if sess == nil {
		return model.SpotifyToken{}, ErrNoSession
	}
	if s.refresher == nil {
		return model.SpotifyToken{}, ErrSpotifyUnavailable
	}

	u, err := s.users.GetByDiscordID(ctx, sess.UserID)
	if err != nil {
		return model.SpotifyToken{}, fmt.Errorf("load user %s: %w", sess.UserID, err)
	}
	us := u.FindSession(sess.ID)
	if us == nil || !us.HasSpotify() {
		return model.SpotifyToken{}, ErrSpotifyNotLinked
	}

	tok, err := s.refresher.Refresh(ctx, us.Spotify.RefreshToken)
	if err != nil {
		if errors.Is(err, ports.ErrSpotifyReauthRequired) {
			if markErr := s.users.MarkSpotifyReconnect(ctx, sess.UserID, sess.ID); markErr != nil {
				s.logger.ErrorContext(ctx, "failed to flag spotify reconnect",
					"user_id", sess.UserID, "session_id", sess.ID, "error", markErr)
			}
			return model.SpotifyToken{}, err
		}
		return model.SpotifyToken{}, fmt.Errorf("refresh spotify token: %w", err)
	}

	if err := s.users.UpdateSpotifyToken(ctx, sess.UserID, sess.ID, tok); err != nil {
		return model.SpotifyToken{}, fmt.Errorf("store spotify token: %w", err)
	}
	return tok, nil
}
