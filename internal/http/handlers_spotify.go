package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	apperrors "github.com/laxenta/laxenta-web/internal/errors"
	"github.com/laxenta/laxenta-web/internal/ports"
	"github.com/laxenta/laxenta-web/internal/service"
)

// SpotifyServiceInterface defines the Spotify operations used by the HTTP layer.
type SpotifyServiceInterface interface {
	Disconnect(ctx context.Context, sess *domainauth.Session) error
	Refresh(ctx context.Context, sess *domainauth.Session) (model.SpotifyToken, error)
}

// SpotifyHandlers serves the per-session Spotify endpoints.
type SpotifyHandlers struct {
	Svc    SpotifyServiceInterface
	Logger *slog.Logger
}

func (h *SpotifyHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type disconnectFailure struct {
	Error string `json:"error"`
}

// Disconnect removes the Spotify link of the current session.
// POST /api/spotify/disconnect.
func (h *SpotifyHandlers) Disconnect(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if err := h.Svc.Disconnect(r.Context(), sess); err != nil {
		h.logger().ErrorContext(r.Context(), "spotify disconnect failed",
			"session_id", sessionIDOf(sess), "error", err)
		WriteJSON(w, http.StatusInternalServerError, disconnectFailure{Error: "Failed to disconnect Spotify"})
		return
	}
	writeSuccess(w)
}

type refreshResponse struct {
	Success   bool      `json:"success"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Refresh renews the Spotify access token of the current session.
// POST /api/spotify/refresh.
func (h *SpotifyHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	tok, err := h.Svc.Refresh(r.Context(), sess)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, refreshResponse{Success: true, ExpiresAt: tok.ExpiresAt})
	case errors.Is(err, service.ErrNoSession):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: err})
	case errors.Is(err, service.ErrSpotifyNotLinked):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "spotify_not_linked", Err: err})
	case errors.Is(err, ports.ErrSpotifyReauthRequired):
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "reconnect_required"})
	case errors.Is(err, service.ErrSpotifyUnavailable):
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "spotify_unavailable", Err: err})
	case apperrors.Code(err) != "":
		h.logger().WarnContext(r.Context(), "spotify refresh rejected",
			"session_id", sessionIDOf(sess), "error", err)
		WriteError(w, ErrorParams{Code: apperrors.HTTPStatus(err), ErrCode: string(apperrors.Code(err))})
	default:
		h.logger().ErrorContext(r.Context(), "spotify refresh failed",
			"session_id", sessionIDOf(sess), "error", err)
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "spotify_refresh_failed"})
	}
}

func sessionIDOf(sess *domainauth.Session) string {
	if sess == nil {
		return ""
	}
	return sess.ID
}
