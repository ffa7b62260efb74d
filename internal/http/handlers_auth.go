package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/service"
)

// AuthServiceInterface defines the auth operations used by the HTTP layer.
type AuthServiceInterface interface {
	SessionGetter
	Verify(ctx context.Context, sess *domainauth.Session) (service.VerifyResult, error)
	Logout(ctx context.Context, sess *domainauth.Session) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	CookieName   string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) cookieName() string {
	if h.CookieName == "" {
		return DefaultSessionCookie
	}
	return h.CookieName
}

// Logout ends the current session.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(h.cookieName()); err == nil && sessionCookie.Value != "" {
		if sess, getErr := h.Svc.GetSession(r.Context(), sessionCookie.Value); getErr == nil {
			if logoutErr := h.Svc.Logout(r.Context(), sess); logoutErr != nil {
				h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
			}
		}
	}

	h.clearCookie(w, r, h.cookieName())

	if wantsJSON(r) {
		writeSuccess(w)
		return
	}

	redirectURI := r.FormValue("returnTo")
	http.Redirect(w, r, safeRedirectPath(redirectURI), http.StatusSeeOther)
}

type verifyAuthStatus struct {
	Discord bool `json:"discord"`
	Spotify bool `json:"spotify"`
}

type verifyUser struct {
	DiscordID  string           `json:"discordId"`
	Username   string           `json:"username"`
	AvatarURL  string           `json:"avatarUrl"`
	AuthStatus verifyAuthStatus `json:"authStatus"`
}

type verifyResponse struct {
	Valid bool        `json:"valid"`
	User  *verifyUser `json:"user,omitempty"`
}

// Verify reports whether the request carries a valid session and whether
// Spotify is linked on that session.
// GET /api/auth/verify.
func (h *AuthHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	res, err := h.Svc.Verify(r.Context(), sess)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "verify failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "verify_failed",
			Err:     err,
		})
		return
	}
	if !res.Valid || res.User == nil {
		WriteJSON(w, http.StatusOK, verifyResponse{Valid: false})
		return
	}

	WriteJSON(w, http.StatusOK, verifyResponse{
		Valid: true,
		User: &verifyUser{
			DiscordID: res.User.DiscordID,
			Username:  res.User.Username,
			AvatarURL: res.User.AvatarURL(),
			AuthStatus: verifyAuthStatus{
				Discord: true,
				Spotify: res.SpotifyLinked,
			},
		},
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors the attributes used when the cookie was set so browsers match it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") ||
		strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
