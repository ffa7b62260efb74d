package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
	"github.com/laxenta/laxenta-web/internal/domain/model"
	corefuncs "github.com/laxenta/laxenta-web/internal/http/templates/core"
	"github.com/laxenta/laxenta-web/internal/http/ui/landing"
	"github.com/laxenta/laxenta-web/internal/service"
)

const (
	defaultErrorMessage  = "Something went wrong."
	notFoundMessage      = "The page you're looking for doesn't exist."
	maxErrorMessageRunes = 300
)

// LandingDataSource assembles the per-request data behind the landing pages.
type LandingDataSource interface {
	Build(ctx context.Context, sess *domainauth.Session, fallback model.BotProfile) service.LandingData
}

// Compile-time interface assertions for the concrete services.
var (
	_ LandingDataSource       = (*service.LandingService)(nil)
	_ AuthServiceInterface    = (*service.AuthService)(nil)
	_ SpotifyServiceInterface = (*service.SpotifyService)(nil)
)

// BotInfo is the configured bot identity. Name and AvatarURL are the
// fallback when the live profile cannot be fetched.
type BotInfo struct {
	Name       string
	AvatarURL  string
	ClientID   string
	SupportURL string
}

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T       *TemplateRenderer
	Landing LandingDataSource
	Bot     BotInfo
	Clock   func() time.Time
	Logger  *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

// Index renders the landing page.
// GET /.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	view := landing.Build(h.input(r))
	h.render(w, r, http.StatusOK, &view)
}

// ErrorPage renders the error page with the message from the query string.
// GET /error?message=.
func (h *UIHandlers) ErrorPage(w http.ResponseWriter, r *http.Request) {
	view := landing.BuildError(h.input(r), errorMessage(r.URL.Query().Get("message")))
	h.render(w, r, http.StatusOK, &view)
}

// NotFound handles unmatched routes. Browsers get the error page with a 404,
// API clients get a JSON error.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     errors.New("not found"),
		})
		return
	}
	view := landing.BuildError(h.input(r), notFoundMessage)
	view.Title = "Page Not Found | " + view.Bot.Name
	h.render(w, r, http.StatusNotFound, &view)
}

func (h *UIHandlers) input(r *http.Request) landing.Input {
	sess := GetSessionFromContext(r.Context())
	data := h.Landing.Build(r.Context(), sess, model.BotProfile{
		Name:      h.Bot.Name,
		AvatarURL: h.Bot.AvatarURL,
	})

	in := landing.Input{
		BotName:         data.Profile.Name,
		BotAvatar:       data.Profile.AvatarURL,
		ClientID:        h.Bot.ClientID,
		SupportURL:      h.Bot.SupportURL,
		IsAuthenticated: data.Authenticated(),
		OriginalURL:     r.URL.RequestURI(),
		Stats:           data.Stats,
		NowPlaying:      data.NowPlaying,
		Now:             h.now(),
	}
	if in.IsAuthenticated {
		in.User = data.User
		in.SessionID = data.Session.ID
	}
	return in
}

// render writes the page. Template failures were already logged by the
// renderer and become a plain 500.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, status int, view *landing.View) {
	if h.T == nil {
		h.logger().ErrorContext(r.Context(), "template renderer not configured", "path", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.T.RenderStatus(w, status, view); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func errorMessage(raw string) string {
	msg := strings.TrimSpace(raw)
	if msg == "" {
		return defaultErrorMessage
	}
	return corefuncs.TruncateText(msg, maxErrorMessageRunes)
}
