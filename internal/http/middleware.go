package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request an id, reusing a well-formed inbound
// X-Request-ID, and echoes it on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", RequestIDFromContext(r.Context())),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionGetter resolves a session id to a live session.
type SessionGetter interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// SessionCookieConfig tells the auth middlewares where the session id lives.
type SessionCookieConfig struct {
	Svc        SessionGetter
	CookieName string
}

func (c SessionCookieConfig) cookieName() string {
	if c.CookieName == "" {
		return DefaultSessionCookie
	}
	return c.CookieName
}

// RequireAuth returns a middleware that requires authentication.
// If the user is not authenticated, it returns a 401 Unauthorized response.
func RequireAuth(cfg SessionCookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, cfg)
			if session == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
		})
	}
}

// OptionalAuth returns a middleware that adds the session to the request
// context when the cookie maps to a live session.
func OptionalAuth(cfg SessionCookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := getSessionFromRequest(r, cfg); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, cfg SessionCookieConfig) *domainauth.Session {
	if cfg.Svc == nil {
		return nil
	}
	sessionCookie, err := r.Cookie(cfg.cookieName())
	if err != nil || sessionCookie.Value == "" {
		return nil
	}
	session, err := cfg.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that detects browser requests vs API requests.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats /api/ and /static/ as non-browser, then falls back
// to the Accept header.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// wantsJSON reports whether a non-API endpoint was called from script.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") ||
		r.Header.Get("Sec-Fetch-Mode") == "cors"
}
