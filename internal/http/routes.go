package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"time"

	laxenta "github.com/laxenta/laxenta-web"
	"github.com/laxenta/laxenta-web/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    *service.AuthService
	Landing *service.LandingService
	Spotify *service.SpotifyService
	Bot     BotInfo

	CookieDomain  string
	SessionCookie string // defaults to DefaultSessionCookie

	// TemplateFS overrides the template source. When nil, templates come from
	// disk in dev mode and from the embedded FS otherwise.
	TemplateFS fs.FS
	IsDev      bool             // Development mode flag for hot reloading, etc.
	Clock      func() time.Time // optional, defaults to time.Now
	Logger     *slog.Logger     // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	cookieCfg := SessionCookieConfig{CookieName: services.SessionCookie}
	if services.Auth != nil {
		cookieCfg.Svc = services.Auth
	}
	optional := OptionalAuth(cookieCfg)
	require := RequireAuth(cookieCfg)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			CookieDomain: services.CookieDomain,
			CookieName:   services.SessionCookie,
			Logger:       logger,
		}, optional)
	}
	if services.Spotify != nil {
		registerSpotifyRoutes(mux, &SpotifyHandlers{Svc: services.Spotify, Logger: logger}, require)
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticWithFallback(services.IsDev, logger))

	var notFound http.Handler = http.NotFoundHandler()
	if uiHandlers := setupUIHandlers(services, logger); uiHandlers != nil {
		registerUIRoutes(mux, uiHandlers, optional)
		notFound = optional(http.HandlerFunc(uiHandlers.NotFound))
	}

	handler := &notFoundHandler{mux: mux, notFound: notFound}
	return BrowserDetection()(handler)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, optional func(http.Handler) http.Handler) {
	mux.Handle("POST /logout", http.HandlerFunc(h.Logout))
	mux.Handle("GET /api/auth/verify", optional(http.HandlerFunc(h.Verify)))
}

func registerSpotifyRoutes(mux *http.ServeMux, h *SpotifyHandlers, require func(http.Handler) http.Handler) {
	mux.Handle("POST /api/spotify/disconnect", require(http.HandlerFunc(h.Disconnect)))
	mux.Handle("POST /api/spotify/refresh", require(http.HandlerFunc(h.Refresh)))
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, optional func(http.Handler) http.Handler) {
	mux.Handle("GET /{$}", optional(http.HandlerFunc(h.Index)))
	mux.Handle("GET /error", optional(http.HandlerFunc(h.ErrorPage)))
}

// setupUIHandlers creates UI handlers with a template renderer.
// Returns nil when the landing service is missing or templates fail to parse.
func setupUIHandlers(services RouterServices, logger *slog.Logger) *UIHandlers {
	if services.Landing == nil {
		return nil
	}
	templateFS, err := templateSource(services)
	if err != nil {
		logger.Error("failed to open template filesystem", slog.Any("error", err))
		return nil
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		logger.Error("failed to create template renderer", slog.Any("error", err))
		return nil
	}
	return &UIHandlers{
		T:       tr,
		Landing: services.Landing,
		Bot:     services.Bot,
		Clock:   services.Clock,
		Logger:  logger,
	}
}

func templateSource(services RouterServices) (fs.FS, error) {
	switch {
	case services.TemplateFS != nil:
		return services.TemplateFS, nil
	case services.IsDev:
		return os.DirFS(TemplatePathFromRoot), nil
	default:
		return fs.Sub(laxenta.TemplateFS, TemplatePathFromRoot)
	}
}

// staticWithFallback serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticWithFallback(isDev bool, logger *slog.Logger) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}

	staticSub, err := fs.Sub(laxenta.StaticFS, "frontend/static")
	if err != nil {
		logger.Error("failed to create sub-filesystem for static assets", slog.Any("error", err))
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// hashedFilePattern matches content-hashed filenames (app.abc12345.js, styles.def45678.css).
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux      *http.ServeMux
	notFound http.Handler
}

// ServeHTTP serves the not-found page for requests no route matches.
// Matched routes, including 404s they write themselves, pass through.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	// Unmatched paths may still be a 405 or a redirect from the mux.
	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)
	if cw.status == http.StatusNotFound {
		h.notFound.ServeHTTP(w, r)
		return
	}
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		slog.Default().Warn("failed to write captured response", slog.Any("error", err))
	}
}
