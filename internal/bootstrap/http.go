package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/laxenta/laxenta-web/config"
	httpx "github.com/laxenta/laxenta-web/internal/http"
)

const shutdownWaitTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// ErrCh receives the listener error if the server stops unexpectedly (optional).
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: routerServices(appCfg, cfg.Services, logger),
	})

	return startServer(serverParams{
		Logger:  logger,
		Handler: handler,
		Addr:    appCfg.HTTP.Addr,
		ErrCh:   cfg.ErrCh,
	})
}

func routerServices(appCfg *config.AppConfig, svcs ServiceContainer, logger *slog.Logger) httpx.RouterServices {
	return httpx.RouterServices{
		Auth:    svcs.Auth,
		Landing: svcs.Landing,
		Spotify: svcs.Spotify,
		Bot: httpx.BotInfo{
			Name:       appCfg.Bot.Name,
			AvatarURL:  appCfg.Bot.AvatarURL,
			ClientID:   appCfg.Bot.ClientID,
			SupportURL: appCfg.Bot.SupportURL,
		},
		CookieDomain:  appCfg.HTTP.CookieDomain,
		SessionCookie: appCfg.HTTP.SessionCookie,
		IsDev:         appCfg.IsDev,
		Logger:        logger,
	}
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
}

// buildHTTPHandler wraps the router. Order: RequestID -> Recover -> Logging -> Router.
func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	h := httpx.NewRouter(cfg.Services)
	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)
	h = httpx.RequestID()(h)
	return h
}

type serverParams struct {
	Logger  *slog.Logger
	Handler http.Handler
	Addr    string
	ErrCh   chan<- error
}

func startServer(p serverParams) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	addr := p.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      p.Handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		p.Logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.Logger.Error("HTTP server failed", "error", err)
			if p.ErrCh != nil {
				p.ErrCh <- err
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server, waiting up to
// ten seconds for in-flight requests.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownWaitTimeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
