package config

import "strings"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the public base URL of the dashboard (e.g., "https://laxenta.example").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// SessionCookie is the name of the cookie carrying the session id.
	SessionCookie string `env:"SESSION_COOKIE_NAME" envDefault:"session_id"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if strings.TrimSpace(h.Addr) == "" {
		h.Addr = ":8080"
	}
	h.BaseURL = strings.TrimRight(h.BaseURL, "/")
	if strings.TrimSpace(h.SessionCookie) == "" {
		h.SessionCookie = "session_id"
	}
}
