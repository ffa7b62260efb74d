package httpx

import (
	"context"

	domainauth "github.com/laxenta/laxenta-web/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// requestIDKey carries the request id set by RequestID.
type requestIDKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext retrieves the session from the request context, or nil.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return session
	}
	return nil
}

// RequestIDFromContext returns the id assigned by the RequestID middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
