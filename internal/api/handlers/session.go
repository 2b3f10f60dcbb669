package handlers

import (
	"context"
	"net/http"

	"fleet-tracking-service/internal/domain"
)

type sessionKey struct{}

// WithSession attaches the authenticated caller to the request context.
func WithSession(ctx context.Context, s domain.SessionContext) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom extracts the authenticated caller from the request context.
func SessionFrom(ctx context.Context) (domain.SessionContext, bool) {
	s, ok := ctx.Value(sessionKey{}).(domain.SessionContext)
	return s, ok
}

// mustSession is the handler-side guard. The auth middleware always sets the
// session on protected routes; a miss here means a wiring mistake.
func mustSession(w http.ResponseWriter, r *http.Request) (domain.SessionContext, bool) {
	s, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
	}
	return s, ok
}
