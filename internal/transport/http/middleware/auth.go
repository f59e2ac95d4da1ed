package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nano-banana/admin-api/internal/domain"
)

type contextKey string

const SessionKey contextKey = "session"

// Cookie names for the two login tokens. TokenCookie is httpOnly and is the
// only credential the server validates; MarkerCookie is client-readable UI
// state and is never read back by the server.
const (
	TokenCookie  = "nb_token"
	MarkerCookie = "nb_session"
)

// SessionValidator checks a token against the live session store, so a
// revoked session fails even while its JWT is still within its lifetime.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*domain.Session, error)
}

// Auth returns middleware that resolves the request token, validates the
// backing session and injects it into the request context.
func Auth(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing credentials")
				return
			}
			sess, err := validator.ValidateSession(r.Context(), token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the credential: the auth cookie set at login, or
// a Bearer header for non-browser clients.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// SessionFromContext extracts the validated session from the request context.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(SessionKey).(*domain.Session)
	return s, ok
}
