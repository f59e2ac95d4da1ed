package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubValidator accepts a single token and returns a fixed session for it.
type stubValidator struct {
	token string
	sess  *domain.Session
}

func (s *stubValidator) ValidateSession(_ context.Context, token string) (*domain.Session, error) {
	if token == s.token {
		return s.sess, nil
	}
	return nil, errors.New("invalid session")
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func validSession() *domain.Session {
	return &domain.Session{SessionID: "sess-1", UserID: "u1", Role: domain.RoleAdmin, Enable: true}
}

func TestAuth_NoCredentials(t *testing.T) {
	v := &stubValidator{token: "good", sess: validSession()}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_RejectedToken(t *testing.T) {
	v := &stubValidator{token: "good", sess: validSession()}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "revoked-or-garbage"})
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_CookieToken_InjectsSession(t *testing.T) {
	v := &stubValidator{token: "good", sess: validSession()}

	var got *domain.Session
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good"})
	rr := httptest.NewRecorder()
	Auth(v)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
}

func TestAuth_BearerFallback(t *testing.T) {
	v := &stubValidator{token: "good", sess: validSession()}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTokenFromRequest_CookieWinsOverHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "cookie-token", TokenFromRequest(req))
}

func TestTokenFromRequest_MarkerCookieIgnored(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: MarkerCookie, Value: "client-readable-marker"})
	assert.Equal(t, "", TokenFromRequest(req), "the marker is never a credential")
}
