package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nano-banana/admin-api/internal/application/auth"
	"github.com/nano-banana/admin-api/internal/config"
	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) IssueSession(ctx context.Context, u *domain.User, deviceID string) (*auth.IssuedSession, error) {
	args := m.Called(ctx, u, deviceID)
	if s, _ := args.Get(0).(*auth.IssuedSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) RevokeSession(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuthSvc) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SessionTTL:   time.Hour,
		MarkerTTL:    24 * time.Hour,
		CookieSecure: true,
	}
}

func loginBody() *bytes.Buffer {
	b, _ := json.Marshal(map[string]interface{}{
		"email":     "alice@example.com",
		"password":  "hunter2secret",
		"device_id": "dev-1",
	})
	return bytes.NewBuffer(b)
}

func successResult() *auth.LoginResult {
	u := &domain.User{UserID: "user-1", Email: "alice@example.com", Role: domain.RoleAdmin, Enable: true}
	return &auth.LoginResult{
		User: u,
		Issued: &auth.IssuedSession{
			Token:   "signed-token",
			Marker:  "marker-blob",
			Session: &domain.Session{SessionID: "sess-1", UserID: "user-1"},
		},
		Limit: &domain.DeviceLimitCheckResult{Allowed: true, MaxLimit: 3},
	}
}

func cookieByName(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- Login tests ---

func TestLogin_SetsBothCookies(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.AnythingOfType("auth.LoginRequest")).Return(successResult(), nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", loginBody())
	NewSessionHandler(svc, testConfig()).Login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	token := cookieByName(t, rr, middleware.TokenCookie)
	require.NotNil(t, token)
	assert.Equal(t, "signed-token", token.Value)
	assert.True(t, token.HttpOnly, "the server token must be hidden from scripts")
	assert.True(t, token.Secure)
	assert.Equal(t, int(time.Hour.Seconds()), token.MaxAge)

	marker := cookieByName(t, rr, middleware.MarkerCookie)
	require.NotNil(t, marker)
	assert.Equal(t, "marker-blob", marker.Value)
	assert.False(t, marker.HttpOnly, "the marker is meant to be client-readable")
	assert.Equal(t, int((24 * time.Hour).Seconds()), marker.MaxAge)
	assert.GreaterOrEqual(t, marker.MaxAge, token.MaxAge)
}

func TestLogin_ResponseOmitsPasswordHash(t *testing.T) {
	svc := &mockAuthSvc{}
	result := successResult()
	result.User.PasswordHash = "$2a$10$secret"
	svc.On("Login", mock.Anything, mock.Anything).Return(result, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", loginBody())
	NewSessionHandler(svc, testConfig()).Login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "$2a$10$secret")
	assert.Contains(t, rr.Body.String(), "alice@example.com")
}

func TestLogin_DeviceLimitReturns403WithAccounts(t *testing.T) {
	svc := &mockAuthSvc{}
	denied := &auth.LoginResult{
		User: &domain.User{UserID: "user-1"},
		Limit: &domain.DeviceLimitCheckResult{
			Allowed:      false,
			Reason:       "device limit reached",
			CurrentCount: 3,
			MaxLimit:     3,
			ExistingAccounts: []domain.BoundAccount{
				{AccountID: "a"}, {AccountID: "b"}, {AccountID: "c"},
			},
		},
	}
	svc.On("Login", mock.Anything, mock.Anything).
		Return(denied, fmt.Errorf("device limit reached: %w", domain.ErrDeviceLimitExceeded))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", loginBody())
	NewSessionHandler(svc, testConfig()).Login(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Nil(t, cookieByName(t, rr, middleware.TokenCookie), "no credential cookie on a denied login")

	var env LoginEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.NotNil(t, env.Limit)
	assert.Equal(t, 3, env.Limit.CurrentCount)
	assert.Len(t, env.Limit.ExistingAccounts, 3)
}

func TestLogin_InvalidCredentials401(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Login", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("login failed: %w", domain.ErrInvalidCredentials))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", loginBody())
	NewSessionHandler(svc, testConfig()).Login(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, cookieByName(t, rr, middleware.TokenCookie))
}

func TestLogin_MalformedBody400(t *testing.T) {
	svc := &mockAuthSvc{}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewBufferString("{not json"))
	NewSessionHandler(svc, testConfig()).Login(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestLogin_MissingFields400(t *testing.T) {
	svc := &mockAuthSvc{}

	body, _ := json.Marshal(map[string]string{"email": "alice@example.com"})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/login", bytes.NewBuffer(body))
	NewSessionHandler(svc, testConfig()).Login(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

// --- Logout tests ---

func TestLogout_ClearsCookies(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Logout", mock.Anything, "signed-token").Return(nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: "signed-token"})
	NewSessionHandler(svc, testConfig()).Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	svc.AssertCalled(t, "Logout", mock.Anything, "signed-token")

	token := cookieByName(t, rr, middleware.TokenCookie)
	require.NotNil(t, token)
	assert.Less(t, token.MaxAge, 0, "token cookie must be expired")
	marker := cookieByName(t, rr, middleware.MarkerCookie)
	require.NotNil(t, marker)
	assert.Less(t, marker.MaxAge, 0, "marker cookie must be expired")
}

func TestLogout_WithoutCookieStillSucceeds(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("Logout", mock.Anything, "").Return(nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/logout", nil)
	NewSessionHandler(svc, testConfig()).Logout(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
