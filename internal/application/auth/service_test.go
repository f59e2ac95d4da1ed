package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	jwtinfra "github.com/nano-banana/admin-api/internal/infrastructure/jwt"
	"github.com/nano-banana/admin-api/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Disable(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type mockTokens struct{ mock.Mock }

func (m *mockTokens) Sign(userID, email, role, deviceID, sessionID string, issuedAt time.Time) (string, error) {
	args := m.Called(userID, email, role, deviceID, sessionID, issuedAt)
	return args.String(0), args.Error(1)
}
func (m *mockTokens) Verify(token string) (*jwtinfra.Claims, error) {
	args := m.Called(token)
	if c, _ := args.Get(0).(*jwtinfra.Claims); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBinder struct{ mock.Mock }

func (m *mockBinder) CheckLimit(ctx context.Context, deviceID, accountID string, maxLimit int) (*domain.DeviceLimitCheckResult, error) {
	args := m.Called(ctx, deviceID, accountID, maxLimit)
	if r, _ := args.Get(0).(*domain.DeviceLimitCheckResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockBinder) BindAccount(ctx context.Context, deviceID string, account domain.AccountInfo, info domain.DeviceInfo, maxLimit int) (*domain.Device, error) {
	args := m.Called(ctx, deviceID, account, info, maxLimit)
	if d, _ := args.Get(0).(*domain.Device); d != nil {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newSvc(us *mockUserStore, ss *mockSessionStore, tk *mockTokens, b *mockBinder) Service {
	return NewService(ServiceDeps{
		UserRepo:    us,
		SessionRepo: ss,
		Tokens:      tk,
		Binder:      b,
		SessionTTL:  time.Hour,
		MarkerTTL:   24 * time.Hour,
		DeviceLimit: 3,
		Clock:       clock.Func(func() time.Time { return testNow }),
	})
}

func activeUser() *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.MinCost)
	return &domain.User{
		UserID:       "user-1",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Name:         "Alice",
		Role:         domain.RoleAdmin,
		Enable:       true,
	}
}

func allowedLimit() *domain.DeviceLimitCheckResult {
	return &domain.DeviceLimitCheckResult{Allowed: true, CurrentCount: 0, MaxLimit: 3}
}

func deniedLimit() *domain.DeviceLimitCheckResult {
	return &domain.DeviceLimitCheckResult{
		Allowed:      false,
		Reason:       "device limit reached",
		CurrentCount: 3,
		MaxLimit:     3,
		ExistingAccounts: []domain.BoundAccount{
			{AccountID: "other-1"}, {AccountID: "other-2"}, {AccountID: "other-3"},
		},
	}
}

func loginReq() LoginRequest {
	return LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2secret",
		DeviceID: "dev-1",
	}
}

// --- Authenticate tests ---

func TestAuthenticate_UnknownEmail(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)

	_, err := newSvc(us, ss, tk, b).Authenticate(context.Background(), "nobody@example.com", "x")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(), nil)

	_, err := newSvc(us, ss, tk, b).Authenticate(context.Background(), "alice@example.com", "wrong")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
}

func TestAuthenticate_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	us1, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us1.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	_, errUnknown := newSvc(us1, ss, tk, b).Authenticate(context.Background(), "nobody@example.com", "x")

	us2 := &mockUserStore{}
	us2.On("GetByEmail", mock.Anything, mock.Anything).Return(activeUser(), nil)
	_, errWrong := newSvc(us2, ss, tk, b).Authenticate(context.Background(), "alice@example.com", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestAuthenticate_DisabledAccount(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	u := activeUser()
	u.Enable = false
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(u, nil)

	_, err := newSvc(us, ss, tk, b).Authenticate(context.Background(), "alice@example.com", "hunter2secret")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAccountDisabled))
}

func TestAuthenticate_StorageErrorPropagates(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrStorageUnavailable)

	_, err := newSvc(us, ss, tk, b).Authenticate(context.Background(), "alice@example.com", "x")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	assert.False(t, errors.Is(err, domain.ErrInvalidCredentials))
}

// --- Login tests ---

func TestLogin_Success(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(), nil)
	b.On("CheckLimit", mock.Anything, "dev-1", "user-1", 3).Return(allowedLimit(), nil)
	b.On("BindAccount", mock.Anything, "dev-1", mock.Anything, mock.Anything, 3).Return(&domain.Device{DeviceID: "dev-1"}, nil)
	ss.On("Put", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
	tk.On("Sign", "user-1", "alice@example.com", domain.RoleAdmin, "dev-1", mock.Anything, testNow).Return("signed-token", nil)

	result, err := newSvc(us, ss, tk, b).Login(context.Background(), loginReq())

	require.NoError(t, err)
	require.NotNil(t, result.Issued)
	assert.Equal(t, "signed-token", result.Issued.Token)
	assert.NotEmpty(t, result.Issued.Marker)
	assert.Equal(t, "user-1", result.Issued.Session.UserID)
	assert.Equal(t, testNow.Add(time.Hour).Unix(), result.Issued.Session.ExpiresAt)
}

func TestLogin_MarkerOutlivesToken(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(), nil)
	b.On("CheckLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(allowedLimit(), nil)
	b.On("BindAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&domain.Device{}, nil)
	ss.On("Put", mock.Anything, mock.Anything).Return(nil)
	tk.On("Sign", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("tok", nil)

	result, err := newSvc(us, ss, tk, b).Login(context.Background(), loginReq())
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(result.Issued.Marker)
	require.NoError(t, err)
	var payload struct {
		UserID    string `json:"user_id"`
		ExpiresAt int64  `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "user-1", payload.UserID)
	assert.GreaterOrEqual(t, payload.ExpiresAt, result.Issued.Session.ExpiresAt,
		"marker must not expire before the session token")
}

func TestLogin_DeviceLimitDenied(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(), nil)
	b.On("CheckLimit", mock.Anything, "dev-1", "user-1", 3).Return(deniedLimit(), nil)

	result, err := newSvc(us, ss, tk, b).Login(context.Background(), loginReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDeviceLimitExceeded))
	require.NotNil(t, result)
	assert.Nil(t, result.Issued, "no session may be issued on a denied login")
	require.NotNil(t, result.Limit)
	assert.Len(t, result.Limit.ExistingAccounts, 3)
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	b.AssertNotCalled(t, "BindAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_LimitCheckFailsClosed(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(), nil)
	b.On("CheckLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrStorageUnavailable)

	result, err := newSvc(us, ss, tk, b).Login(context.Background(), loginReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	assert.Nil(t, result)
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLogin_BindRaceLosesLastSlot(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(), nil)
	// Check passes, but a concurrent login fills the slot before the bind lands.
	b.On("CheckLimit", mock.Anything, "dev-1", "user-1", 3).Return(allowedLimit(), nil).Once()
	b.On("BindAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrDeviceLimitExceeded)
	b.On("CheckLimit", mock.Anything, "dev-1", "user-1", 3).Return(deniedLimit(), nil)

	result, err := newSvc(us, ss, tk, b).Login(context.Background(), loginReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDeviceLimitExceeded))
	require.NotNil(t, result)
	assert.Nil(t, result.Issued)
	require.NotNil(t, result.Limit)
	assert.False(t, result.Limit.Allowed)
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLogin_WrongPasswordNoDeviceMutation(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(activeUser(), nil)

	req := loginReq()
	req.Password = "wrong"
	_, err := newSvc(us, ss, tk, b).Login(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	b.AssertNotCalled(t, "CheckLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	b.AssertNotCalled(t, "BindAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- ValidateSession tests ---

func activeSession() *domain.Session {
	return &domain.Session{
		SessionID: "sess-1",
		UserID:    "user-1",
		Role:      domain.RoleAdmin,
		Enable:    true,
		ExpiresAt: testNow.Add(time.Hour).Unix(),
	}
}

func TestValidateSession_Valid(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	tk.On("Verify", "tok").Return(&jwtinfra.Claims{SessionID: "sess-1"}, nil)
	ss.On("Get", mock.Anything, "sess-1").Return(activeSession(), nil)

	sess, err := newSvc(us, ss, tk, b).ValidateSession(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID)
}

func TestValidateSession_EmptyToken(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}

	_, err := newSvc(us, ss, tk, b).ValidateSession(context.Background(), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestValidateSession_BadSignature(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	tk.On("Verify", "garbage").Return(nil, errors.New("signature invalid"))

	_, err := newSvc(us, ss, tk, b).ValidateSession(context.Background(), "garbage")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestValidateSession_RevokedSession(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	sess := activeSession()
	sess.Enable = false
	tk.On("Verify", "tok").Return(&jwtinfra.Claims{SessionID: "sess-1"}, nil)
	ss.On("Get", mock.Anything, "sess-1").Return(sess, nil)

	_, err := newSvc(us, ss, tk, b).ValidateSession(context.Background(), "tok")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestValidateSession_ExpiredRecord(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	sess := activeSession()
	sess.ExpiresAt = testNow.Add(-time.Minute).Unix()
	tk.On("Verify", "tok").Return(&jwtinfra.Claims{SessionID: "sess-1"}, nil)
	ss.On("Get", mock.Anything, "sess-1").Return(sess, nil)

	_, err := newSvc(us, ss, tk, b).ValidateSession(context.Background(), "tok")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestValidateSession_MissingRecord(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	tk.On("Verify", "tok").Return(&jwtinfra.Claims{SessionID: "sess-gone"}, nil)
	ss.On("Get", mock.Anything, "sess-gone").Return(nil, domain.ErrNotFound)

	_, err := newSvc(us, ss, tk, b).ValidateSession(context.Background(), "tok")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

// --- RevokeSession tests ---

func TestRevokeSession_DisablesRecord(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	tk.On("Verify", "tok").Return(&jwtinfra.Claims{SessionID: "sess-1"}, nil)
	ss.On("Disable", mock.Anything, "sess-1").Return(nil)

	err := newSvc(us, ss, tk, b).RevokeSession(context.Background(), "tok")

	require.NoError(t, err)
	ss.AssertCalled(t, "Disable", mock.Anything, "sess-1")
}

func TestRevokeSession_InvalidTokenIsNoop(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	tk.On("Verify", "garbage").Return(nil, errors.New("bad token"))

	err := newSvc(us, ss, tk, b).RevokeSession(context.Background(), "garbage")

	require.NoError(t, err)
	ss.AssertNotCalled(t, "Disable", mock.Anything, mock.Anything)
}

func TestRevokeSession_TwiceIsIdempotent(t *testing.T) {
	us, ss, tk, b := &mockUserStore{}, &mockSessionStore{}, &mockTokens{}, &mockBinder{}
	tk.On("Verify", "tok").Return(&jwtinfra.Claims{SessionID: "sess-1"}, nil)
	ss.On("Disable", mock.Anything, "sess-1").Return(nil)

	svc := newSvc(us, ss, tk, b)
	require.NoError(t, svc.RevokeSession(context.Background(), "tok"))
	require.NoError(t, svc.RevokeSession(context.Background(), "tok"))
}
