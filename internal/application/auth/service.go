package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jwtinfra "github.com/nano-banana/admin-api/internal/infrastructure/jwt"
	"github.com/nano-banana/admin-api/internal/pkg/clock"
	"github.com/nano-banana/admin-api/internal/pkg/id"

	"github.com/nano-banana/admin-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email      string            `json:"email" validate:"required,email"`
	Password   string            `json:"password" validate:"required"`
	DeviceID   string            `json:"device_id" validate:"required"`
	DeviceInfo domain.DeviceInfo `json:"device_info"`
}

// IssuedSession carries the two tokens minted on login. Token is the
// server-validated credential; Marker is readable by the client and only
// gates UI state — it must never be accepted as an authorization proof.
type IssuedSession struct {
	Token   string
	Marker  string
	Session *domain.Session
}

// LoginResult is the outcome of the composed login flow. When the device
// limit blocks the login, Issued is nil and Limit carries the denial detail.
type LoginResult struct {
	Issued *IssuedSession
	Limit  *domain.DeviceLimitCheckResult
	User   *domain.User
}

type Service interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	IssueSession(ctx context.Context, u *domain.User, deviceID string) (*IssuedSession, error)
	ValidateSession(ctx context.Context, token string) (*domain.Session, error)
	RevokeSession(ctx context.Context, token string) error

	// Login runs authenticate -> limit check -> bind -> issue, in that order.
	// A session is never issued for a login denied on device-limit grounds.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Disable(ctx context.Context, sessionID string) error
}

type tokenProvider interface {
	Sign(userID, email, role, deviceID, sessionID string, issuedAt time.Time) (string, error)
	Verify(token string) (*jwtinfra.Claims, error)
}

type accountBinder interface {
	CheckLimit(ctx context.Context, deviceID, accountID string, maxLimit int) (*domain.DeviceLimitCheckResult, error)
	BindAccount(ctx context.Context, deviceID string, account domain.AccountInfo, info domain.DeviceInfo, maxLimit int) (*domain.Device, error)
}

type service struct {
	userRepo    userStore
	sessionRepo sessionStore
	tokens      tokenProvider
	binder      accountBinder
	sessionTTL  time.Duration
	markerTTL   time.Duration
	deviceLimit int
	now         clock.Clock
}

type ServiceDeps struct {
	UserRepo    userStore
	SessionRepo sessionStore
	Tokens      tokenProvider
	Binder      accountBinder
	SessionTTL  time.Duration
	MarkerTTL   time.Duration
	DeviceLimit int
	Clock       clock.Clock
}

func NewService(deps ServiceDeps) Service {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.MarkerTTL < deps.SessionTTL {
		deps.MarkerTTL = deps.SessionTTL
	}
	return &service{
		userRepo:    deps.UserRepo,
		sessionRepo: deps.SessionRepo,
		tokens:      deps.Tokens,
		binder:      deps.Binder,
		sessionTTL:  deps.SessionTTL,
		markerTTL:   deps.MarkerTTL,
		deviceLimit: deps.DeviceLimit,
		now:         deps.Clock,
	}
}

// Authenticate verifies credentials. Unknown email and wrong password produce
// the same failure so callers cannot enumerate accounts.
func (s *service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("login failed: %w", domain.ErrInvalidCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("login failed: %w", domain.ErrInvalidCredentials)
	}
	if !u.Enable {
		return nil, fmt.Errorf("login failed: %w", domain.ErrAccountDisabled)
	}
	return u, nil
}

func (s *service) IssueSession(ctx context.Context, u *domain.User, deviceID string) (*IssuedSession, error) {
	now := s.now.Now()
	sess := &domain.Session{
		SessionID: id.New(),
		UserID:    u.UserID,
		Email:     u.Email,
		Role:      u.Role,
		DeviceID:  deviceID,
		Enable:    true,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL).Unix(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, err
	}
	token, err := s.tokens.Sign(u.UserID, u.Email, u.Role, deviceID, sess.SessionID, now)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return &IssuedSession{
		Token:   token,
		Marker:  s.newMarker(u, now),
		Session: sess,
	}, nil
}

func (s *service) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", domain.ErrUnauthenticated)
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthenticated)
	}
	sess, err := s.sessionRepo.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown session: %w", domain.ErrUnauthenticated)
		}
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session revoked: %w", domain.ErrUnauthenticated)
	}
	if sess.ExpiresAt < s.now.Now().Unix() {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthenticated)
	}
	return sess, nil
}

// RevokeSession is idempotent: a malformed, expired or already-revoked token
// is treated as already gone.
func (s *service) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}
	return s.sessionRepo.Disable(ctx, claims.SessionID)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	limit, err := s.binder.CheckLimit(ctx, req.DeviceID, u.UserID, s.deviceLimit)
	if err != nil {
		// Fail closed: no session when the device store can't be consulted.
		return nil, err
	}
	if !limit.Allowed {
		return &LoginResult{Limit: limit, User: u},
			fmt.Errorf("%s: %w", limit.Reason, domain.ErrDeviceLimitExceeded)
	}

	if _, err := s.binder.BindAccount(ctx, req.DeviceID, domain.AccountInfo{
		AccountID: u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
	}, req.DeviceInfo, s.deviceLimit); err != nil {
		if errors.Is(err, domain.ErrDeviceLimitExceeded) {
			// A concurrent login filled the last slot between check and bind.
			limit, cerr := s.binder.CheckLimit(ctx, req.DeviceID, u.UserID, s.deviceLimit)
			if cerr != nil {
				return nil, err
			}
			return &LoginResult{Limit: limit, User: u}, err
		}
		return nil, err
	}

	issued, err := s.IssueSession(ctx, u, req.DeviceID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Issued: issued, Limit: limit, User: u}, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	return s.RevokeSession(ctx, token)
}

// markerPayload is what the client-readable marker encodes. It is plain
// base64 JSON on purpose: the client may inspect it, the server never trusts it.
type markerPayload struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

func (s *service) newMarker(u *domain.User, now time.Time) string {
	b, _ := json.Marshal(markerPayload{
		UserID:    u.UserID,
		Email:     u.Email,
		Role:      u.Role,
		ExpiresAt: now.Add(s.markerTTL).Unix(),
	})
	return base64.RawURLEncoding.EncodeToString(b)
}
