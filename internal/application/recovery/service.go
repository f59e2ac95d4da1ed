package recovery

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/nano-banana/admin-api/internal/infrastructure/smtp"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 15 * time.Minute

type RecoveryRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ValidateOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type Service interface {
	RequestRecovery(ctx context.Context, req RecoveryRequest) error
	ValidateOTP(ctx context.Context, req ValidateOTPRequest) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Get(ctx context.Context, userID, verType string) (*domain.UserVerification, error)
	Delete(ctx context.Context, userID, verType string) error
}

type service struct {
	userRepo         userStore
	verificationRepo verificationStore
	mailer           smtp.Mailer
}

func NewService(userRepo userStore, verificationRepo verificationStore, mailer smtp.Mailer) Service {
	return &service{userRepo: userRepo, verificationRepo: verificationRepo, mailer: mailer}
}

// RequestRecovery emails a one-time code. An unknown email is reported as
// success so the endpoint cannot be used to probe for accounts.
func (s *service) RequestRecovery(ctx context.Context, req RecoveryRequest) error {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		slog.Info("recovery requested for unknown email", "email", req.Email)
		return nil
	}

	n, err := rand.Int(rand.Reader, big.NewInt(999999))
	if err != nil {
		return err
	}
	otp := fmt.Sprintf("%06d", n.Int64())

	v := &domain.UserVerification{
		UserID:    u.UserID,
		Type:      "otp",
		Code:      otp,
		ExpiresAt: time.Now().Add(otpTTL).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	return s.mailer.SendEmail(u.Email, "Password Recovery Code", "Your code: "+otp)
}

func (s *service) ValidateOTP(ctx context.Context, req ValidateOTPRequest) error {
	_, err := s.lookupOTP(ctx, req.Email, req.OTP)
	return err
}

func (s *service) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	u, err := s.lookupOTP(ctx, req.Email, req.OTP)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}
	if err := s.verificationRepo.Delete(ctx, u.UserID, "otp"); err != nil {
		slog.Warn("failed to delete recovery OTP", "user_id", u.UserID, "err", err)
	}
	return nil
}

func (s *service) lookupOTP(ctx context.Context, email, otp string) (*domain.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid code: %w", domain.ErrUnauthenticated)
	}
	v, err := s.verificationRepo.Get(ctx, u.UserID, "otp")
	if err != nil {
		return nil, fmt.Errorf("invalid code: %w", domain.ErrUnauthenticated)
	}
	if v.Code != otp {
		return nil, fmt.Errorf("invalid code: %w", domain.ErrUnauthenticated)
	}
	if v.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("code expired: %w", domain.ErrUnauthenticated)
	}
	return u, nil
}
