package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastfood-vn/backend/internal/otp"
)

// Service drives OTP-gated registration and password reset. Token issuance is
// left to whatever session layer sits in front of this API.
type Service struct {
	Users Store
	OTP   *otp.Service
}

func (s *Service) RequestRegisterOTP(ctx context.Context, email string) (*otp.Request, error) {
	taken, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	return s.OTP.Issue(ctx, email, otp.PurposeRegister)
}

func (s *Service) ConfirmRegister(ctx context.Context, email, code, password string, role Role) (*User, error) {
	if !role.Known() {
		return nil, ErrInvalidRole
	}
	if err := s.OTP.Verify(ctx, email, code, otp.PurposeRegister); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.Users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// RequestPasswordReset never reports whether the email is registered; an
// unknown address is a silent no-op so the endpoint cannot be used to
// enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*otp.Request, error) {
	_, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.OTP.Issue(ctx, email, otp.PurposeResetPassword)
}

func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.OTP.Verify(ctx, email, code, otp.PurposeResetPassword); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.ID, string(hash))
}
