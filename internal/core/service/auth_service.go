package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
)

const minPasswordLen = 8

// ResetMailSender hands reset emails off for delivery without blocking the
// request. Implementations must never fail the reset flow.
type ResetMailSender interface {
	Enqueue(msg ports.MailMessage)
}

// AuthService implements registration, login and the password reset flow.
type AuthService struct {
	repo         ports.AuthRepository
	mail         ResetMailSender
	jwtSecret    string
	tokenTTL     time.Duration
	resetTTL     time.Duration
	resetBaseURL string
	logger       zerolog.Logger
}

func NewAuthService(
	repo ports.AuthRepository,
	mail ResetMailSender,
	jwtSecret string,
	tokenTTL, resetTTL time.Duration,
	resetBaseURL string,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = 2 * time.Hour
	}
	return &AuthService{
		repo:         repo,
		mail:         mail,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		resetTTL:     resetTTL,
		resetBaseURL: resetBaseURL,
		logger:       logger,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("email", email).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// RequestPasswordReset always reports success so callers cannot probe which
// addresses have accounts. Token storage failures are the only hard errors;
// mail delivery happens asynchronously and never blocks the request.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}
	expiry := time.Now().UTC().Add(s.resetTTL)

	if err := s.repo.SetResetToken(ctx, email, token, expiry); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.resetBaseURL, token)
	s.mail.Enqueue(ports.MailMessage{
		To:       email,
		Subject:  "Password Reset Request",
		HTMLBody: fmt.Sprintf(`Click the link to reset your Agreement Log password: <a href="%s">%s</a>. This link expires in %s.`, link, link, s.resetTTL),
	})

	s.logger.Info().Str("email", email).Msg("password reset requested")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrInvalidResetToken
	}
	if len(newPassword) < minPasswordLen {
		return domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Atomic consume: matches an unexpired token, sets the hash, and clears
	// the token in one conditional update (single use).
	if err := s.repo.ConsumeResetToken(ctx, token, string(hash), time.Now().UTC()); err != nil {
		return err
	}

	s.logger.Info().Msg("password reset completed")
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
