package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
)

// stubAuthRepo is an in-memory AuthRepository keyed by email.
type stubAuthRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	cp := *user
	cp.ID = "user-" + strconv.Itoa(r.nextID)
	r.users[user.Email] = &cp
	out := cp
	return &out, nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubAuthRepo) SetResetToken(_ context.Context, email, token string, expiry time.Time) error {
	u, ok := r.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ResetToken = token
	u.ResetTokenExpiry = expiry
	return nil
}

func (r *stubAuthRepo) ConsumeResetToken(_ context.Context, token, passwordHash string, now time.Time) error {
	for _, u := range r.users {
		if u.ResetToken == token && u.ResetTokenExpiry.After(now) {
			u.PasswordHash = passwordHash
			u.ResetToken = ""
			u.ResetTokenExpiry = time.Time{}
			u.UpdatedAt = now
			return nil
		}
	}
	return domain.ErrInvalidResetToken
}

// stubMailSender records enqueued messages.
type stubMailSender struct {
	messages []ports.MailMessage
}

func (s *stubMailSender) Enqueue(msg ports.MailMessage) {
	s.messages = append(s.messages, msg)
}

func newAuthService(repo *stubAuthRepo, mail *stubMailSender) *AuthService {
	return NewAuthService(repo, mail, "test-secret", time.Hour, 2*time.Hour, "http://localhost:3000", zerolog.Nop())
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthService(repo, &stubMailSender{})
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Fatal("password stored in plaintext")
	}

	token, logged, err := svc.Login(ctx, "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if logged.Email != "alice@example.com" {
		t.Errorf("logged in user email = %q", logged.Email)
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown account: got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	svc := newAuthService(newStubAuthRepo(), &stubMailSender{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "long enough password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("invalid email: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Register(ctx, "bob@example.com", "short"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("short password: got %v, want ErrWeakPassword", err)
	}
}

func TestAuthServiceRegisterDuplicate(t *testing.T) {
	svc := newAuthService(newStubAuthRepo(), &stubMailSender{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol@example.com", "password123"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := svc.Register(ctx, "carol@example.com", "password456"); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("duplicate register: got %v, want ErrUserExists", err)
	}
}

func TestAuthServicePasswordResetFlow(t *testing.T) {
	repo := newStubAuthRepo()
	mail := &stubMailSender{}
	svc := newAuthService(repo, mail)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dave@example.com", "original pass"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "dave@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if len(mail.messages) != 1 {
		t.Fatalf("expected 1 reset mail, got %d", len(mail.messages))
	}
	if mail.messages[0].To != "dave@example.com" {
		t.Errorf("reset mail recipient = %q", mail.messages[0].To)
	}

	token := repo.users["dave@example.com"].ResetToken
	if len(token) != 64 {
		t.Fatalf("reset token length = %d, want 64 hex chars", len(token))
	}
	if !strings.Contains(mail.messages[0].HTMLBody, token) {
		t.Error("reset mail body should contain the reset link with the token")
	}

	if err := svc.ResetPassword(ctx, token, "brand new password"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	hash := repo.users["dave@example.com"].PasswordHash
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand new password")) != nil {
		t.Error("new password does not verify against the stored hash")
	}

	// Token is single use.
	if err := svc.ResetPassword(ctx, token, "yet another password"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Errorf("reused token: got %v, want ErrInvalidResetToken", err)
	}
}

func TestAuthServicePasswordResetUnknownEmail(t *testing.T) {
	mail := &stubMailSender{}
	svc := newAuthService(newStubAuthRepo(), mail)

	// Unknown addresses get the same success answer and no mail.
	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset for unknown email returned error: %v", err)
	}
	if len(mail.messages) != 0 {
		t.Errorf("no mail should be sent for unknown addresses, got %d", len(mail.messages))
	}
}

func TestAuthServicePasswordResetExpiredToken(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newAuthService(repo, &stubMailSender{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "erin@example.com", "original pass"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := repo.SetResetToken(ctx, "erin@example.com", "expiredtoken", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("SetResetToken returned error: %v", err)
	}

	if err := svc.ResetPassword(ctx, "expiredtoken", "new password 123"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Errorf("expired token: got %v, want ErrInvalidResetToken", err)
	}
}

func TestAuthServiceResetPasswordValidation(t *testing.T) {
	svc := newAuthService(newStubAuthRepo(), &stubMailSender{})
	ctx := context.Background()

	if err := svc.ResetPassword(ctx, "", "long enough password"); !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Errorf("empty token: got %v, want ErrInvalidResetToken", err)
	}
	if err := svc.ResetPassword(ctx, "sometoken", "short"); !errors.Is(err, domain.ErrWeakPassword) {
		t.Errorf("short password: got %v, want ErrWeakPassword", err)
	}
}
