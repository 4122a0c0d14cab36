package ports

import (
	"context"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)

	// RequestPasswordReset issues a reset token and queues the reset email.
	// It never reveals whether the account exists: unknown addresses and
	// mail failures both return nil.
	RequestPasswordReset(ctx context.Context, email string) error

	ResetPassword(ctx context.Context, token, newPassword string) error
}
