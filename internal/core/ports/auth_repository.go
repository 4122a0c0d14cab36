package ports

import (
	"context"
	"time"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
)

// AuthRepository defines persistence for user accounts and reset tokens.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetResetToken stores a single-use reset token with its expiry.
	SetResetToken(ctx context.Context, email, token string, expiry time.Time) error

	// ConsumeResetToken atomically matches an unexpired token, sets the new
	// password hash, and clears the token so it cannot be reused. Returns
	// ErrInvalidResetToken when no row matches.
	ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) error
}
