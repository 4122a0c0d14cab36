package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidResetToken = errors.New("invalid or expired reset token")
var ErrWeakPassword = errors.New("password must be at least 8 characters")

// User is an account that owns agreements. The reset token fields are only
// populated while a password reset is pending; consuming the token clears
// them.
type User struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	Email            string    `json:"email" bson:"email"`
	PasswordHash     string    `json:"-" bson:"password_hash"`
	ResetToken       string    `json:"-" bson:"reset_token,omitempty"`
	ResetTokenExpiry time.Time `json:"-" bson:"reset_token_expiry,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}
