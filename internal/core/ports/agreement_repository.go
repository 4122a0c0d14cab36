package ports

import (
	"context"
	"time"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
)

// AgreementRepository defines persistence operations for agreements.
type AgreementRepository interface {
	Create(ctx context.Context, a *domain.Agreement) error

	// FindByFingerprint retrieves an agreement by its fingerprint. When
	// requireNeedsSignature is true, only rows still awaiting a second-party
	// signature match (the countersigner-facing lookup).
	FindByFingerprint(ctx context.Context, fingerprint string, requireNeedsSignature bool) (*domain.Agreement, error)

	// ListByOwner returns the owner's agreements, newest first, for the
	// dashboard. Ciphertext is included; callers decide whether to decrypt.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Agreement, error)

	// Delete removes a pending agreement after verifying ownership.
	// Returns ErrAgreementNotFound, ErrForbidden (wrong owner), or
	// ErrAlreadySigned (countersigned rows are immutable).
	Delete(ctx context.Context, fingerprint, ownerID string) error

	// MarkCountersigned atomically flips counter_signed from false to true,
	// recording the signer name and timestamp, and returns the updated row.
	// At most one caller ever succeeds for a given fingerprint; all others
	// receive ErrNotFoundOrSigned.
	MarkCountersigned(ctx context.Context, fingerprint, signerName string, ts time.Time) (*domain.Agreement, error)

	// RecordAnchorResult reconciles the relay outcome back onto the row.
	RecordAnchorResult(ctx context.Context, fingerprint string, status domain.AnchorStatus, txID, detail string) error
}
