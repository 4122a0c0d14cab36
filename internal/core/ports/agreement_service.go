package ports

import (
	"context"
	"time"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
)

// CreateAgreementInput carries all data needed to record a new agreement.
type CreateAgreementInput struct {
	OwnerID        string
	Text           string
	Category       string
	NeedsSignature bool
	Tag            string
}

// CreateAgreementResult is returned after a successful create.
type CreateAgreementResult struct {
	Fingerprint string
	CreatedAt   time.Time
}

// AgreementLookup is the countersigner-facing view: the decrypted text plus
// the fingerprint that located it.
type AgreementLookup struct {
	Fingerprint string
	Text        string
}

// AgreementSummary is the dashboard view. The encrypted text is never
// exposed through listings.
type AgreementSummary struct {
	Fingerprint       string
	Category          domain.Category
	NeedsSignature    bool
	Tag               string
	CreatedAt         time.Time
	CounterSigned     bool
	CountersignerName string
	CountersignedAt   time.Time
	AnchorStatus      domain.AnchorStatus
	AnchorTxID        string
}

// AgreementService defines use-case operations for agreements.
type AgreementService interface {
	Create(ctx context.Context, input CreateAgreementInput) (*CreateAgreementResult, error)
	// Lookup fetches and decrypts an agreement that still needs a signature.
	Lookup(ctx context.Context, fingerprint string) (*AgreementLookup, error)
	ListByOwner(ctx context.Context, ownerID string) ([]AgreementSummary, error)
	Delete(ctx context.Context, fingerprint, ownerID string) error
	// Receipt rebuilds the downloadable receipt for a countersigned
	// agreement owned by ownerID.
	Receipt(ctx context.Context, fingerprint, ownerID string) (*domain.Receipt, error)
}
