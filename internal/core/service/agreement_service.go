package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
	"github.com/agreementlog/agreement-log-api/internal/pkg/canonical"
)

// AgreementService implements agreement creation, lookup, listing, deletion
// and receipt rebuilding.
type AgreementService struct {
	repo   ports.AgreementRepository
	cipher ports.TextCipher
	logger zerolog.Logger
}

func NewAgreementService(repo ports.AgreementRepository, cipher ports.TextCipher, logger zerolog.Logger) *AgreementService {
	return &AgreementService{repo: repo, cipher: cipher, logger: logger}
}

// Create canonicalizes and fingerprints the text, encrypts it, and persists
// the row. The fingerprint is returned to the owner as the shareable key.
func (s *AgreementService) Create(ctx context.Context, input ports.CreateAgreementInput) (*ports.CreateAgreementResult, error) {
	if input.Text == "" {
		return nil, domain.ErrEmptyText
	}
	category := domain.Category(input.Category)
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	// Self-logged agreements carry a tag instead of a countersigner name.
	if !input.NeedsSignature && input.Tag == "" {
		return nil, domain.ErrTagRequired
	}

	text := canonical.Canonicalize(input.Text)
	fingerprint := canonical.Fingerprint(text)

	ciphertext, err := s.cipher.Encrypt(text)
	if err != nil {
		return nil, fmt.Errorf("encrypt agreement: %w", err)
	}

	agreement := &domain.Agreement{
		Fingerprint:    fingerprint,
		OwnerID:        input.OwnerID,
		Category:       category,
		NeedsSignature: input.NeedsSignature,
		Tag:            input.Tag,
		Ciphertext:     ciphertext,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, agreement); err != nil {
		s.logger.Error().Err(err).Str("fingerprint", fingerprint).Msg("failed to create agreement")
		return nil, err
	}

	s.logger.Info().
		Str("fingerprint", fingerprint).
		Str("owner_id", input.OwnerID).
		Str("category", input.Category).
		Bool("needs_signature", input.NeedsSignature).
		Msg("agreement created")

	return &ports.CreateAgreementResult{Fingerprint: fingerprint, CreatedAt: agreement.CreatedAt}, nil
}

// Lookup is the countersigner-facing fetch: only rows still awaiting a
// signature match, and the text is decrypted before being returned.
func (s *AgreementService) Lookup(ctx context.Context, fingerprint string) (*ports.AgreementLookup, error) {
	if fingerprint == "" {
		return nil, domain.ErrAgreementNotFound
	}

	agreement, err := s.repo.FindByFingerprint(ctx, fingerprint, true)
	if err != nil {
		return nil, err
	}

	text, err := s.cipher.Decrypt(agreement.Ciphertext)
	if err != nil {
		s.logger.Error().Err(err).Str("fingerprint", fingerprint).Msg("agreement ciphertext cannot be decrypted")
		return nil, err
	}

	return &ports.AgreementLookup{Fingerprint: agreement.Fingerprint, Text: text}, nil
}

// ListByOwner returns the owner's dashboard rows. Text stays encrypted at
// rest and is not part of listings.
func (s *AgreementService) ListByOwner(ctx context.Context, ownerID string) ([]ports.AgreementSummary, error) {
	agreements, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.AgreementSummary, 0, len(agreements))
	for _, a := range agreements {
		summaries = append(summaries, ports.AgreementSummary{
			Fingerprint:       a.Fingerprint,
			Category:          a.Category,
			NeedsSignature:    a.NeedsSignature,
			Tag:               a.Tag,
			CreatedAt:         a.CreatedAt,
			CounterSigned:     a.CounterSigned,
			CountersignerName: a.CountersignerName,
			CountersignedAt:   a.CountersignedAt,
			AnchorStatus:      a.AnchorStatus,
			AnchorTxID:        a.AnchorTxID,
		})
	}
	return summaries, nil
}

// Delete removes a pending agreement owned by ownerID. Ownership and
// lifecycle checks live in the repository so the condition is verified in
// the same store that holds the row.
func (s *AgreementService) Delete(ctx context.Context, fingerprint, ownerID string) error {
	if fingerprint == "" || ownerID == "" {
		return domain.ErrAgreementNotFound
	}
	if err := s.repo.Delete(ctx, fingerprint, ownerID); err != nil {
		return err
	}
	s.logger.Info().Str("fingerprint", fingerprint).Str("owner_id", ownerID).Msg("agreement deleted")
	return nil
}

// Receipt rebuilds the downloadable receipt for a countersigned agreement.
func (s *AgreementService) Receipt(ctx context.Context, fingerprint, ownerID string) (*domain.Receipt, error) {
	agreement, err := s.repo.FindByFingerprint(ctx, fingerprint, false)
	if err != nil {
		return nil, err
	}
	if agreement.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if !agreement.CounterSigned {
		return nil, domain.ErrAgreementNotFound
	}

	text, err := s.cipher.Decrypt(agreement.Ciphertext)
	if err != nil {
		return nil, err
	}

	return &domain.Receipt{
		Fingerprint:       agreement.Fingerprint,
		Text:              text,
		CountersignerName: agreement.CountersignerName,
		CountersignedAt:   agreement.CountersignedAt,
		AnchorTxID:        agreement.AnchorTxID,
	}, nil
}
