package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
	"github.com/agreementlog/agreement-log-api/internal/core/ports"
)

// RelayGuard marks fingerprints already submitted to the relay so a
// concurrent or repeated countersign attempt does not publish twice.
type RelayGuard interface {
	// TryAcquire returns true when this caller is the first to submit the
	// fingerprint to the relay.
	TryAcquire(ctx context.Context, fingerprint string) (bool, error)
}

var ErrMissingFingerprint = errors.New("fingerprint is required")
var ErrMissingSignerName = errors.New("signer name is required")

// CountersignService runs the second-party signature workflow: conditional
// flag flip in the repository, ledger relay call, reconciliation of the
// relay outcome, and receipt assembly.
type CountersignService struct {
	repo   ports.AgreementRepository
	relay  ports.RelayClient
	guard  RelayGuard
	cipher ports.TextCipher
	logger zerolog.Logger
}

func NewCountersignService(
	repo ports.AgreementRepository,
	relay ports.RelayClient,
	guard RelayGuard,
	cipher ports.TextCipher,
	logger zerolog.Logger,
) *CountersignService {
	return &CountersignService{repo: repo, relay: relay, guard: guard, cipher: cipher, logger: logger}
}

// Countersign marks the agreement countersigned and anchors the signature
// timestamp on the ledger.
//
// The repository update is the sole mutual-exclusion point: exactly one
// caller per fingerprint gets past it, so the relay is invoked at most once
// per agreement. If the relay then fails, the record stays countersigned:
// the countersignature is a fact between the two parties and anchoring is
// best-effort evidence. The failure is written back onto the row and
// surfaced verbatim in the result.
func (s *CountersignService) Countersign(ctx context.Context, fingerprint, signerName string) (*ports.CountersignResult, error) {
	if fingerprint == "" {
		return nil, ErrMissingFingerprint
	}
	if signerName == "" {
		return nil, ErrMissingSignerName
	}

	// Conditional update: fails with ErrNotFoundOrSigned for unknown or
	// already-signed fingerprints without touching any state.
	agreement, err := s.repo.MarkCountersigned(ctx, fingerprint, signerName, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// The timestamp sent on-chain comes from the persisted row, not from
	// anything the caller supplied.
	result := &ports.CountersignResult{
		Fingerprint:       agreement.Fingerprint,
		CountersignerName: agreement.CountersignerName,
		CountersignedAt:   agreement.CountersignedAt,
	}

	result.AnchorStatus, result.AnchorTxID, result.AnchorDetail = s.anchor(ctx, agreement)

	text, err := s.cipher.Decrypt(agreement.Ciphertext)
	if err != nil {
		s.logger.Error().Err(err).Str("fingerprint", fingerprint).Msg("countersigned agreement cannot be decrypted")
		return nil, err
	}

	result.Receipt = domain.Receipt{
		Fingerprint:       agreement.Fingerprint,
		Text:              text,
		CountersignerName: agreement.CountersignerName,
		CountersignedAt:   agreement.CountersignedAt,
		AnchorTxID:        result.AnchorTxID,
	}

	s.logger.Info().
		Str("fingerprint", fingerprint).
		Str("countersigner", signerName).
		Str("anchor_status", string(result.AnchorStatus)).
		Str("tx_hash", result.AnchorTxID).
		Msg("agreement countersigned")

	return result, nil
}

// anchor submits the fingerprint to the relay and reconciles the outcome
// onto the row. Guard errors are tolerated: losing the guard is safe because
// the ledger contract rejects re-publication of a known fingerprint.
func (s *CountersignService) anchor(ctx context.Context, agreement *domain.Agreement) (domain.AnchorStatus, string, string) {
	acquired, err := s.guard.TryAcquire(ctx, agreement.Fingerprint)
	if err != nil {
		s.logger.Warn().Err(err).Str("fingerprint", agreement.Fingerprint).Msg("relay guard unavailable, submitting anyway")
	} else if !acquired {
		s.logger.Info().Str("fingerprint", agreement.Fingerprint).Msg("fingerprint already submitted to relay, skipping")
		return s.reconcile(ctx, agreement.Fingerprint, domain.AnchorFailed, "", "fingerprint already submitted to relay")
	}

	relayResult, err := s.relay.Publish(ctx, agreement.Fingerprint, agreement.CountersignedAt.Unix())
	if err != nil {
		s.logger.Error().Err(err).Str("fingerprint", agreement.Fingerprint).Msg("relay call failed")
		return s.reconcile(ctx, agreement.Fingerprint, domain.AnchorFailed, "", err.Error())
	}
	if !relayResult.Success() {
		detail := relayResult.Detail
		if detail == "" {
			detail = "relay reported status " + relayResult.Status
		}
		s.logger.Error().Str("fingerprint", agreement.Fingerprint).Str("detail", detail).Msg("relay rejected transaction")
		return s.reconcile(ctx, agreement.Fingerprint, domain.AnchorFailed, "", detail)
	}

	return s.reconcile(ctx, agreement.Fingerprint, domain.AnchorConfirmed, relayResult.TxHash, "")
}

// reconcile writes the anchor outcome back onto the agreement row. A failed
// write-back is logged but does not undo the countersignature.
func (s *CountersignService) reconcile(ctx context.Context, fingerprint string, status domain.AnchorStatus, txID, detail string) (domain.AnchorStatus, string, string) {
	if err := s.repo.RecordAnchorResult(ctx, fingerprint, status, txID, detail); err != nil {
		s.logger.Error().Err(err).Str("fingerprint", fingerprint).Msg("failed to record anchor result")
	}
	return status, txID, detail
}
