package ports

import (
	"context"
	"time"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
)

// CountersignResult reports the outcome of the countersign workflow. The
// countersignature itself and the ledger anchoring step can succeed or fail
// independently; AnchorStatus tells the caller which case occurred.
type CountersignResult struct {
	Fingerprint       string
	CountersignerName string
	CountersignedAt   time.Time
	AnchorStatus      domain.AnchorStatus
	AnchorTxID        string
	AnchorDetail      string
	Receipt           domain.Receipt
}

// CountersignService coordinates the second-party signature: conditional
// repository update, ledger relay call, and reconciliation of the relay
// outcome back onto the record.
type CountersignService interface {
	Countersign(ctx context.Context, fingerprint, signerName string) (*CountersignResult, error)
}
