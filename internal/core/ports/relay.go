package ports

import "context"

// RelayResult mirrors the relay service response wire format.
type RelayResult struct {
	Status string `json:"status"`
	TxHash string `json:"txHash,omitempty"`
	Detail string `json:"details,omitempty"`
}

// Success reports whether the relay confirmed the on-chain transaction.
func (r *RelayResult) Success() bool {
	return r != nil && r.Status == "success"
}

// RelayClient submits a fingerprint and countersign timestamp to the
// ledger-writing relay service. The call blocks until the relay confirms
// the transaction or fails; there is no retry policy and no idempotency
// key. Re-publication of a known fingerprint is rejected by the ledger
// contract itself.
type RelayClient interface {
	Publish(ctx context.Context, fingerprint string, timestamp int64) (*RelayResult, error)
}
