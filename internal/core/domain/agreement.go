package domain

import (
	"errors"
	"time"
)

// Category classifies an agreement in the dashboard.
type Category string

const (
	CategoryClients    Category = "Clients"
	CategorySuppliers  Category = "Suppliers"
	CategoryOperations Category = "Operations"
	CategoryHR         Category = "HR"
	CategoryMarketing  Category = "Marketing"
	CategoryFinance    Category = "Finance"
	CategoryOther      Category = "Other"
)

var allowedCategories = map[Category]struct{}{
	CategoryClients:    {},
	CategorySuppliers:  {},
	CategoryOperations: {},
	CategoryHR:         {},
	CategoryMarketing:  {},
	CategoryFinance:    {},
	CategoryOther:      {},
}

// Valid reports whether the category is in the fixed allow list.
func (c Category) Valid() bool {
	_, ok := allowedCategories[c]
	return ok
}

// AnchorStatus tracks the outcome of the on-chain anchoring step.
type AnchorStatus string

const (
	AnchorNone      AnchorStatus = ""
	AnchorPending   AnchorStatus = "pending"
	AnchorConfirmed AnchorStatus = "confirmed"
	AnchorFailed    AnchorStatus = "failed"
)

var ErrAgreementNotFound = errors.New("agreement not found")
var ErrDuplicateAgreement = errors.New("agreement already exists")
var ErrNotFoundOrSigned = errors.New("agreement not found or already signed")
var ErrAlreadySigned = errors.New("agreement is already countersigned")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidCategory = errors.New("invalid category")
var ErrTagRequired = errors.New("agreement tag is required when signature is not needed")
var ErrEmptyText = errors.New("agreement text is required")
var ErrDecryptionFailed = errors.New("decryption failed")

// Agreement is the core aggregate root. The fingerprint is the SHA-256 hex
// digest of the canonicalized text and serves as the sole lookup key.
type Agreement struct {
	ID                string       `json:"id" bson:"_id,omitempty"`
	Fingerprint       string       `json:"fingerprint" bson:"fingerprint"`
	OwnerID           string       `json:"owner_id" bson:"owner_id"`
	Category          Category     `json:"category" bson:"category"`
	NeedsSignature    bool         `json:"needs_signature" bson:"needs_signature"`
	Tag               string       `json:"tag,omitempty" bson:"tag,omitempty"`
	Ciphertext        []byte       `json:"-" bson:"ciphertext"`
	CreatedAt         time.Time    `json:"created_at" bson:"created_at"`
	CounterSigned     bool         `json:"counter_signed" bson:"counter_signed"`
	CountersignerName string       `json:"countersigner_name,omitempty" bson:"countersigner_name,omitempty"`
	CountersignedAt   time.Time    `json:"countersigned_at,omitempty" bson:"countersigned_at,omitempty"`
	AnchorStatus      AnchorStatus `json:"anchor_status,omitempty" bson:"anchor_status,omitempty"`
	AnchorTxID        string       `json:"anchor_tx_id,omitempty" bson:"anchor_tx_id,omitempty"`
	AnchorDetail      string       `json:"anchor_detail,omitempty" bson:"anchor_detail,omitempty"`
}

// Receipt is the downloadable artifact handed to the countersigner. It is
// assembled from the persisted row, never from request input.
type Receipt struct {
	Fingerprint       string
	Text              string
	CountersignerName string
	CountersignedAt   time.Time
	AnchorTxID        string
}

// Render produces the plain structured text offered for download.
func (r Receipt) Render() string {
	ts := r.CountersignedAt.UTC().Format("2006-01-02 15:04:05")
	out := "AGREEMENT RECEIPT\n" +
		"=================\n\n" +
		"Fingerprint:    " + r.Fingerprint + "\n" +
		"Countersigner:  " + r.CountersignerName + "\n" +
		"Countersigned:  " + ts + " UTC\n"
	if r.AnchorTxID != "" {
		out += "Ledger tx:      " + r.AnchorTxID + "\n"
	}
	out += "\n---\n\n" + r.Text + "\n"
	return out
}
