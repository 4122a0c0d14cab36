package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
)

const collectionAgreements = "agreements"

type AgreementRepository struct {
	col *mongo.Collection
}

func NewAgreementRepository(db *mongo.Database) *AgreementRepository {
	return &AgreementRepository{col: db.Collection(collectionAgreements)}
}

// Create inserts a new agreement document. The unique index on fingerprint
// makes the insert the all-or-nothing boundary: identical text submitted
// twice collides on the same digest.
func (r *AgreementRepository) Create(ctx context.Context, a *domain.Agreement) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAgreement
		}
		return err
	}
	return nil
}

// FindByFingerprint retrieves an agreement by fingerprint. When
// requireNeedsSignature is true, only rows awaiting a second-party
// signature match.
func (r *AgreementRepository) FindByFingerprint(ctx context.Context, fingerprint string, requireNeedsSignature bool) (*domain.Agreement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"fingerprint": fingerprint}
	if requireNeedsSignature {
		filter["needs_signature"] = true
	}

	var a domain.Agreement
	err := r.col.FindOne(ctx, filter).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAgreementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByOwner returns the owner's agreements, newest first.
func (r *AgreementRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Agreement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var agreements []*domain.Agreement
	if err := cursor.All(ctx, &agreements); err != nil {
		return nil, err
	}
	return agreements, nil
}

// Delete removes a pending agreement after verifying ownership. Deleting
// another owner's record is ErrForbidden, not a silent no-op, and
// countersigned rows are immutable.
func (r *AgreementRepository) Delete(ctx context.Context, fingerprint, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var existing domain.Agreement
	err := r.col.FindOne(ctx, bson.M{"fingerprint": fingerprint}).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrAgreementNotFound
		}
		return err
	}
	if existing.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	if existing.CounterSigned {
		return domain.ErrAlreadySigned
	}

	// Repeat the ownership and lifecycle conditions in the delete filter so
	// a concurrent countersign between the read and the delete cannot race.
	res, err := r.col.DeleteOne(ctx, bson.M{
		"fingerprint":    fingerprint,
		"owner_id":       ownerID,
		"counter_signed": bson.M{"$ne": true},
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFoundOrSigned
	}
	return nil
}

// MarkCountersigned is the conditional update that guarantees at most one
// caller ever countersigns a fingerprint: the filter only matches rows with
// counter_signed still false, and the matched-document check is atomic.
func (r *AgreementRepository) MarkCountersigned(ctx context.Context, fingerprint, signerName string, ts time.Time) (*domain.Agreement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"fingerprint":    fingerprint,
		"counter_signed": bson.M{"$ne": true},
	}
	update := bson.M{"$set": bson.M{
		"counter_signed":     true,
		"countersigner_name": signerName,
		"countersigned_at":   ts.UTC(),
		"anchor_status":      domain.AnchorPending,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Agreement
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFoundOrSigned
		}
		return nil, err
	}
	return &updated, nil
}

// RecordAnchorResult writes the relay outcome back onto the row.
func (r *AgreementRepository) RecordAnchorResult(ctx context.Context, fingerprint string, status domain.AnchorStatus, txID, detail string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"anchor_status": status,
		"anchor_tx_id":  txID,
		"anchor_detail": detail,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"fingerprint": fingerprint}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAgreementNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the agreements collection.
func (r *AgreementRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "fingerprint", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
