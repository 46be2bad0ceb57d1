// Package mongo implements the ledger.Client contract on an append-only
// MongoDB collection. A unique index on the fingerprint field is the
// duplicate arbiter: the first insert wins and every later attempt fails
// with a duplicate-key error, which keeps duplicate detection on the
// ledger side rather than in the coordinator.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/invoice-ledger/internal/domain/invoice"
	"github.com/invoice-ledger/internal/domain/ledger"
)

const (
	// AttestationCollectionName is the name of the ledger collection in MongoDB
	AttestationCollectionName = "attestations"
)

// LedgerClient implements the ledger.Client interface for MongoDB
type LedgerClient struct {
	db        *mongo.Database
	logger    *slog.Logger
	opTimeout time.Duration
}

// NewLedgerClient creates a MongoDB ledger client and ensures the unique
// fingerprint index exists. Every ledger call is bounded by opTimeout;
// deadline expiry surfaces as ledger.ErrUnavailable rather than hanging
// the request.
func NewLedgerClient(ctx context.Context, logger *slog.Logger, db *mongo.Database, opTimeout time.Duration) (ledger.Client, error) {
	client := &LedgerClient{
		db:        db,
		logger:    logger,
		opTimeout: opTimeout,
	}

	indexCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "fingerprint", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(AttestationCollectionName).Indexes().CreateOne(indexCtx, indexModel); err != nil {
		return nil, fmt.Errorf("failed to ensure unique fingerprint index: %w", err)
	}

	return client, nil
}

// Submit records a fingerprint exactly once and returns the transaction
// reference the ledger assigned to it
func (c *LedgerClient) Submit(ctx context.Context, fp invoice.Fingerprint, submitter string) (string, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	attestation := &ledger.Attestation{
		Fingerprint: fp.String(),
		Submitter:   submitter,
		TxRef:       uuid.New().String(),
		AcceptedAt:  time.Now().UTC(),
	}

	collection := c.db.Collection(AttestationCollectionName)
	if _, err := collection.InsertOne(opCtx, attestation); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ledger.ErrDuplicateFingerprint{Fingerprint: fp.String()}
		}
		if isUnavailable(err) {
			c.logger.Error("Ledger unreachable during submit", "fingerprint", fp.String(), "error", err)
			return "", ledger.ErrUnavailable{Err: err}
		}
		c.logger.Error("Ledger rejected submission", "fingerprint", fp.String(), "error", err)
		return "", ledger.ErrRejected{Reason: err.Error()}
	}

	c.logger.Info("Fingerprint accepted by ledger",
		"fingerprint", fp.String(),
		"submitter", submitter,
		"tx_ref", attestation.TxRef,
	)

	return attestation.TxRef, nil
}

// Verify reports the attestation for a fingerprint, or (nil, nil) when the
// ledger has never accepted it
func (c *LedgerClient) Verify(ctx context.Context, fp invoice.Fingerprint) (*ledger.Attestation, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	collection := c.db.Collection(AttestationCollectionName)

	filter := bson.M{"fingerprint": fp.String()}
	var attestation ledger.Attestation
	err := collection.FindOne(opCtx, filter).Decode(&attestation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Absence is a normal verification outcome
		}
		if isUnavailable(err) {
			c.logger.Error("Ledger unreachable during verify", "fingerprint", fp.String(), "error", err)
			return nil, ledger.ErrUnavailable{Err: err}
		}
		c.logger.Error("Failed to verify fingerprint", "fingerprint", fp.String(), "error", err)
		return nil, fmt.Errorf("failed to verify fingerprint: %w", err)
	}

	return &attestation, nil
}

// ListAcceptedSince returns attestations accepted after the given instant,
// oldest first
func (c *LedgerClient) ListAcceptedSince(ctx context.Context, since time.Time, limit int) ([]*ledger.Attestation, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	collection := c.db.Collection(AttestationCollectionName)

	filter := bson.M{"accepted_at": bson.M{"$gt": since}}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "accepted_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(opCtx, filter, findOptions)
	if err != nil {
		if isUnavailable(err) {
			return nil, ledger.ErrUnavailable{Err: err}
		}
		c.logger.Error("Failed to list ledger attestations", "since", since, "error", err)
		return nil, fmt.Errorf("failed to list ledger attestations: %w", err)
	}
	defer cursor.Close(opCtx)

	var attestations []*ledger.Attestation
	if err := cursor.All(opCtx, &attestations); err != nil {
		c.logger.Error("Failed to decode ledger attestations", "error", err)
		return nil, fmt.Errorf("failed to decode ledger attestations: %w", err)
	}

	return attestations, nil
}

// isUnavailable classifies transport-level failures that the caller may
// retry, as opposed to ledger-side rejections
func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}
