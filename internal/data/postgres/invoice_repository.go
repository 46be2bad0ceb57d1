// Package postgres provides PostgreSQL implementations of the mirror store
// and user repositories. The mirror is the mutable side of the dual-write;
// every mutation here is keyed by fingerprint and safe to retry.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/invoice-ledger/internal/domain/record"
	"github.com/invoice-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// InvoiceRepository implements the record.Store interface for PostgreSQL
type InvoiceRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL mirror store.
// It expects db.Pool() to satisfy persistence.Querier.
func NewInvoiceRepository(logger *slog.Logger, db *persistence.PostgresDB) record.Store {
	return &InvoiceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *InvoiceRepository) WithTx(tx pgx.Tx) record.Store {
	return &InvoiceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// CreateIfAbsent inserts a mirror row unless one already exists for the
// fingerprint. The ON CONFLICT clause makes the write idempotent, so the
// coordinator can retry after a crash between ledger accept and mirror
// write without producing a second row.
func (r *InvoiceRepository) CreateIfAbsent(ctx context.Context, rec *record.Record) (bool, error) {
	query := `
		INSERT INTO invoices (owner, fingerprint, status, tx_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (fingerprint) DO NOTHING
	`

	now := time.Now()
	result, err := r.querier.Exec(ctx, query,
		rec.Owner,
		rec.Fingerprint,
		rec.Status,
		rec.TxRef,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create mirror record", "fingerprint", rec.Fingerprint, "error", err)
		return false, fmt.Errorf("failed to create mirror record: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// MarkPaid transitions the mirror record to paid. updated=false means no
// row exists for the fingerprint. Repeating the update on a paid row still
// matches, which keeps the operation idempotent.
func (r *InvoiceRepository) MarkPaid(ctx context.Context, fingerprint string) (bool, error) {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = $2
		WHERE fingerprint = $3
	`

	result, err := r.querier.Exec(ctx, query, record.StatusPaid, time.Now(), fingerprint)
	if err != nil {
		r.logger.Error("Failed to mark mirror record paid", "fingerprint", fingerprint, "error", err)
		return false, fmt.Errorf("failed to mark mirror record paid: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// Find retrieves the mirror record for a fingerprint, returning (nil, nil)
// when none exists
func (r *InvoiceRepository) Find(ctx context.Context, fingerprint string) (*record.Record, error) {
	query := `
		SELECT owner, fingerprint, status, tx_ref, created_at, updated_at
		FROM invoices
		WHERE fingerprint = $1
	`

	var rec record.Record
	err := r.querier.QueryRow(ctx, query, fingerprint).Scan(
		&rec.Owner,
		&rec.Fingerprint,
		&rec.Status,
		&rec.TxRef,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Absence is a normal outcome, not an error
		}
		r.logger.Error("Failed to find mirror record", "fingerprint", fingerprint, "error", err)
		return nil, fmt.Errorf("failed to find mirror record: %w", err)
	}

	return &rec, nil
}
