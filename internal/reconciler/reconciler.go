// Package reconciler repairs the mirror store after partial submissions.
// The ledger is the source of truth: any attestation without a mirror row
// gets one, never the other way around.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/invoice-ledger/internal/config"
	"github.com/invoice-ledger/internal/domain/ledger"
	"github.com/invoice-ledger/internal/domain/record"
)

// Reconciler periodically sweeps recent ledger attestations and backfills
// missing mirror rows
type Reconciler struct {
	ledgerClient ledger.Client
	store        record.Store
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
	lookback     time.Duration
}

func NewReconciler(
	cfg *config.ReconcilerConfig,
	ledgerClient ledger.Client,
	store record.Store,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		ledgerClient: ledgerClient,
		store:        store,
		logger:       logger,
		pollInterval: cfg.PollingInterval,
		batchSize:    cfg.BatchSize,
		lookback:     cfg.Lookback,
	}
}

// Start begins sweeping until context is canceled
func (r *Reconciler) Start(ctx context.Context) {
	r.logger.Info("Starting mirror reconciler",
		"poll_interval", r.pollInterval.String(),
		"batch_size", r.batchSize,
		"lookback", r.lookback.String(),
	)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Mirror reconciler stopping due to context cancellation.")
			return
		case <-ticker.C:
			r.logger.Debug("Reconciler tick: sweeping recent attestations")
			if repaired, err := r.Sweep(ctx); err != nil {
				r.logger.Error("Error during mirror reconciliation sweep", "error", err)
			} else if repaired > 0 {
				r.logger.Info("Mirror reconciliation sweep repaired rows", "repaired", repaired)
			}
		}
	}
}

// Sweep backfills mirror rows for recent attestations and reports how many
// rows it created. CreateIfAbsent makes re-sweeping the same window safe.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	since := time.Now().UTC().Add(-r.lookback)

	attestations, err := r.ledgerClient.ListAcceptedSince(ctx, since, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list recent ledger attestations: %w", err)
	}

	if len(attestations) == 0 {
		r.logger.Debug("No recent attestations to reconcile.")
		return 0, nil
	}

	repaired := 0
	for _, att := range attestations {
		now := time.Now().UTC()
		rec := &record.Record{
			Owner:       att.Submitter,
			Fingerprint: att.Fingerprint,
			Status:      record.StatusValid,
			TxRef:       att.TxRef,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		created, err := r.store.CreateIfAbsent(ctx, rec)
		if err != nil {
			r.logger.Error("Failed to backfill mirror row",
				"fingerprint", att.Fingerprint, "tx_ref", att.TxRef, "error", err,
			)
			continue
		}
		if created {
			repaired++
			r.logger.Info("Backfilled missing mirror row",
				"fingerprint", att.Fingerprint, "tx_ref", att.TxRef,
			)
		}
	}
	return repaired, nil
}
