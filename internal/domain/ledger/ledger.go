// Package ledger defines the contract against the append-only,
// tamper-evident system of record. The ledger is the sole arbiter of
// duplicate detection and of submission identity and timestamp; nothing in
// the coordinator re-implements those judgements locally.
package ledger

import (
	"context"
	"time"

	"github.com/invoice-ledger/internal/domain/invoice"
)

// Attestation is the immutable record the ledger holds for a fingerprint.
type Attestation struct {
	Fingerprint string    `json:"fingerprint" bson:"fingerprint"`
	Submitter   string    `json:"submitter" bson:"submitter"`
	TxRef       string    `json:"tx_ref" bson:"tx_ref"`
	AcceptedAt  time.Time `json:"accepted_at" bson:"accepted_at"`
}

// Client mediates all reads and writes against the ledger.
type Client interface {
	// Submit records a fingerprint on the ledger exactly once and returns
	// the transaction reference. Returns ErrDuplicateFingerprint when the
	// ledger already holds the fingerprint, ErrUnavailable on
	// network/timeout failures and ErrRejected for any other ledger-side
	// refusal.
	Submit(ctx context.Context, fp invoice.Fingerprint, submitter string) (string, error)

	// Verify reports the attestation for a fingerprint, or (nil, nil) when
	// the ledger has never accepted it. Verify never mutates ledger state.
	Verify(ctx context.Context, fp invoice.Fingerprint) (*Attestation, error)

	// ListAcceptedSince returns attestations accepted after the given
	// instant, oldest first. Used by the mirror reconciliation sweep.
	ListAcceptedSince(ctx context.Context, since time.Time, limit int) ([]*Attestation, error)
}

// ErrDuplicateFingerprint indicates the ledger already holds a fingerprint
type ErrDuplicateFingerprint struct {
	Fingerprint string
}

func (e ErrDuplicateFingerprint) Error() string {
	return "fingerprint already recorded on ledger: " + e.Fingerprint
}

// Is implements the errors.Is interface for ErrDuplicateFingerprint
func (e ErrDuplicateFingerprint) Is(target error) bool {
	t, ok := target.(ErrDuplicateFingerprint)
	if !ok {
		return false
	}
	// An empty target fingerprint matches any duplicate error
	if t.Fingerprint == "" {
		return true
	}
	return e.Fingerprint == t.Fingerprint
}

// ErrUnavailable indicates the ledger could not be reached in time
type ErrUnavailable struct {
	Err error
}

func (e ErrUnavailable) Error() string {
	if e.Err == nil {
		return "ledger unavailable"
	}
	return "ledger unavailable: " + e.Err.Error()
}

func (e ErrUnavailable) Unwrap() error {
	return e.Err
}

// Is implements the errors.Is interface for ErrUnavailable
func (e ErrUnavailable) Is(target error) bool {
	_, ok := target.(ErrUnavailable)
	return ok
}

// ErrRejected indicates the ledger refused the submission for a reason
// other than duplication or unavailability
type ErrRejected struct {
	Reason string
}

func (e ErrRejected) Error() string {
	return "ledger rejected submission: " + e.Reason
}

// Is implements the errors.Is interface for ErrRejected
func (e ErrRejected) Is(target error) bool {
	_, ok := target.(ErrRejected)
	return ok
}
