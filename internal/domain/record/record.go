// Package record defines the mutable mirror of submission and payment
// state. Mirror rows are created only after the ledger has accepted the
// fingerprint, so mirror state may lag the ledger but never lead it.
package record

import (
	"context"
	"time"
)

// Status is the payment lifecycle state of a mirror record
type Status string

const (
	StatusValid Status = "valid"
	StatusPaid  Status = "paid"
)

// Record is the mutable mirror row for one fingerprint
type Record struct {
	Owner       string    `json:"owner"`
	Fingerprint string    `json:"fingerprint"`
	Status      Status    `json:"status"`
	TxRef       string    `json:"tx_ref"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store defines mirror record persistence operations. All operations must
// be safe for concurrent use against the same fingerprint.
type Store interface {
	// CreateIfAbsent inserts a mirror row unless one already exists for the
	// fingerprint, in which case the existing row is left untouched and
	// created=false is reported. This makes the coordinator's retry after a
	// crash between ledger accept and mirror write safe.
	CreateIfAbsent(ctx context.Context, rec *Record) (created bool, err error)

	// MarkPaid transitions the record to StatusPaid. updated=false means no
	// row exists for the fingerprint; callers must treat that as not found,
	// not as silent success. Repeating MarkPaid on a paid row keeps it paid.
	MarkPaid(ctx context.Context, fingerprint string) (updated bool, err error)

	// Find returns the mirror record for a fingerprint, or (nil, nil) when
	// none exists.
	Find(ctx context.Context, fingerprint string) (*Record, error)
}

// ErrNotFound indicates no mirror record exists for a fingerprint
type ErrNotFound struct {
	Fingerprint string
}

func (e ErrNotFound) Error() string {
	return "no mirror record for fingerprint: " + e.Fingerprint
}

// Is implements the errors.Is interface for ErrNotFound
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	if t.Fingerprint == "" {
		return true
	}
	return e.Fingerprint == t.Fingerprint
}
