package service

import (
	"context"
	"time"

	"github.com/invoice-ledger/internal/domain/record"
	"github.com/invoice-ledger/internal/domain/user"
)

// VerificationStatus is the outcome of an invoice verification
type VerificationStatus string

const (
	// VerificationValid means the ledger holds an attestation for the fingerprint
	VerificationValid VerificationStatus = "valid"
	// VerificationInvalid means the content failed structural validation;
	// the ledger was never consulted
	VerificationInvalid VerificationStatus = "invalid"
	// VerificationNotFound means the content is well formed but the ledger
	// has never accepted its fingerprint
	VerificationNotFound VerificationStatus = "not_found"
)

// SubmissionResult reports a successful submission
type SubmissionResult struct {
	Fingerprint string
	TxRef       string
	Status      record.Status
}

// VerificationResult reports the outcome of verifying invoice content
type VerificationResult struct {
	Status      VerificationStatus
	Fingerprint string
	Submitter   string
	TxRef       string
	AcceptedAt  time.Time
	// PaymentStatus is filled from the mirror when a row exists
	PaymentStatus record.Status
	// Reason explains VerificationInvalid outcomes
	Reason string
}

// SubmissionService coordinates the dual write across the ledger and the
// mirror store and drives the invoice lifecycle
type SubmissionService interface {
	// Submit validates the content, records its fingerprint on the ledger
	// and mirrors the accepted submission.
	// Returns invoice.ErrMissingFields or invoice.ErrEmptyContent when the
	// content is malformed, ledger.ErrDuplicateFingerprint when the ledger
	// already holds the fingerprint, ErrSubmissionFailed when the ledger
	// never accepted it, and ErrPartialSubmission when the ledger accepted
	// but the mirror write failed
	Submit(ctx context.Context, content, owner, notifyDestination string) (*SubmissionResult, error)

	// Verify reports whether the ledger attests to the content's fingerprint.
	// Structural validation failures yield VerificationInvalid without
	// consulting the ledger
	Verify(ctx context.Context, content string) (*VerificationResult, error)

	// MarkPaid computes the content's fingerprint and transitions its mirror
	// record to paid. Returns record.ErrNotFound when no mirror row exists.
	// Marking an already paid record succeeds without changing state
	MarkPaid(ctx context.Context, content string) (*record.Record, error)
}

// AuthService defines the interface for account registration and login
type AuthService interface {
	// Register creates a user account from pre-hashed credentials
	// Returns ErrUserAlreadyExists when the username or phone is taken
	Register(ctx context.Context, username, passwordHash, phone string) (*user.User, error)

	// Login checks pre-hashed credentials against the stored digest
	// Returns ErrInvalidCredentials on any mismatch
	Login(ctx context.Context, username, passwordHash string) (*user.User, error)
}
