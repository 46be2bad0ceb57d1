package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/invoice-ledger/internal/api_gateway/middleware"
	"github.com/invoice-ledger/internal/domain/invoice"
	"github.com/invoice-ledger/internal/domain/ledger"
	"github.com/invoice-ledger/internal/domain/notification"
	"github.com/invoice-ledger/internal/domain/record"
	"github.com/invoice-ledger/internal/domain/user"
	"github.com/invoice-ledger/internal/platform/messaging/producers"
)

// SubmissionServiceImpl implements the SubmissionService interface.
// The ledger write always happens first; a mirror row must never exist for
// a fingerprint the ledger has not accepted.
type SubmissionServiceImpl struct {
	ledgerClient ledger.Client
	store        record.Store
	userRepo     user.Repository
	producer     producers.MessagePublisher
	logger       *slog.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(logger *slog.Logger, ledgerClient ledger.Client, store record.Store, userRepo user.Repository, producer producers.MessagePublisher) SubmissionService {
	return &SubmissionServiceImpl{
		ledgerClient: ledgerClient,
		store:        store,
		userRepo:     userRepo,
		producer:     producer,
		logger:       logger,
	}
}

// Submit validates the content, records its fingerprint on the ledger and
// then mirrors the accepted submission
func (s *SubmissionServiceImpl) Submit(ctx context.Context, content, owner, notifyDestination string) (*SubmissionResult, error) {
	if err := invoice.Validate(content); err != nil {
		s.logger.Info("Rejected malformed invoice before fingerprinting",
			"owner", owner,
			"error", err,
		)
		return nil, err
	}

	fp := invoice.ComputeFingerprint(content)

	txRef, err := s.ledgerClient.Submit(ctx, fp, owner)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateFingerprint{}) {
			s.logger.Info("Duplicate submission refused by ledger",
				"fingerprint", fp.String(),
				"owner", owner,
			)
			return nil, err
		}
		s.logger.Error("Ledger did not accept submission",
			"fingerprint", fp.String(),
			"owner", owner,
			"error", err,
		)
		return nil, ErrSubmissionFailed{Err: err}
	}

	now := time.Now().UTC()
	rec := &record.Record{
		Owner:       owner,
		Fingerprint: fp.String(),
		Status:      record.StatusValid,
		TxRef:       txRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.store.CreateIfAbsent(ctx, rec)
	if err != nil {
		// The attestation exists; only the mirror is behind. The tx ref is
		// surfaced so the caller knows the submission itself succeeded.
		s.logger.Error("Mirror write failed after ledger accept",
			"fingerprint", fp.String(),
			"tx_ref", txRef,
			"error", err,
		)
		return nil, ErrPartialSubmission{Fingerprint: fp.String(), TxRef: txRef, Err: err}
	}
	if !created {
		s.logger.Warn("Mirror row already present for freshly accepted fingerprint",
			"fingerprint", fp.String(),
			"tx_ref", txRef,
		)
	}

	s.notify(ctx, notifyDestination, notification.EventSubmitted, fp.String(),
		fmt.Sprintf("Invoice accepted. Reference %s.", txRef))

	s.logger.Info("Invoice submission completed",
		"fingerprint", fp.String(),
		"tx_ref", txRef,
		"owner", owner,
	)

	return &SubmissionResult{
		Fingerprint: fp.String(),
		TxRef:       txRef,
		Status:      record.StatusValid,
	}, nil
}

// Verify reports whether the ledger attests to the content's fingerprint
func (s *SubmissionServiceImpl) Verify(ctx context.Context, content string) (*VerificationResult, error) {
	if err := invoice.Validate(content); err != nil {
		return &VerificationResult{
			Status: VerificationInvalid,
			Reason: err.Error(),
		}, nil
	}

	fp := invoice.ComputeFingerprint(content)

	att, err := s.ledgerClient.Verify(ctx, fp)
	if err != nil {
		s.logger.Error("Ledger verification failed",
			"fingerprint", fp.String(),
			"error", err,
		)
		return nil, err
	}
	if att == nil {
		return &VerificationResult{
			Status:      VerificationNotFound,
			Fingerprint: fp.String(),
		}, nil
	}

	result := &VerificationResult{
		Status:      VerificationValid,
		Fingerprint: att.Fingerprint,
		Submitter:   att.Submitter,
		TxRef:       att.TxRef,
		AcceptedAt:  att.AcceptedAt,
	}

	// The mirror holds the payment state. A missing row here means the
	// reconciliation sweep has not caught up yet; verification stays valid.
	rec, err := s.store.Find(ctx, fp.String())
	if err != nil {
		s.logger.Warn("Mirror lookup failed during verification",
			"fingerprint", fp.String(),
			"error", err,
		)
	} else if rec != nil {
		result.PaymentStatus = rec.Status
	}

	return result, nil
}

// MarkPaid transitions the mirror record for the content's fingerprint to paid
func (s *SubmissionServiceImpl) MarkPaid(ctx context.Context, content string) (*record.Record, error) {
	if err := invoice.Validate(content); err != nil {
		return nil, err
	}

	fingerprint := invoice.ComputeFingerprint(content).String()

	updated, err := s.store.MarkPaid(ctx, fingerprint)
	if err != nil {
		s.logger.Error("Failed to mark record as paid",
			"fingerprint", fingerprint,
			"error", err,
		)
		return nil, err
	}
	if !updated {
		return nil, record.ErrNotFound{Fingerprint: fingerprint}
	}

	rec, err := s.store.Find(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, record.ErrNotFound{Fingerprint: fingerprint}
	}

	if dest := s.ownerDestination(ctx, rec.Owner); dest != "" {
		s.notify(ctx, dest, notification.EventPaid, fingerprint,
			fmt.Sprintf("Invoice %s marked as paid.", shortFingerprint(fingerprint)))
	}

	s.logger.Info("Invoice marked as paid",
		"fingerprint", fingerprint,
		"owner", rec.Owner,
	)

	return rec, nil
}

// notify publishes a notification job. Delivery is best effort and never
// fails the calling operation.
func (s *SubmissionServiceImpl) notify(ctx context.Context, destination string, event notification.Event, fingerprint, message string) {
	if destination == "" {
		return
	}

	job := &notification.Job{
		Destination:   destination,
		Message:       message,
		Event:         event,
		Fingerprint:   fingerprint,
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
	}

	if err := s.producer.Publish(ctx, fingerprint, job); err != nil {
		s.logger.Error("Failed to publish notification job",
			"event", string(event),
			"fingerprint", fingerprint,
			"error", err,
		)
	}
}

// ownerDestination resolves an owner name to a phone number, or "" when the
// owner has no registered account
func (s *SubmissionServiceImpl) ownerDestination(ctx context.Context, owner string) string {
	u, err := s.userRepo.GetByUsername(ctx, owner)
	if err != nil {
		s.logger.Warn("Failed to resolve owner for notification",
			"owner", owner,
			"error", err,
		)
		return ""
	}
	if u == nil {
		return ""
	}
	return u.Phone
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) <= 12 {
		return fingerprint
	}
	return fingerprint[:12]
}
