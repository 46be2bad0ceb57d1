package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/invoice-ledger/internal/domain/notification"
)

// Common errors
var (
	ErrMissingDestination = errors.New("notification job has no destination")
	ErrEmptyMessage       = errors.New("notification job has no message")
)

// DispatchServiceImpl implements the DispatchService interface
type DispatchServiceImpl struct {
	sender MessageSender
	logger *slog.Logger
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(logger *slog.Logger, sender MessageSender) DispatchService {
	return &DispatchServiceImpl{
		sender: sender,
		logger: logger,
	}
}

// DispatchJob delivers a single notification job
func (s *DispatchServiceImpl) DispatchJob(ctx context.Context, job *notification.Job) error {
	logger := s.logger
	if job.CorrelationID != "" {
		logger = s.logger.With("correlation_id", job.CorrelationID)
	}

	if job.Destination == "" {
		return ErrMissingDestination
	}
	if job.Message == "" {
		return ErrEmptyMessage
	}

	if err := s.sender.Send(ctx, job.Destination, job.Message); err != nil {
		logger.Error("Failed to deliver notification",
			"event", string(job.Event),
			"fingerprint", job.Fingerprint,
			"error", err,
		)
		return fmt.Errorf("delivering %s notification failed: %w", job.Event, err)
	}

	logger.Info("Notification delivered",
		"event", string(job.Event),
		"fingerprint", job.Fingerprint,
	)
	return nil
}
