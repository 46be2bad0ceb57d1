package service

import (
	"context"

	"github.com/invoice-ledger/internal/domain/notification"
)

// DispatchService defines the interface for delivering notification jobs.
type DispatchService interface {
	DispatchJob(ctx context.Context, job *notification.Job) error
}

// MessageSender delivers a rendered message to a destination over one
// channel (SMS today)
type MessageSender interface {
	Send(ctx context.Context, destination, message string) error
}
