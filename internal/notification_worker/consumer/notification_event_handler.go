package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/invoice-ledger/internal/domain/notification"
	"github.com/invoice-ledger/internal/notification_worker/service"
	"github.com/invoice-ledger/internal/platform/messaging/producers"
)

// NotificationEventHandler handles incoming notification job messages from Kafka
type NotificationEventHandler struct {
	dispatchService service.DispatchService
	producer        producers.DeadLetterPublisher
	logger          *slog.Logger
}

// NewNotificationEventHandler creates a new handler
func NewNotificationEventHandler(
	logger *slog.Logger,
	dispatchService service.DispatchService,
	producer producers.DeadLetterPublisher,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		dispatchService: dispatchService,
		producer:        producer,
		logger:          logger,
	}
}

// HandleMessage processes Kafka messages
func (h *NotificationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var job notification.Job
	if err := json.Unmarshal(value, &job); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal notification job from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if job.CorrelationID != "" {
		logger = h.logger.With("correlation_id", job.CorrelationID)
	}

	logger.Info("Received notification job for delivery",
		"event", string(job.Event),
		"fingerprint", job.Fingerprint,
	)

	if err := h.dispatchService.DispatchJob(ctx, &job); err != nil {
		logger.Error("Failed to dispatch notification job",
			"event", string(job.Event),
			"fingerprint", job.Fingerprint,
			"error", err,
		)
		return fmt.Errorf("dispatching %s notification failed: %w", job.Event, err)
	}

	logger.Info("Successfully dispatched notification job", "event", string(job.Event))
	return nil // Success, commit offset
}
