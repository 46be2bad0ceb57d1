package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/invoice-ledger/internal/config"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator wraps the Twilio message API for testing
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSMSSender delivers notification messages over SMS. When no account
// SID is configured the sender runs in dry-run mode and only logs.
type TwilioSMSSender struct {
	api    messageCreator
	from   string
	dryRun bool
	logger *slog.Logger
}

// NewTwilioSMSSender creates an SMS sender from gateway credentials
func NewTwilioSMSSender(logger *slog.Logger, cfg *config.SMSConfig) *TwilioSMSSender {
	if cfg.AccountSID == "" {
		logger.Warn("SMS account SID is not configured. Sender will run in dry-run mode.")
		return &TwilioSMSSender{
			from:   cfg.FromNumber,
			dryRun: true,
			logger: logger,
		}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})

	return &TwilioSMSSender{
		api:    client.Api,
		from:   cfg.FromNumber,
		logger: logger,
	}
}

// Send delivers a message to the destination phone number
func (s *TwilioSMSSender) Send(ctx context.Context, destination, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.dryRun {
		s.logger.Info("Dry-run SMS delivery",
			"to", destination,
			"body", message,
		)
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(destination)
	params.SetFrom(s.from)
	params.SetBody(message)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", destination, err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	s.logger.Debug("SMS accepted by gateway",
		"to", destination,
		"message_sid", sid,
	)
	return nil
}
