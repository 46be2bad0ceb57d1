package components

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/invoice-ledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MockMessageCreator mocks the Twilio message API
type MockMessageCreator struct {
	mock.Mock
}

func (m *MockMessageCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openapi.ApiV2010Message), args.Error(1)
}

func TestNewTwilioSMSSender_DryRunWithoutCredentials(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	sender := NewTwilioSMSSender(logger, &config.SMSConfig{FromNumber: "+15550009999"})

	assert.True(t, sender.dryRun)
	assert.Nil(t, sender.api)

	err := sender.Send(context.Background(), "+15550001234", "hello")
	assert.NoError(t, err, "dry-run delivery should always succeed")
}

func TestTwilioSMSSender_Send(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockAPI := new(MockMessageCreator)
		sender := &TwilioSMSSender{api: mockAPI, from: "+15550009999", logger: logger}
		sid := "SM123"

		mockAPI.On("CreateMessage", mock.MatchedBy(func(params *openapi.CreateMessageParams) bool {
			return params.To != nil && *params.To == "+15550001234" &&
				params.From != nil && *params.From == "+15550009999" &&
				params.Body != nil && *params.Body == "hello"
		})).Return(&openapi.ApiV2010Message{Sid: &sid}, nil).Once()

		err := sender.Send(ctx, "+15550001234", "hello")

		assert.NoError(t, err)
		mockAPI.AssertExpectations(t)
	})

	t.Run("GatewayError", func(t *testing.T) {
		mockAPI := new(MockMessageCreator)
		sender := &TwilioSMSSender{api: mockAPI, from: "+15550009999", logger: logger}
		gatewayErr := errors.New("invalid destination")

		mockAPI.On("CreateMessage", mock.Anything).Return(nil, gatewayErr).Once()

		err := sender.Send(ctx, "bad-number", "hello")

		assert.Error(t, err)
		assert.ErrorIs(t, err, gatewayErr)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		mockAPI := new(MockMessageCreator)
		sender := &TwilioSMSSender{api: mockAPI, from: "+15550009999", logger: logger}

		canceledCtx, cancel := context.WithCancel(context.Background())
		cancel()

		err := sender.Send(canceledCtx, "+15550001234", "hello")

		assert.ErrorIs(t, err, context.Canceled)
		mockAPI.AssertNotCalled(t, "CreateMessage", mock.Anything)
	})
}

var _ messageCreator = (*MockMessageCreator)(nil)
