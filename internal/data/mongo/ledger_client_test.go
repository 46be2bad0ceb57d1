package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/invoice-ledger/internal/domain/invoice"
	"github.com/invoice-ledger/internal/domain/ledger"
)

const testLedgerContent = `INVOICE
Invoice Number: INV-2001
Invoice Date: 2026-06-01
Bill To: Globex Inc
Items:
- Gadget x1 @ 42.00
Total Amount: 42.00`

func newTestLedgerClient(mt *mtest.T) *LedgerClient {
	return &LedgerClient{
		db:        mt.DB,
		logger:    slog.New(slog.NewJSONHandler(os.Stdout, nil)),
		opTimeout: time.Second,
	}
}

func attestationNamespace(mt *mtest.T) string {
	return fmt.Sprintf("%s.%s", mt.DB.Name(), AttestationCollectionName)
}

func TestNewLedgerClient(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("EnsuresUniqueFingerprintIndex", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		client, err := NewLedgerClient(context.Background(), logger, mt.DB, time.Second)

		require.NoError(mt.T, err)
		assert.NotNil(mt.T, client)
	})

	mt.Run("IndexCreationFailureIsFatal", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized to create index",
			Name:    "Unauthorized",
		}))

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		client, err := NewLedgerClient(context.Background(), logger, mt.DB, time.Second)

		require.Error(mt.T, err)
		assert.Nil(mt.T, client)
	})
}

func TestLedgerClient_Submit(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	fp := invoice.ComputeFingerprint(testLedgerContent)

	mt.Run("AcceptedReturnsTxRef", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		client := newTestLedgerClient(mt)

		txRef, err := client.Submit(context.Background(), fp, "alice")

		require.NoError(mt.T, err)
		assert.NotEmpty(mt.T, txRef)
	})

	mt.Run("DuplicateKeyMapsToDuplicateFingerprint", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: attestations index: fingerprint_1",
		}))
		client := newTestLedgerClient(mt)

		txRef, err := client.Submit(context.Background(), fp, "alice")

		assert.Empty(mt.T, txRef)
		require.Error(mt.T, err)
		assert.ErrorIs(mt.T, err, ledger.ErrDuplicateFingerprint{})
		assert.ErrorIs(mt.T, err, ledger.ErrDuplicateFingerprint{Fingerprint: fp.String()})
	})

	mt.Run("NetworkErrorMapsToUnavailable", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    6,
			Message: "connection refused",
			Name:    "HostUnreachable",
			Labels:  []string{"NetworkError"},
		}))
		client := newTestLedgerClient(mt)

		txRef, err := client.Submit(context.Background(), fp, "alice")

		assert.Empty(mt.T, txRef)
		assert.ErrorIs(mt.T, err, ledger.ErrUnavailable{})
	})

	mt.Run("OtherWriteErrorMapsToRejected", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    121,
			Message: "Document failed validation",
		}))
		client := newTestLedgerClient(mt)

		txRef, err := client.Submit(context.Background(), fp, "alice")

		assert.Empty(mt.T, txRef)
		assert.ErrorIs(mt.T, err, ledger.ErrRejected{})
	})
}

func TestLedgerClient_Verify(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	fp := invoice.ComputeFingerprint(testLedgerContent)
	acceptedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("FoundReturnsAttestation", func(mt *mtest.T) {
		doc := bson.D{
			{Key: "fingerprint", Value: fp.String()},
			{Key: "submitter", Value: "alice"},
			{Key: "tx_ref", Value: "tx-1"},
			{Key: "accepted_at", Value: primitive.NewDateTimeFromTime(acceptedAt)},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attestationNamespace(mt), mtest.FirstBatch, doc))
		client := newTestLedgerClient(mt)

		att, err := client.Verify(context.Background(), fp)

		require.NoError(mt.T, err)
		require.NotNil(mt.T, att)
		assert.Equal(mt.T, fp.String(), att.Fingerprint)
		assert.Equal(mt.T, "alice", att.Submitter)
		assert.Equal(mt.T, "tx-1", att.TxRef)
		assert.True(mt.T, acceptedAt.Equal(att.AcceptedAt))
	})

	mt.Run("AbsentReturnsNilWithoutError", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attestationNamespace(mt), mtest.FirstBatch))
		client := newTestLedgerClient(mt)

		att, err := client.Verify(context.Background(), fp)

		require.NoError(mt.T, err)
		assert.Nil(mt.T, att)
	})

	mt.Run("NetworkErrorMapsToUnavailable", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    6,
			Message: "connection reset",
			Name:    "HostUnreachable",
			Labels:  []string{"NetworkError"},
		}))
		client := newTestLedgerClient(mt)

		att, err := client.Verify(context.Background(), fp)

		assert.Nil(mt.T, att)
		assert.ErrorIs(mt.T, err, ledger.ErrUnavailable{})
	})
}

func TestLedgerClient_ListAcceptedSince(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	acceptedAt := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("ReturnsAttestationsOldestFirst", func(mt *mtest.T) {
		first := bson.D{
			{Key: "fingerprint", Value: "aa11"},
			{Key: "submitter", Value: "alice"},
			{Key: "tx_ref", Value: "tx-1"},
			{Key: "accepted_at", Value: primitive.NewDateTimeFromTime(acceptedAt)},
		}
		second := bson.D{
			{Key: "fingerprint", Value: "bb22"},
			{Key: "submitter", Value: "bob"},
			{Key: "tx_ref", Value: "tx-2"},
			{Key: "accepted_at", Value: primitive.NewDateTimeFromTime(acceptedAt.Add(time.Minute))},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attestationNamespace(mt), mtest.FirstBatch, first, second))
		client := newTestLedgerClient(mt)

		attestations, err := client.ListAcceptedSince(context.Background(), acceptedAt.Add(-time.Hour), 100)

		require.NoError(mt.T, err)
		require.Len(mt.T, attestations, 2)
		assert.Equal(mt.T, "aa11", attestations[0].Fingerprint)
		assert.Equal(mt.T, "tx-2", attestations[1].TxRef)
	})

	mt.Run("EmptyWindowReturnsNoAttestations", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, attestationNamespace(mt), mtest.FirstBatch))
		client := newTestLedgerClient(mt)

		attestations, err := client.ListAcceptedSince(context.Background(), acceptedAt, 100)

		require.NoError(mt.T, err)
		assert.Empty(mt.T, attestations)
	})

	mt.Run("NetworkErrorMapsToUnavailable", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    6,
			Message: "no reachable servers",
			Name:    "HostUnreachable",
			Labels:  []string{"NetworkError"},
		}))
		client := newTestLedgerClient(mt)

		attestations, err := client.ListAcceptedSince(context.Background(), acceptedAt, 100)

		assert.Nil(mt.T, attestations)
		assert.ErrorIs(mt.T, err, ledger.ErrUnavailable{})
	})
}

func TestIsUnavailable(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"DeadlineExceeded", context.DeadlineExceeded, true},
		{"Canceled", context.Canceled, true},
		{"NetworkLabel", mongo.CommandError{Labels: []string{"NetworkError"}}, true},
		{"PlainError", errors.New("write concern error"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isUnavailable(tc.err))
		})
	}
}
