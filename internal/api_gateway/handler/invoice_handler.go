package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/invoice-ledger/internal/api_gateway/middleware"
	"github.com/invoice-ledger/internal/api_gateway/service"
	"github.com/invoice-ledger/internal/domain/invoice"
	"github.com/invoice-ledger/internal/domain/ledger"
	"github.com/invoice-ledger/internal/domain/record"
)

// InvoiceHandler handles HTTP requests for invoice operations
type InvoiceHandler struct {
	submissionService service.SubmissionService
	logger            *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(logger *slog.Logger, submissionService service.SubmissionService) *InvoiceHandler {
	return &InvoiceHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// Submit authenticates a new invoice by committing its fingerprint to the ledger
func (h *InvoiceHandler) Submit(c *gin.Context) {
	var req SubmitInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), req.InvoiceContent, req.Owner, req.NotifyPhone)
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	RespondCreated(c, SubmissionResponse{
		Fingerprint: result.Fingerprint,
		TxRef:       result.TxRef,
		Status:      string(result.Status),
	})
}

func (h *InvoiceHandler) respondSubmitError(c *gin.Context, err error) {
	var missing invoice.ErrMissingFields
	switch {
	case errors.Is(err, invoice.ErrEmptyContent):
		RespondBadRequest(c, err.Error())
	case errors.As(err, &missing):
		RespondBadRequest(c, missing.Error())
	case errors.Is(err, ledger.ErrDuplicateFingerprint{}):
		RespondConflict(c, "Invoice has already been authenticated")
	default:
		var partial service.ErrPartialSubmission
		if errors.As(err, &partial) {
			// The attestation exists even though the mirror write failed, so
			// the tx ref goes back to the caller alongside the error.
			response := NewErrorResponse("PARTIAL_SUBMISSION",
				"Invoice was recorded on the ledger but record keeping is behind; verification will succeed")
			response.Data = SubmissionResponse{
				Fingerprint: partial.Fingerprint,
				TxRef:       partial.TxRef,
				Status:      string(record.StatusValid),
			}
			response.CorrelationID = middleware.GetCorrelationID(c)
			c.JSON(http.StatusBadGateway, response)
			return
		}
		if errors.Is(err, service.ErrSubmissionFailed{}) {
			h.logger.Error("Ledger submission failed", "error", err)
			RespondBadGateway(c, "LEDGER_UNAVAILABLE", "Invoice could not be recorded; please retry")
			return
		}
		h.logger.Error("Failed to submit invoice", "error", err)
		RespondInternalError(c)
	}
}

// Verify reports whether the ledger attests to the submitted invoice content
func (h *InvoiceHandler) Verify(c *gin.Context) {
	var req VerifyInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.submissionService.Verify(c.Request.Context(), req.InvoiceContent)
	if err != nil {
		if errors.Is(err, ledger.ErrUnavailable{}) {
			RespondBadGateway(c, "LEDGER_UNAVAILABLE", "Verification is temporarily unavailable")
			return
		}
		h.logger.Error("Failed to verify invoice", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapVerificationToResponse(result))
}

// MarkPaid transitions an authenticated invoice to paid
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rec, err := h.submissionService.MarkPaid(c.Request.Context(), req.InvoiceContent)
	if err != nil {
		var missing invoice.ErrMissingFields
		switch {
		case errors.Is(err, invoice.ErrEmptyContent):
			RespondBadRequest(c, err.Error())
		case errors.As(err, &missing):
			RespondBadRequest(c, missing.Error())
		case errors.Is(err, record.ErrNotFound{}):
			RespondNotFound(c, "No authenticated invoice found for fingerprint")
		default:
			h.logger.Error("Failed to mark invoice as paid", "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapRecordToResponse(rec))
}

// mapVerificationToResponse maps a verification result to a response DTO
func mapVerificationToResponse(result *service.VerificationResult) VerificationResponse {
	response := VerificationResponse{
		Status:        string(result.Status),
		Fingerprint:   result.Fingerprint,
		Submitter:     result.Submitter,
		TxRef:         result.TxRef,
		PaymentStatus: string(result.PaymentStatus),
		Reason:        result.Reason,
	}

	if !result.AcceptedAt.IsZero() {
		response.AcceptedAt = result.AcceptedAt.Format(time.RFC3339)
	}

	return response
}

// mapRecordToResponse maps a mirror record to a response DTO
func mapRecordToResponse(rec *record.Record) RecordResponse {
	return RecordResponse{
		Owner:       rec.Owner,
		Fingerprint: rec.Fingerprint,
		Status:      string(rec.Status),
		TxRef:       rec.TxRef,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   rec.UpdatedAt.Format(time.RFC3339),
	}
}
