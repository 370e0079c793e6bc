package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loanworks/engine/internal/adapter/http/dto"
	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/usecase"
)

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	AllocatePayment(ctx context.Context, input usecase.AllocatePaymentInput) (*usecase.AllocationResult, error)
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	ListPayments(ctx context.Context, filter usecase.PaymentFilter) ([]*domain.Payment, error)
}

// PaymentHandler handles payment-related HTTP requests.
type PaymentHandler struct {
	paymentUC PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Allocate records a payment against a loan and spreads it across pending
// installments.
func (h *PaymentHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	var req dto.AllocatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(loanID, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment", err.Error())
		return
	}

	result, err := h.paymentUC.AllocatePayment(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to allocate payment", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AllocationResponse{
		Payment:             dto.PaymentFromDomain(result.Payment),
		UpdatedInstallments: dto.InstallmentsFromDomain(result.UpdatedInstallments),
		NextDueDate:         formatNextDue(result.NewNextDueDate),
		UnappliedAmount:     result.UnappliedAmount,
	})
}

// Get retrieves a payment by ID.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payment ID", "")
		return
	}

	payment, err := h.paymentUC.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get payment", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentFromDomain(payment))
}

// List lists payments, optionally filtered by loan, mode and date range.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.PaymentFilter{
		LoanID: r.URL.Query().Get("loan_id"),
		Mode:   domain.PaymentMode(r.URL.Query().Get("mode")),
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := dto.ParseDate(from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
			return
		}
		filter.DateFrom = &t
	}

	if to := r.URL.Query().Get("to"); to != "" {
		t, err := dto.ParseDate(to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
			return
		}
		filter.DateTo = &t
	}

	payments, err := h.paymentUC.ListPayments(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPaymentsResponse{
		Payments: dto.PaymentsFromDomain(payments),
		Total:    int64(len(payments)),
	})
}

// ListByLoan lists payments of one loan.
func (h *PaymentHandler) ListByLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	if loanID == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	payments, err := h.paymentUC.ListPayments(r.Context(), usecase.PaymentFilter{
		LoanID: loanID,
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payments", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPaymentsResponse{
		Payments: dto.PaymentsFromDomain(payments),
		Total:    int64(len(payments)),
	})
}

func formatNextDue(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
