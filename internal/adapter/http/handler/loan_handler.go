package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loanworks/engine/internal/adapter/http/dto"
	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, []*domain.Installment, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, filter usecase.LoanFilter) ([]*domain.Loan, error)
	GetSchedule(ctx context.Context, loanID string) ([]*domain.Installment, error)
	DeleteLoan(ctx context.Context, id string) error
}

// LifecycleService defines the status transitions needed by LoanHandler.
type LifecycleService interface {
	CloseLoan(ctx context.Context, id string) (*domain.Loan, error)
	ReopenLoan(ctx context.Context, id string) (*domain.Loan, error)
}

// LoanHandler handles loan-related HTTP requests.
type LoanHandler struct {
	loanUC      LoanService
	lifecycleUC LifecycleService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService, lifecycleUC LifecycleService) *LoanHandler {
	return &LoanHandler{loanUC: loanUC, lifecycleUC: lifecycleUC}
}

// Create creates a new loan with its amortization schedule.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, mapDomainError(err), "invalid loan terms", err.Error())
		return
	}

	loan, installments, err := h.loanUC.CreateLoan(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create loan", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreateLoanResponse{
		Loan: dto.LoanFromDomain(loan),
		Schedule: &dto.ScheduleResponse{
			LoanID:       loan.ID,
			Installments: dto.InstallmentsFromDomain(installments),
			Total:        int64(len(installments)),
		},
	})
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// List lists loans.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := usecase.LoanFilter{
		Status:     domain.LoanStatus(r.URL.Query().Get("status")),
		CustomerID: r.URL.Query().Get("customer_id"),
		Limit:      parseIntQuery(r, "limit", 0),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	loans, err := h.loanUC.ListLoans(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list loans", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLoansResponse{
		Loans: dto.LoansFromDomain(loans),
		Total: int64(len(loans)),
	})
}

// GetSchedule returns a loan's amortization schedule.
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	installments, err := h.loanUC.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get schedule", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ScheduleResponse{
		LoanID:       id,
		Installments: dto.InstallmentsFromDomain(installments),
		Total:        int64(len(installments)),
	})
}

// Close closes a fully repaid loan.
func (h *LoanHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.lifecycleUC.CloseLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to close loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Reopen reopens a closed loan.
func (h *LoanHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.lifecycleUC.ReopenLoan(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reopen loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// Delete removes a loan with its schedule and payments.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	if err := h.loanUC.DeleteLoan(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete loan", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
