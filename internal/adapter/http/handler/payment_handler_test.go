package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/adapter/http/dto"
	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/usecase"
)

type paymentServiceStub struct {
	allocateFn func(ctx context.Context, input usecase.AllocatePaymentInput) (*usecase.AllocationResult, error)
	getFn      func(ctx context.Context, id string) (*domain.Payment, error)
	listFn     func(ctx context.Context, filter usecase.PaymentFilter) ([]*domain.Payment, error)
}

func (s *paymentServiceStub) AllocatePayment(ctx context.Context, input usecase.AllocatePaymentInput) (*usecase.AllocationResult, error) {
	return s.allocateFn(ctx, input)
}

func (s *paymentServiceStub) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return s.getFn(ctx, id)
}

func (s *paymentServiceStub) ListPayments(ctx context.Context, filter usecase.PaymentFilter) ([]*domain.Payment, error) {
	return s.listFn(ctx, filter)
}

func TestPaymentHandler_Allocate_Success(t *testing.T) {
	nextDue := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	var captured usecase.AllocatePaymentInput
	h := NewPaymentHandler(&paymentServiceStub{
		allocateFn: func(ctx context.Context, input usecase.AllocatePaymentInput) (*usecase.AllocationResult, error) {
			captured = input
			return &usecase.AllocationResult{
				Payment: &domain.Payment{
					ID:     "pay-1",
					LoanID: input.LoanID,
					Amount: input.Amount,
					Date:   input.Date,
					Mode:   input.Mode,
				},
				UpdatedInstallments: []*domain.Installment{{ID: "inst-1", Status: domain.InstallmentStatusPaid}},
				NewNextDueDate:      &nextDue,
				UnappliedAmount:     decimal.Zero,
			}, nil
		},
	})

	body, _ := json.Marshal(dto.AllocatePaymentRequest{
		Amount: decimal.RequireFromString("1066.19"),
		Date:   "2026-09-05",
		Mode:   "upi",
	})

	req := urlParamRequest(http.MethodPost, "/loans/loan-1/payments", "loan-1", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Allocate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.LoanID != "loan-1" || captured.Mode != domain.PaymentModeUPI {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
	if !captured.Date.Equal(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed date, got %v", captured.Date)
	}

	var resp dto.AllocationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Payment.ID != "pay-1" || resp.NextDueDate == nil || *resp.NextDueDate != "2026-10-05" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPaymentHandler_Allocate_BadDate(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{
		allocateFn: func(ctx context.Context, input usecase.AllocatePaymentInput) (*usecase.AllocationResult, error) {
			t.Fatal("AllocatePayment should not be called for invalid date")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.AllocatePaymentRequest{
		Amount: decimal.NewFromInt(100),
		Date:   "05/09/2026",
		Mode:   "cash",
	})

	req := urlParamRequest(http.MethodPost, "/loans/loan-1/payments", "loan-1", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Allocate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPaymentHandler_Allocate_NoPendingInstallments(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{
		allocateFn: func(ctx context.Context, input usecase.AllocatePaymentInput) (*usecase.AllocationResult, error) {
			return nil, domain.ErrNoPendingInstallments
		},
	})

	body, _ := json.Marshal(dto.AllocatePaymentRequest{
		Amount: decimal.NewFromInt(100),
		Mode:   "cash",
	})

	req := urlParamRequest(http.MethodPost, "/loans/loan-1/payments", "loan-1", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Allocate(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestPaymentHandler_List_DateFilter(t *testing.T) {
	var captured usecase.PaymentFilter
	h := NewPaymentHandler(&paymentServiceStub{
		listFn: func(ctx context.Context, filter usecase.PaymentFilter) ([]*domain.Payment, error) {
			captured = filter
			return []*domain.Payment{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/payments?loan_id=loan-1&from=2026-08-01&to=2026-08-31", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if captured.LoanID != "loan-1" || captured.DateFrom == nil || captured.DateTo == nil {
		t.Fatalf("expected filter to carry loan and date range, got %+v", captured)
	}
}

func TestPaymentHandler_Get_NotFound(t *testing.T) {
	h := NewPaymentHandler(&paymentServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Payment, error) {
			return nil, domain.ErrPaymentNotFound
		},
	})

	req := urlParamRequest(http.MethodGet, "/payments/missing", "missing", nil)
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
