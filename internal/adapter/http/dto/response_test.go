package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
)

func TestLoanFromDomain(t *testing.T) {
	anchor, _ := domain.NewAnchor(domain.FrequencyMonthly, 5)
	nextDue := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	loan := &domain.Loan{
		ID:                   "loan-1",
		LoanNumber:           "LN1756400000000",
		CustomerID:           "cust-1",
		Principal:            decimal.NewFromInt(12000),
		AnnualRatePercent:    decimal.NewFromInt(12),
		TenurePeriods:        12,
		Anchor:               anchor,
		InstallmentAmount:    decimal.RequireFromString("1066.19"),
		OutstandingPrincipal: decimal.RequireFromString("-0.37"),
		Status:               domain.LoanStatusActive,
		NextDueDate:          &nextDue,
	}

	got := LoanFromDomain(loan)

	if got.Frequency != "monthly" || got.AnchorDay != 5 {
		t.Fatalf("anchor = %s/%d, want monthly/5", got.Frequency, got.AnchorDay)
	}
	if got.NextDueDate == nil || *got.NextDueDate != "2026-09-05" {
		t.Fatalf("next due = %v, want 2026-09-05", got.NextDueDate)
	}
	// Tolerance residue never leaks into responses as a negative balance.
	if !got.OutstandingPrincipal.IsZero() {
		t.Fatalf("outstanding = %s, want 0", got.OutstandingPrincipal)
	}
}

func TestLoanFromDomain_NoNextDue(t *testing.T) {
	anchor, _ := domain.NewAnchor(domain.FrequencyDaily, 7)
	loan := &domain.Loan{
		ID:     "loan-1",
		Anchor: anchor,
		Status: domain.LoanStatusClosed,
	}

	got := LoanFromDomain(loan)
	if got.NextDueDate != nil {
		t.Fatalf("expected nil next due date, got %v", *got.NextDueDate)
	}
}

func TestInstallmentFromDomain(t *testing.T) {
	paidDate := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)

	inst := &domain.Installment{
		ID:                 "inst-1",
		LoanID:             "loan-1",
		Sequence:           1,
		DueDate:            time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		PrincipalComponent: decimal.RequireFromString("946.19"),
		InterestComponent:  decimal.RequireFromString("120"),
		TotalAmount:        decimal.RequireFromString("1066.19"),
		Status:             domain.InstallmentStatusPaid,
		PaidAmount:         decimal.RequireFromString("1066.19"),
		PaidDate:           &paidDate,
	}

	got := InstallmentFromDomain(inst)

	if got.DueDate != "2026-09-05" {
		t.Fatalf("due date = %s, want 2026-09-05", got.DueDate)
	}
	if got.PaidDate == nil || *got.PaidDate != "2026-09-03" {
		t.Fatalf("paid date = %v, want 2026-09-03", got.PaidDate)
	}
	if got.Status != "paid" {
		t.Fatalf("status = %s, want paid", got.Status)
	}
}

func TestPaymentFromDomain(t *testing.T) {
	instID := "inst-1"
	payment := &domain.Payment{
		ID:            "pay-1",
		LoanID:        "loan-1",
		InstallmentID: &instID,
		Amount:        decimal.NewFromInt(1000),
		Date:          time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		Mode:          domain.PaymentModeCash,
		Reference:     "RCPT-9",
	}

	got := PaymentFromDomain(payment)

	if got.Date != "2026-08-29" || got.Mode != "cash" {
		t.Fatalf("unexpected response: %+v", got)
	}
	if got.InstallmentID == nil || *got.InstallmentID != "inst-1" {
		t.Fatalf("installment link = %v, want inst-1", got.InstallmentID)
	}
}
