package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
)

func TestGenerateSchedule(t *testing.T) {
	principal := decimal.NewFromInt(12000)
	rate := decimal.NewFromInt(12)
	tenure := 12

	emi, err := domain.CalculateEMI(principal, rate, tenure)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	anchor := domain.MonthlyAnchor{DayOfMonth: 5}
	start := date(2024, time.January, 15)

	lines := domain.GenerateSchedule(principal, rate, tenure, anchor, start, emi)

	if len(lines) != tenure {
		t.Fatalf("expected %d lines, got %d", tenure, len(lines))
	}

	// First row: interest is one month on the full principal.
	if want := decimal.NewFromInt(120); !lines[0].InterestComponent.Equal(want) {
		t.Errorf("expected first interest %s, got %s", want, lines[0].InterestComponent)
	}
	if want := decimal.RequireFromString("946.19"); !lines[0].PrincipalComponent.Equal(want) {
		t.Errorf("expected first principal %s, got %s", want, lines[0].PrincipalComponent)
	}

	sumPrincipal := decimal.Zero
	for i, line := range lines {
		if line.Sequence != i+1 {
			t.Errorf("line %d: expected sequence %d, got %d", i, i+1, line.Sequence)
		}

		// Every row carries the same installment amount and splits it
		// exactly between principal and interest.
		if !line.TotalAmount.Equal(emi) {
			t.Errorf("line %d: expected total %s, got %s", i, emi, line.TotalAmount)
		}
		if !line.PrincipalComponent.Add(line.InterestComponent).Equal(line.TotalAmount) {
			t.Errorf("line %d: components %s + %s do not sum to %s",
				i, line.PrincipalComponent, line.InterestComponent, line.TotalAmount)
		}

		if want := anchor.DueDate(start, i+1); !line.DueDate.Equal(want) {
			t.Errorf("line %d: expected due date %s, got %s", i, want, line.DueDate)
		}

		sumPrincipal = sumPrincipal.Add(line.PrincipalComponent)
	}

	// No residual correction on the final row: the principal sum may drift
	// from the loan principal by up to a cent per period.
	residual := sumPrincipal.Sub(principal).Abs()
	bound := decimal.New(1, -2).Mul(decimal.NewFromInt(int64(tenure)))
	if residual.GreaterThan(bound) {
		t.Errorf("principal residual %s exceeds bound %s", residual, bound)
	}
}

func TestGenerateScheduleZeroRate(t *testing.T) {
	principal := decimal.NewFromInt(1200)
	tenure := 12

	emi, err := domain.CalculateEMI(principal, decimal.Zero, tenure)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.NewFromInt(100); !emi.Equal(want) {
		t.Fatalf("expected emi %s, got %s", want, emi)
	}

	lines := domain.GenerateSchedule(principal, decimal.Zero, tenure, domain.DailyAnchor{IntervalDays: 7}, date(2024, time.June, 1), emi)

	sum := decimal.Zero
	for i, line := range lines {
		if !line.InterestComponent.IsZero() {
			t.Errorf("line %d: expected zero interest, got %s", i, line.InterestComponent)
		}
		sum = sum.Add(line.PrincipalComponent)
	}

	if !sum.Equal(principal) {
		t.Errorf("expected principal components to sum to %s, got %s", principal, sum)
	}
}
