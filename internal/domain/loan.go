package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the persisted lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
	// LoanStatusOverdue is a read-time projection: a loan whose next due
	// date has passed while it is still active. It is reported but never
	// written by the engine.
	LoanStatusOverdue LoanStatus = "overdue"
	// LoanStatusDefault is set by external tooling only.
	LoanStatusDefault LoanStatus = "default"
)

// Tolerances used by payment allocation and the close guard. Amounts are in
// minor currency units, so one unit of forgiveness on either side of a due
// amount, and a finer 0.01 equality band for paid-in-full checks.
var (
	RoundingTolerance    = decimal.NewFromInt(1)
	PaidEqualTolerance   = decimal.New(1, -2)
	OutstandingTolerance = RoundingTolerance
)

// Loan represents a reducing-balance EMI loan together with its running
// repayment state.
type Loan struct {
	ID                   string
	LoanNumber           string
	CustomerID           string
	Principal            decimal.Decimal
	AnnualRatePercent    decimal.Decimal
	TenurePeriods        int
	Anchor               Anchor
	InstallmentAmount    decimal.Decimal
	OutstandingPrincipal decimal.Decimal
	Status               LoanStatus
	NextDueDate          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// DisplayOutstanding clamps the ledger balance to zero. Allocation arithmetic
// may undershoot by rounding residue; callers never see a negative balance.
func (l *Loan) DisplayOutstanding() decimal.Decimal {
	if l.OutstandingPrincipal.IsNegative() {
		return decimal.Zero
	}
	return l.OutstandingPrincipal
}

// IsOverdue reports whether the loan has a pending due date in the past.
func (l *Loan) IsOverdue(today time.Time) bool {
	if l.Status != LoanStatusActive || l.NextDueDate == nil {
		return false
	}
	return l.NextDueDate.Before(DateOf(today))
}

// EffectiveStatus returns the status with the overdue projection applied.
func (l *Loan) EffectiveStatus(today time.Time) LoanStatus {
	if l.IsOverdue(today) {
		return LoanStatusOverdue
	}
	return l.Status
}

// CanClose checks the close preconditions: no pending installments and an
// outstanding balance within the rounding tolerance.
func (l *Loan) CanClose(pendingInstallments int) error {
	if l.Status == LoanStatusClosed {
		return ErrInvalidStateTransition
	}
	if pendingInstallments > 0 {
		return ErrLoanNotFullyPaid
	}
	if l.OutstandingPrincipal.GreaterThan(OutstandingTolerance) {
		return ErrLoanNotFullyPaid
	}
	return nil
}

// CanReopen checks that the loan is exactly closed.
func (l *Loan) CanReopen() error {
	if l.Status != LoanStatusClosed {
		return ErrInvalidStateTransition
	}
	return nil
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
