package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is the repayment state of one schedule row.
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
	InstallmentStatusSkipped InstallmentStatus = "skipped"
)

// Installment is one row of a loan's amortization schedule. Rows are created
// once with the loan; afterwards only Status, PaidAmount and PaidDate change.
type Installment struct {
	ID                 string
	LoanID             string
	Sequence           int
	DueDate            time.Time
	PrincipalComponent decimal.Decimal
	InterestComponent  decimal.Decimal
	TotalAmount        decimal.Decimal
	Status             InstallmentStatus
	PaidAmount         decimal.Decimal
	PaidDate           *time.Time
}

// PendingAmount is what is still owed on this row.
func (i *Installment) PendingAmount() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// PrincipalRatio is the principal share of this row's total, used to split a
// partial allocation between principal and interest.
func (i *Installment) PrincipalRatio() decimal.Decimal {
	if i.TotalAmount.IsZero() {
		return decimal.Zero
	}
	return i.PrincipalComponent.Div(i.TotalAmount)
}

// markPaid settles the row in full, absorbing any tolerance shortfall into
// the recorded paid amount.
func (i *Installment) markPaid(date time.Time) {
	d := DateOf(date)
	i.PaidAmount = i.TotalAmount
	i.Status = InstallmentStatusPaid
	i.PaidDate = &d
}
