package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is how a payment was received.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeUPI    PaymentMode = "upi"
	PaymentModeBank   PaymentMode = "bank"
	PaymentModeCheque PaymentMode = "cheque"
)

var validPaymentModes = map[PaymentMode]bool{
	PaymentModeCash:   true,
	PaymentModeUPI:    true,
	PaymentModeBank:   true,
	PaymentModeCheque: true,
}

// Payment records money received against a loan. A payment may spread across
// several installments; InstallmentID links only the first row it touched,
// for traceability. Payments are immutable once created.
type Payment struct {
	ID            string
	LoanID        string
	InstallmentID *string
	Amount        decimal.Decimal
	Date          time.Time
	Mode          PaymentMode
	Reference     string
	CreatedAt     time.Time
}

// Validate checks payment inputs.
func (p *Payment) Validate() error {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !validPaymentModes[p.Mode] {
		return ErrInvalidPaymentMode
	}
	return nil
}
