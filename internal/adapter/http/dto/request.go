package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/usecase"
)

// CreateLoanRequest represents a request to create a loan.
type CreateLoanRequest struct {
	CustomerID        string          `json:"customer_id"`
	Principal         decimal.Decimal `json:"principal"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	TenurePeriods     int             `json:"tenure_periods"`
	Frequency         string          `json:"frequency"`
	AnchorDay         int             `json:"anchor_day"`
	StartDate         string          `json:"start_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput() (usecase.CreateLoanInput, error) {
	anchor, err := domain.NewAnchor(domain.Frequency(r.Frequency), r.AnchorDay)
	if err != nil {
		return usecase.CreateLoanInput{}, err
	}

	input := usecase.CreateLoanInput{
		CustomerID:        r.CustomerID,
		Principal:         r.Principal,
		AnnualRatePercent: r.AnnualRatePercent,
		TenurePeriods:     r.TenurePeriods,
		Anchor:            anchor,
	}

	if r.StartDate != "" {
		start, err := ParseDate(r.StartDate)
		if err != nil {
			return usecase.CreateLoanInput{}, err
		}
		input.StartDate = &start
	}

	return input, nil
}

// AllocatePaymentRequest represents a request to record a payment against a
// loan. The loan is addressed in the URL path.
type AllocatePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date,omitempty"`
	Mode      string          `json:"mode"`
	Reference string          `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input. An empty date defaults to now.
func (r *AllocatePaymentRequest) ToUseCaseInput(loanID string, now time.Time) (usecase.AllocatePaymentInput, error) {
	date := now
	if r.Date != "" {
		parsed, err := ParseDate(r.Date)
		if err != nil {
			return usecase.AllocatePaymentInput{}, err
		}
		date = parsed
	}

	return usecase.AllocatePaymentInput{
		LoanID:    loanID,
		Amount:    r.Amount,
		Date:      date,
		Mode:      domain.PaymentMode(r.Mode),
		Reference: r.Reference,
	}, nil
}

// ParseDate accepts a calendar date, with or without a time component.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return domain.DateOf(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}
