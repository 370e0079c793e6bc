package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
)

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID                   string          `json:"id"`
	LoanNumber           string          `json:"loan_number"`
	CustomerID           string          `json:"customer_id"`
	Principal            decimal.Decimal `json:"principal"`
	AnnualRatePercent    decimal.Decimal `json:"annual_rate_percent"`
	TenurePeriods        int             `json:"tenure_periods"`
	Frequency            string          `json:"frequency"`
	AnchorDay            int             `json:"anchor_day"`
	InstallmentAmount    decimal.Decimal `json:"installment_amount"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	Status               string          `json:"status"`
	NextDueDate          *string         `json:"next_due_date"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:                   l.ID,
		LoanNumber:           l.LoanNumber,
		CustomerID:           l.CustomerID,
		Principal:            l.Principal,
		AnnualRatePercent:    l.AnnualRatePercent,
		TenurePeriods:        l.TenurePeriods,
		Frequency:            string(l.Anchor.Frequency()),
		AnchorDay:            l.Anchor.Day(),
		InstallmentAmount:    l.InstallmentAmount,
		OutstandingPrincipal: l.DisplayOutstanding(),
		Status:               string(l.Status),
		NextDueDate:          formatDatePtr(l.NextDueDate),
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// ListLoansResponse is the payload for loan listings.
type ListLoansResponse struct {
	Loans []*LoanResponse `json:"loans"`
	Total int64           `json:"total"`
}

// CreateLoanResponse is the payload for a newly created loan and its
// generated schedule.
type CreateLoanResponse struct {
	Loan     *LoanResponse     `json:"loan"`
	Schedule *ScheduleResponse `json:"schedule"`
}

// InstallmentResponse represents one schedule row in API responses.
type InstallmentResponse struct {
	ID                 string          `json:"id"`
	LoanID             string          `json:"loan_id"`
	Sequence           int             `json:"sequence"`
	DueDate            string          `json:"due_date"`
	PrincipalComponent decimal.Decimal `json:"principal_component"`
	InterestComponent  decimal.Decimal `json:"interest_component"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	Status             string          `json:"status"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	PaidDate           *string         `json:"paid_date,omitempty"`
}

// InstallmentFromDomain converts a domain installment to a response.
func InstallmentFromDomain(i *domain.Installment) *InstallmentResponse {
	return &InstallmentResponse{
		ID:                 i.ID,
		LoanID:             i.LoanID,
		Sequence:           i.Sequence,
		DueDate:            i.DueDate.Format(time.DateOnly),
		PrincipalComponent: i.PrincipalComponent,
		InterestComponent:  i.InterestComponent,
		TotalAmount:        i.TotalAmount,
		Status:             string(i.Status),
		PaidAmount:         i.PaidAmount,
		PaidDate:           formatDatePtr(i.PaidDate),
	}
}

// InstallmentsFromDomain converts domain installments to responses.
func InstallmentsFromDomain(installments []*domain.Installment) []*InstallmentResponse {
	result := make([]*InstallmentResponse, len(installments))
	for i, inst := range installments {
		result[i] = InstallmentFromDomain(inst)
	}
	return result
}

// ScheduleResponse is the payload for a loan's amortization schedule.
type ScheduleResponse struct {
	LoanID       string                 `json:"loan_id"`
	Installments []*InstallmentResponse `json:"installments"`
	Total        int64                  `json:"total"`
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID            string          `json:"id"`
	LoanID        string          `json:"loan_id"`
	InstallmentID *string         `json:"installment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Mode          string          `json:"mode"`
	Reference     string          `json:"reference,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentFromDomain converts a domain payment to a response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		LoanID:        p.LoanID,
		InstallmentID: p.InstallmentID,
		Amount:        p.Amount,
		Date:          p.Date.Format(time.DateOnly),
		Mode:          string(p.Mode),
		Reference:     p.Reference,
		CreatedAt:     p.CreatedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// ListPaymentsResponse is the payload for payment listings.
type ListPaymentsResponse struct {
	Payments []*PaymentResponse `json:"payments"`
	Total    int64              `json:"total"`
}

// AllocationResponse reports what a payment changed.
type AllocationResponse struct {
	Payment             *PaymentResponse       `json:"payment"`
	UpdatedInstallments []*InstallmentResponse `json:"updated_installments"`
	NextDueDate         *string                `json:"next_due_date"`
	UnappliedAmount     decimal.Decimal        `json:"unapplied_amount"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}
