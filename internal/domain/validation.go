package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTenurePeriods   = 600
	MaxPrincipal       = "1000000000" // 1 billion
	MaxCustomerIDLen   = 64
	MaxReferenceLength = 128
)

// LoanTerms carries the inputs to loan creation.
type LoanTerms struct {
	CustomerID        string
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	TenurePeriods     int
	Anchor            Anchor
}

// Validate checks term ranges before any computation or persistence.
func (t LoanTerms) Validate() error {
	if strings.TrimSpace(t.CustomerID) == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidLoanTerms)
	}
	if len(t.CustomerID) > MaxCustomerIDLen {
		return fmt.Errorf("%w: customer id exceeds %d characters", ErrInvalidLoanTerms, MaxCustomerIDLen)
	}

	if t.Principal.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: principal must be positive", ErrInvalidLoanTerms)
	}

	maxPrincipal, _ := decimal.NewFromString(MaxPrincipal)
	if t.Principal.GreaterThan(maxPrincipal) {
		return fmt.Errorf("%w: principal exceeds maximum of %s", ErrInvalidLoanTerms, MaxPrincipal)
	}

	if t.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidLoanTerms)
	}

	if t.TenurePeriods < 1 {
		return fmt.Errorf("%w: tenure must be at least one period", ErrInvalidLoanTerms)
	}
	if t.TenurePeriods > MaxTenurePeriods {
		return fmt.Errorf("%w: tenure exceeds %d periods", ErrInvalidLoanTerms, MaxTenurePeriods)
	}

	if t.Anchor == nil {
		return fmt.Errorf("%w: repayment anchor is required", ErrInvalidLoanTerms)
	}

	return nil
}

// ValidateReference bounds the free-text payment reference.
func ValidateReference(ref string) error {
	if len(ref) > MaxReferenceLength {
		return fmt.Errorf("%w: reference exceeds %d characters", ErrInvalidReference, MaxReferenceLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
