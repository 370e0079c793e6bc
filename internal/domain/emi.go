package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// monthsPerYear times 100 converts an annual percentage rate to a monthly
// fraction. The per-period rate is always the monthly rate; weekly and daily
// loans compound by calendar advancement, not by rate.
var ratePerPeriodDivisor = decimal.NewFromInt(1200)

// PeriodRate derives the per-period interest rate from an annual percentage.
func PeriodRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(ratePerPeriodDivisor)
}

// CalculateEMI returns the fixed installment that amortizes principal over
// tenurePeriods equal payments at the given annual rate, rounded to the
// currency's minor unit.
//
// The standard annuity formula P*r*(1+r)^n / ((1+r)^n - 1) is undefined at a
// zero rate, which degenerates to a straight principal split.
func CalculateEMI(principal, annualRatePercent decimal.Decimal, tenurePeriods int) (decimal.Decimal, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: principal must be positive", ErrInvalidLoanTerms)
	}
	if tenurePeriods < 1 {
		return decimal.Zero, fmt.Errorf("%w: tenure must be at least one period", ErrInvalidLoanTerms)
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: rate must not be negative", ErrInvalidLoanTerms)
	}

	n := decimal.NewFromInt(int64(tenurePeriods))

	if annualRatePercent.IsZero() {
		return principal.Div(n).Round(2), nil
	}

	rate := PeriodRate(annualRatePercent)
	compound := decimal.NewFromInt(1).Add(rate).Pow(n)

	emi := principal.Mul(rate).Mul(compound).Div(compound.Sub(decimal.NewFromInt(1)))

	return emi.Round(2), nil
}
