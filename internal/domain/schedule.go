package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleLine is one generated installment before persistence.
type ScheduleLine struct {
	Sequence           int
	DueDate            time.Time
	PrincipalComponent decimal.Decimal
	InterestComponent  decimal.Decimal
	TotalAmount        decimal.Decimal
}

// GenerateSchedule materializes the full amortization plan for a loan:
// tenurePeriods rows with a reducing-balance principal/interest split and due
// dates from the anchor. The final row is not adjusted for rounding residue;
// the EMI is rounded to the minor unit, so the residual left after the last
// row is bounded by tenurePeriods cents.
func GenerateSchedule(principal, annualRatePercent decimal.Decimal, tenurePeriods int, anchor Anchor, start time.Time, emi decimal.Decimal) []ScheduleLine {
	rate := PeriodRate(annualRatePercent)
	remaining := principal

	lines := make([]ScheduleLine, 0, tenurePeriods)
	for cycle := 1; cycle <= tenurePeriods; cycle++ {
		interest := remaining.Mul(rate)
		principalPart := emi.Sub(interest)
		remaining = remaining.Sub(principalPart)

		lines = append(lines, ScheduleLine{
			Sequence:           cycle,
			DueDate:            anchor.DueDate(start, cycle),
			PrincipalComponent: principalPart,
			InterestComponent:  interest,
			TotalAmount:        emi,
		})
	}

	return lines
}
