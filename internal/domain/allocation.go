package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StepAllocation records what one installment received during an allocation.
type StepAllocation struct {
	Installment        *Installment
	Allocated          decimal.Decimal
	PrincipalReduction decimal.Decimal
}

// AllocationOutcome is the result of spreading one payment across a loan's
// pending installments.
type AllocationOutcome struct {
	Steps []StepAllocation
	// First is the first installment the payment touched; payments are
	// linked to it for traceability.
	First *Installment
	// PrincipalReduction is the total to subtract from the loan's
	// outstanding principal (before the zero clamp).
	PrincipalReduction decimal.Decimal
	// Leftover is whatever remained after the last pending installment was
	// exhausted. It is absorbed, not credited; callers should surface it.
	Leftover decimal.Decimal
}

// Allocate spreads amount across the given pending installments in sequence
// order, mutating their paid state.
//
// Per installment, while any amount remains: if the remainder is within one
// minor unit of the amount still owed, the row is settled in full regardless
// of the direction of the difference — a small shortfall is forgiven, a small
// excess carries into the next row. Otherwise the remainder is applied up to
// the owed amount, and the row is settled only when its paid amount reaches
// the total within the 0.01 equality band.
//
// The loan's principal reduction for each step is the allocated amount scaled
// by the row's own principal/interest ratio, not the full allocation.
func Allocate(pending []*Installment, amount decimal.Decimal, date time.Time) AllocationOutcome {
	outcome := AllocationOutcome{PrincipalReduction: decimal.Zero}
	remaining := amount

	for _, inst := range pending {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		owed := inst.PendingAmount()

		var allocated decimal.Decimal
		if remaining.Sub(owed).Abs().LessThanOrEqual(RoundingTolerance) {
			allocated = owed
			inst.markPaid(date)
		} else {
			allocated = decimal.Min(remaining, owed)
			newPaid := inst.PaidAmount.Add(allocated)
			if inst.TotalAmount.Sub(newPaid).LessThanOrEqual(PaidEqualTolerance) {
				inst.markPaid(date)
			} else {
				inst.PaidAmount = newPaid
			}
		}

		reduction := allocated.Mul(inst.PrincipalRatio())
		if reduction.IsNegative() {
			reduction = decimal.Zero
		}

		outcome.Steps = append(outcome.Steps, StepAllocation{
			Installment:        inst,
			Allocated:          allocated,
			PrincipalReduction: reduction,
		})
		if outcome.First == nil {
			outcome.First = inst
		}
		outcome.PrincipalReduction = outcome.PrincipalReduction.Add(reduction)

		// Under the tolerance branch the allocation may exceed what was
		// left; the forgiven slice never goes negative.
		remaining = remaining.Sub(allocated)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
	}

	outcome.Leftover = remaining

	return outcome
}

// NextDueDate is the earliest due date among still-pending installments, or
// nil when none remain.
func NextDueDate(installments []*Installment) *time.Time {
	var next *time.Time
	for _, inst := range installments {
		if inst.Status != InstallmentStatusPending {
			continue
		}
		if next == nil || inst.DueDate.Before(*next) {
			d := inst.DueDate
			next = &d
		}
	}
	return next
}
