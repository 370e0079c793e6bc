package domain

import (
	"fmt"
	"time"
)

// Frequency is the repayment cadence of a loan.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyDaily   Frequency = "daily"
)

// Anchor fixes where repayment cycles fall on the calendar. Each frequency
// interprets its day value differently, so the variants are separate types
// rather than one overloaded integer.
type Anchor interface {
	Frequency() Frequency

	// DueDate returns the due date for a 1-based cycle relative to the
	// loan's start date. Cycle 1 is the first due date and the loan's
	// initial next-due-date.
	DueDate(start time.Time, cycle int) time.Time

	// Day is the raw persisted value: day-of-month, weekday, or interval
	// in days depending on the variant.
	Day() int
}

// MonthlyAnchor repeats on a fixed day of the month, clamped to the last
// valid day of shorter months.
type MonthlyAnchor struct {
	DayOfMonth int
}

func (a MonthlyAnchor) Frequency() Frequency { return FrequencyMonthly }

func (a MonthlyAnchor) Day() int { return a.DayOfMonth }

func (a MonthlyAnchor) DueDate(start time.Time, cycle int) time.Time {
	start = DateOf(start)
	y, m, _ := start.Date()

	anchor := time.Date(y, m+time.Month(cycle), 1, 0, 0, 0, 0, time.UTC)

	day := a.DayOfMonth
	if last := daysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}

	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}

// WeeklyAnchor repeats on a fixed weekday. The first cycle falls on the first
// occurrence of the weekday strictly after the start date.
type WeeklyAnchor struct {
	Weekday time.Weekday
}

func (a WeeklyAnchor) Frequency() Frequency { return FrequencyWeekly }

func (a WeeklyAnchor) Day() int { return int(a.Weekday) }

func (a WeeklyAnchor) DueDate(start time.Time, cycle int) time.Time {
	start = DateOf(start)

	offset := (int(a.Weekday) - int(start.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}

	return start.AddDate(0, 0, offset+(cycle-1)*7)
}

// DailyAnchor repeats every fixed number of calendar days.
type DailyAnchor struct {
	IntervalDays int
}

func (a DailyAnchor) Frequency() Frequency { return FrequencyDaily }

func (a DailyAnchor) Day() int { return a.IntervalDays }

func (a DailyAnchor) DueDate(start time.Time, cycle int) time.Time {
	return DateOf(start).AddDate(0, 0, cycle*a.IntervalDays)
}

// NewAnchor builds the anchor variant for a frequency from its persisted day
// value, validating the value's range for that frequency.
func NewAnchor(freq Frequency, day int) (Anchor, error) {
	switch freq {
	case FrequencyMonthly:
		if day < 1 || day > 31 {
			return nil, fmt.Errorf("%w: day of month %d out of range", ErrInvalidLoanTerms, day)
		}
		return MonthlyAnchor{DayOfMonth: day}, nil
	case FrequencyWeekly:
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidLoanTerms, day)
		}
		return WeeklyAnchor{Weekday: time.Weekday(day)}, nil
	case FrequencyDaily:
		if day < 1 {
			return nil, fmt.Errorf("%w: repayment interval %d must be at least one day", ErrInvalidLoanTerms, day)
		}
		return DailyAnchor{IntervalDays: day}, nil
	default:
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidLoanTerms, freq)
	}
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
