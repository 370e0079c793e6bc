package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSummary is a read-time aggregate over the whole loan book. It is
// never persisted; repositories compute it and callers may cache it.
type PortfolioSummary struct {
	ActiveLoans          int64           `json:"active_loans"`
	OverdueLoans         int64           `json:"overdue_loans"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	InstallmentsDueToday int64           `json:"installments_due_today"`
	InstallmentsDueWeek  int64           `json:"installments_due_week"`
	CollectedLast7Days   decimal.Decimal `json:"collected_last_7_days"`
	GeneratedAt          time.Time       `json:"generated_at"`
}
