package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loanworks/engine/internal/domain"
)

// PortfolioRepository computes book-wide aggregates with a single query.
type PortfolioRepository struct {
	pool *pgxpool.Pool
}

// NewPortfolioRepository creates a new PortfolioRepository.
func NewPortfolioRepository(pool *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{pool: pool}
}

// Summary aggregates the loan book as of today. Overdue is projected from
// next_due_date rather than read from the status column, so loans that fell
// due since their last write still count.
func (r *PortfolioRepository) Summary(ctx context.Context, today time.Time) (*domain.PortfolioSummary, error) {
	day := domain.DateOf(today)

	query := `
		SELECT
			(SELECT COUNT(*) FROM loans WHERE status = 'active'),
			(SELECT COUNT(*) FROM loans WHERE status = 'active' AND next_due_date < $1),
			(SELECT COALESCE(SUM(GREATEST(outstanding_principal, 0)), 0) FROM loans WHERE status = 'active'),
			(SELECT COUNT(*) FROM installments i
				JOIN loans l ON l.id = i.loan_id
				WHERE l.status = 'active' AND i.status = 'pending' AND i.due_date = $1),
			(SELECT COUNT(*) FROM installments i
				JOIN loans l ON l.id = i.loan_id
				WHERE l.status = 'active' AND i.status = 'pending'
				AND i.due_date >= $1 AND i.due_date < $1 + INTERVAL '7 days'),
			(SELECT COALESCE(SUM(amount), 0) FROM payments
				WHERE payment_date > $1 - INTERVAL '7 days' AND payment_date <= $1)
	`

	var (
		summary     domain.PortfolioSummary
		outstanding pgtype.Numeric
		collected   pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, query, dateToPgDate(day)).Scan(
		&summary.ActiveLoans,
		&summary.OverdueLoans,
		&outstanding,
		&summary.InstallmentsDueToday,
		&summary.InstallmentsDueWeek,
		&collected,
	)
	if err != nil {
		return nil, err
	}

	summary.OutstandingPrincipal = numericToDecimal(outstanding)
	summary.CollectedLast7Days = numericToDecimal(collected)
	summary.GeneratedAt = today

	return &summary, nil
}
