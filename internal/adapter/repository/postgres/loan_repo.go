package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/usecase"
)

const loanColumns = `id, loan_number, customer_id, principal, annual_rate_percent,
	tenure_periods, frequency, anchor_day, installment_amount,
	outstanding_principal, status, next_due_date, created_at, updated_at`

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

// CreateTx inserts a loan within a transaction.
func (r *LoanRepository) CreateTx(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO loans (
			id, loan_number, customer_id, principal, annual_rate_percent,
			tenure_periods, frequency, anchor_day, installment_amount,
			outstanding_principal, status, next_due_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := pgxTx.Exec(ctx, query,
		loan.ID,
		loan.LoanNumber,
		loan.CustomerID,
		decimalToNumeric(loan.Principal),
		decimalToNumeric(loan.AnnualRatePercent),
		loan.TenurePeriods,
		string(loan.Anchor.Frequency()),
		loan.Anchor.Day(),
		decimalToNumeric(loan.InstallmentAmount),
		decimalToNumeric(loan.OutstandingPrincipal),
		string(loan.Status),
		datePtrToPgDate(loan.NextDueDate),
		timeToPgTimestamptz(loan.CreatedAt),
		timeToPgTimestamptz(loan.UpdatedAt),
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	return scanLoan(row)
}

// GetByIDForUpdate retrieves a loan by ID with a FOR UPDATE lock. Every
// write against a loan locks its row first, serializing writers per loan.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
	return scanLoan(row)
}

// UpdateState writes the mutable columns of a loan.
func (r *LoanRepository) UpdateState(ctx context.Context, tx usecase.Transaction, id string, outstanding decimal.Decimal, status domain.LoanStatus, nextDue *time.Time, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE loans
		SET outstanding_principal = $2, status = $3, next_due_date = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query,
		id,
		decimalToNumeric(outstanding),
		string(status),
		datePtrToPgDate(nextDue),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// List lists loans, optionally filtered by status and customer.
func (r *LoanRepository) List(ctx context.Context, filter usecase.LoanFilter) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

// DeleteTx removes a loan within a transaction.
func (r *LoanRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan        domain.Loan
		principal   pgtype.Numeric
		rate        pgtype.Numeric
		frequency   string
		anchorDay   int
		emi         pgtype.Numeric
		outstanding pgtype.Numeric
		status      string
		nextDue     pgtype.Date
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&loan.ID,
		&loan.LoanNumber,
		&loan.CustomerID,
		&principal,
		&rate,
		&loan.TenurePeriods,
		&frequency,
		&anchorDay,
		&emi,
		&outstanding,
		&status,
		&nextDue,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	anchor, err := domain.NewAnchor(domain.Frequency(frequency), anchorDay)
	if err != nil {
		return nil, err
	}

	loan.Principal = numericToDecimal(principal)
	loan.AnnualRatePercent = numericToDecimal(rate)
	loan.Anchor = anchor
	loan.InstallmentAmount = numericToDecimal(emi)
	loan.OutstandingPrincipal = numericToDecimal(outstanding)
	loan.Status = domain.LoanStatus(status)
	loan.NextDueDate = pgDateToDatePtr(nextDue)
	loan.CreatedAt = createdAt.Time
	loan.UpdatedAt = updatedAt.Time

	return &loan, nil
}
