package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/usecase"
)

const paymentColumns = `id, loan_id, installment_id, amount, payment_date, mode, reference, created_at`

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// CreateTx inserts a payment within a transaction.
func (r *PaymentRepository) CreateTx(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO payments (
			id, loan_id, installment_id, amount, payment_date, mode, reference, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.InstallmentID,
		decimalToNumeric(payment.Amount),
		dateToPgDate(payment.Date),
		string(payment.Mode),
		payment.Reference,
		timeToPgTimestamptz(payment.CreatedAt),
	)

	return err
}

// LinkInstallmentTx records the first installment a payment touched.
func (r *PaymentRepository) LinkInstallmentTx(ctx context.Context, tx usecase.Transaction, paymentID, installmentID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE payments SET installment_id = $2 WHERE id = $1`,
		paymentID, installmentID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return payment, nil
}

// List lists payments, optionally filtered by loan, mode and date range.
func (r *PaymentRepository) List(ctx context.Context, filter usecase.PaymentFilter) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []any{}

	if filter.LoanID != "" {
		args = append(args, filter.LoanID)
		query += fmt.Sprintf(" AND loan_id = $%d", len(args))
	}

	if filter.Mode != "" {
		args = append(args, string(filter.Mode))
		query += fmt.Sprintf(" AND mode = $%d", len(args))
	}

	if filter.DateFrom != nil {
		args = append(args, dateToPgDate(*filter.DateFrom))
		query += fmt.Sprintf(" AND payment_date >= $%d", len(args))
	}

	if filter.DateTo != nil {
		args = append(args, dateToPgDate(*filter.DateTo))
		query += fmt.Sprintf(" AND payment_date <= $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY payment_date DESC, created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// DeleteByLoanTx removes all payments of a loan.
func (r *PaymentRepository) DeleteByLoanTx(ctx context.Context, tx usecase.Transaction, loanID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM payments WHERE loan_id = $1`, loanID)
	return err
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment   domain.Payment
		amount    pgtype.Numeric
		date      pgtype.Date
		mode      string
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&payment.ID,
		&payment.LoanID,
		&payment.InstallmentID,
		&amount,
		&date,
		&mode,
		&payment.Reference,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	payment.Amount = numericToDecimal(amount)
	payment.Date = pgDateToDate(date)
	payment.Mode = domain.PaymentMode(mode)
	payment.CreatedAt = createdAt.Time

	return &payment, nil
}
