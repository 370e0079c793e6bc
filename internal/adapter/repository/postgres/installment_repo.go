package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/usecase"
)

const installmentColumns = `id, loan_id, sequence, due_date, principal_component,
	interest_component, total_amount, status, paid_amount, paid_date`

// InstallmentRepository implements usecase.InstallmentRepository.
type InstallmentRepository struct {
	pool *pgxpool.Pool
}

// NewInstallmentRepository creates a new InstallmentRepository.
func NewInstallmentRepository(pool *pgxpool.Pool) *InstallmentRepository {
	return &InstallmentRepository{pool: pool}
}

// CreateBatchTx inserts all schedule rows of a loan in one batch.
func (r *InstallmentRepository) CreateBatchTx(ctx context.Context, tx usecase.Transaction, installments []*domain.Installment) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO installments (
			id, loan_id, sequence, due_date, principal_component,
			interest_component, total_amount, status, paid_amount, paid_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, inst := range installments {
		batch.Queue(query,
			inst.ID,
			inst.LoanID,
			inst.Sequence,
			dateToPgDate(inst.DueDate),
			decimalToNumeric(inst.PrincipalComponent),
			decimalToNumeric(inst.InterestComponent),
			decimalToNumeric(inst.TotalAmount),
			string(inst.Status),
			decimalToNumeric(inst.PaidAmount),
			datePtrToPgDate(inst.PaidDate),
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range installments {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}

// ListByLoan returns all schedule rows of a loan in sequence order.
func (r *InstallmentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE loan_id = $1 ORDER BY sequence`

	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInstallments(rows)
}

// ListPendingForUpdate returns the pending rows of a loan in sequence order,
// locked for the duration of the transaction.
func (r *InstallmentRepository) ListPendingForUpdate(ctx context.Context, tx usecase.Transaction, loanID string) ([]*domain.Installment, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE loan_id = $1 AND status = $2
		ORDER BY sequence
		FOR UPDATE
	`

	rows, err := pgxTx.Query(ctx, query, loanID, string(domain.InstallmentStatusPending))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanInstallments(rows)
}

// CountPendingTx counts the pending rows of a loan within a transaction.
func (r *InstallmentRepository) CountPendingTx(ctx context.Context, tx usecase.Transaction, loanID string) (int, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var count int
	err := pgxTx.QueryRow(ctx,
		`SELECT COUNT(*) FROM installments WHERE loan_id = $1 AND status = $2`,
		loanID, string(domain.InstallmentStatusPending),
	).Scan(&count)

	return count, err
}

// UpdatePaymentState persists the mutable columns of one schedule row.
func (r *InstallmentRepository) UpdatePaymentState(ctx context.Context, tx usecase.Transaction, installment *domain.Installment) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE installments
		SET status = $2, paid_amount = $3, paid_date = $4
		WHERE id = $1
	`

	_, err := pgxTx.Exec(ctx, query,
		installment.ID,
		string(installment.Status),
		decimalToNumeric(installment.PaidAmount),
		datePtrToPgDate(installment.PaidDate),
	)

	return err
}

// DeleteByLoanTx removes all schedule rows of a loan.
func (r *InstallmentRepository) DeleteByLoanTx(ctx context.Context, tx usecase.Transaction, loanID string) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `DELETE FROM installments WHERE loan_id = $1`, loanID)
	return err
}

func scanInstallments(rows pgx.Rows) ([]*domain.Installment, error) {
	var installments []*domain.Installment

	for rows.Next() {
		var (
			inst      domain.Installment
			dueDate   pgtype.Date
			principal pgtype.Numeric
			interest  pgtype.Numeric
			total     pgtype.Numeric
			status    string
			paid      pgtype.Numeric
			paidDate  pgtype.Date
		)

		err := rows.Scan(
			&inst.ID,
			&inst.LoanID,
			&inst.Sequence,
			&dueDate,
			&principal,
			&interest,
			&total,
			&status,
			&paid,
			&paidDate,
		)
		if err != nil {
			return nil, err
		}

		inst.DueDate = pgDateToDate(dueDate)
		inst.PrincipalComponent = numericToDecimal(principal)
		inst.InterestComponent = numericToDecimal(interest)
		inst.TotalAmount = numericToDecimal(total)
		inst.Status = domain.InstallmentStatus(status)
		inst.PaidAmount = numericToDecimal(paid)
		inst.PaidDate = pgDateToDatePtr(paidDate)

		installments = append(installments, &inst)
	}

	return installments, rows.Err()
}
