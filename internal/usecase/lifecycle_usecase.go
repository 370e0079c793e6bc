package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/infrastructure/metrics"
)

// LifecycleUseCase governs explicit loan status transitions: close and
// reopen. Overdue is a projection, never written; default is external-only.
type LifecycleUseCase struct {
	txManager       TransactionManager
	loanRepo        LoanRepository
	installmentRepo InstallmentRepository
	clock           Clock
	metrics         *metrics.Metrics
}

// NewLifecycleUseCase creates a new LifecycleUseCase.
func NewLifecycleUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	installmentRepo InstallmentRepository,
	clock Clock,
	metrics *metrics.Metrics,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txManager:       txManager,
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		clock:           clock,
		metrics:         metrics,
	}
}

// CloseLoan closes a loan once nothing is pending and the outstanding
// balance is within the rounding tolerance, forcing the balance to zero.
func (uc *LifecycleUseCase) CloseLoan(ctx context.Context, id string) (*domain.Loan, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	pending, err := uc.installmentRepo.CountPendingTx(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := loan.CanClose(pending); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	if err := uc.loanRepo.UpdateState(txCtx, tx, id, decimal.Zero, domain.LoanStatusClosed, loan.NextDueDate, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	loan.Status = domain.LoanStatusClosed
	loan.OutstandingPrincipal = decimal.Zero
	loan.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.LoansClosed.Inc()
	}

	return loan, nil
}

// ReopenLoan flips a closed loan back to active. Schedule rows and the
// balance are left exactly as they were at close time.
func (uc *LifecycleUseCase) ReopenLoan(ctx context.Context, id string) (*domain.Loan, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := loan.CanReopen(); err != nil {
		return nil, err
	}

	now := uc.clock.Now().UTC()
	if err := uc.loanRepo.UpdateState(txCtx, tx, id, loan.OutstandingPrincipal, domain.LoanStatusActive, loan.NextDueDate, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	loan.Status = domain.LoanStatusActive
	loan.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.LoansReopened.Inc()
	}

	return loan, nil
}
