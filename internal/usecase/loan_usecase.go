package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/infrastructure/metrics"
)

// LoanUseCase handles loan creation, reads and deletion.
type LoanUseCase struct {
	txManager       TransactionManager
	loanRepo        LoanRepository
	installmentRepo InstallmentRepository
	paymentRepo     PaymentRepository
	idGen           IDGenerator
	clock           Clock
	metrics         *metrics.Metrics
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	installmentRepo InstallmentRepository,
	paymentRepo PaymentRepository,
	idGen IDGenerator,
	clock Clock,
	metrics *metrics.Metrics,
) *LoanUseCase {
	return &LoanUseCase{
		txManager:       txManager,
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		idGen:           idGen,
		clock:           clock,
		metrics:         metrics,
	}
}

// CreateLoanInput represents input for creating a loan.
type CreateLoanInput struct {
	CustomerID        string
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	TenurePeriods     int
	Anchor            domain.Anchor
	// StartDate anchors the schedule; defaults to today.
	StartDate *time.Time
}

// CreateLoan validates terms, derives the EMI, generates the full schedule
// and persists loan plus schedule in one transaction. On any failure nothing
// is persisted.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, []*domain.Installment, error) {
	terms := domain.LoanTerms{
		CustomerID:        input.CustomerID,
		Principal:         input.Principal,
		AnnualRatePercent: input.AnnualRatePercent,
		TenurePeriods:     input.TenurePeriods,
		Anchor:            input.Anchor,
	}
	if err := terms.Validate(); err != nil {
		return nil, nil, err
	}

	emi, err := domain.CalculateEMI(input.Principal, input.AnnualRatePercent, input.TenurePeriods)
	if err != nil {
		return nil, nil, err
	}

	now := uc.clock.Now().UTC()

	start := now
	if input.StartDate != nil {
		start = *input.StartDate
	}

	lines := domain.GenerateSchedule(input.Principal, input.AnnualRatePercent, input.TenurePeriods, input.Anchor, start, emi)

	firstDue := lines[0].DueDate
	loan := &domain.Loan{
		ID:                   uc.idGen.Generate(),
		LoanNumber:           fmt.Sprintf("%s%d", LoanNumberPrefix, now.UnixMilli()),
		CustomerID:           input.CustomerID,
		Principal:            input.Principal,
		AnnualRatePercent:    input.AnnualRatePercent,
		TenurePeriods:        input.TenurePeriods,
		Anchor:               input.Anchor,
		InstallmentAmount:    emi,
		OutstandingPrincipal: input.Principal,
		Status:               domain.LoanStatusActive,
		NextDueDate:          &firstDue,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	installments := make([]*domain.Installment, 0, len(lines))
	for _, line := range lines {
		installments = append(installments, &domain.Installment{
			ID:                 uc.idGen.Generate(),
			LoanID:             loan.ID,
			Sequence:           line.Sequence,
			DueDate:            line.DueDate,
			PrincipalComponent: line.PrincipalComponent,
			InterestComponent:  line.InterestComponent,
			TotalAmount:        line.TotalAmount,
			Status:             domain.InstallmentStatusPending,
			PaidAmount:         decimal.Zero,
		})
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.loanRepo.CreateTx(txCtx, tx, loan); err != nil {
		return nil, nil, err
	}

	if err := uc.installmentRepo.CreateBatchTx(txCtx, tx, installments); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.LoansCreated.Inc()
	}

	return loan, installments, nil
}

// GetLoan retrieves a loan with the overdue projection applied.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := uc.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	loan.Status = loan.EffectiveStatus(uc.clock.Now())

	return loan, nil
}

// ListLoans lists loans with the overdue projection applied.
func (uc *LoanUseCase) ListLoans(ctx context.Context, filter LoanFilter) ([]*domain.Loan, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	loans, err := uc.loanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := uc.clock.Now()
	for _, loan := range loans {
		loan.Status = loan.EffectiveStatus(today)
	}

	return loans, nil
}

// GetSchedule returns a loan's installments in sequence order.
func (uc *LoanUseCase) GetSchedule(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}

	return uc.installmentRepo.ListByLoan(ctx, loanID)
}

// DeleteLoan removes a loan together with its schedule and payments.
func (uc *LoanUseCase) DeleteLoan(ctx context.Context, id string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, id); err != nil {
		return err
	}

	if err := uc.paymentRepo.DeleteByLoanTx(txCtx, tx, id); err != nil {
		return err
	}

	if err := uc.installmentRepo.DeleteByLoanTx(txCtx, tx, id); err != nil {
		return err
	}

	if err := uc.loanRepo.DeleteTx(txCtx, tx, id); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}
