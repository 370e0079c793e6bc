package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/infrastructure/metrics"
)

// PaymentUseCase handles payment allocation against loan schedules.
type PaymentUseCase struct {
	txManager       TransactionManager
	loanRepo        LoanRepository
	installmentRepo InstallmentRepository
	paymentRepo     PaymentRepository
	idGen           IDGenerator
	clock           Clock
	logger          zerolog.Logger
	metrics         *metrics.Metrics
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	loanRepo LoanRepository,
	installmentRepo InstallmentRepository,
	paymentRepo PaymentRepository,
	idGen IDGenerator,
	clock Clock,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:       txManager,
		loanRepo:        loanRepo,
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		idGen:           idGen,
		clock:           clock,
		logger:          logger,
		metrics:         metrics,
	}
}

// AllocatePaymentInput represents input for allocating a payment.
type AllocatePaymentInput struct {
	LoanID    string
	Amount    decimal.Decimal
	Date      time.Time
	Mode      domain.PaymentMode
	Reference string
}

// AllocationResult reports what a payment changed.
type AllocationResult struct {
	Payment             *domain.Payment
	UpdatedInstallments []*domain.Installment
	NewNextDueDate      *time.Time
	// UnappliedAmount is any slice of the payment left after the last
	// pending installment was exhausted. It is absorbed, not credited.
	UnappliedAmount decimal.Decimal
}

// AllocatePayment spreads a payment across the loan's pending installments in
// sequence order under the rounding-tolerance policy, reduces the loan's
// outstanding principal by each row's principal share, and recomputes the
// next due date. The payment row, all installment updates and the loan update
// commit as one unit; on any error nothing is persisted.
func (uc *PaymentUseCase) AllocatePayment(ctx context.Context, input AllocatePaymentInput) (*AllocationResult, error) {
	start := uc.clock.Now()

	payment := &domain.Payment{
		ID:        uc.idGen.Generate(),
		LoanID:    input.LoanID,
		Amount:    input.Amount,
		Date:      domain.DateOf(input.Date),
		Mode:      input.Mode,
		Reference: input.Reference,
		CreatedAt: start.UTC(),
	}

	if err := payment.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateReference(input.Reference); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock the loan row first: allocation is a multi-row read-then-write
	// sequence, so writers against one loan must serialize.
	loan, err := uc.loanRepo.GetByIDForUpdate(txCtx, tx, input.LoanID)
	if err != nil {
		return nil, err
	}

	pending, err := uc.installmentRepo.ListPendingForUpdate(txCtx, tx, input.LoanID)
	if err != nil {
		return nil, err
	}

	if len(pending) == 0 {
		return nil, domain.ErrNoPendingInstallments
	}

	if err := uc.paymentRepo.CreateTx(txCtx, tx, payment); err != nil {
		return nil, err
	}

	outcome := domain.Allocate(pending, input.Amount, payment.Date)

	for _, step := range outcome.Steps {
		if err := uc.installmentRepo.UpdatePaymentState(txCtx, tx, step.Installment); err != nil {
			return nil, err
		}
	}

	if outcome.First != nil {
		if err := uc.paymentRepo.LinkInstallmentTx(txCtx, tx, payment.ID, outcome.First.ID); err != nil {
			return nil, err
		}
		payment.InstallmentID = &outcome.First.ID
	}

	outstanding := loan.OutstandingPrincipal.Sub(outcome.PrincipalReduction)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	nextDue := domain.NextDueDate(pending)

	if err := uc.loanRepo.UpdateState(txCtx, tx, loan.ID, outstanding, loan.Status, nextDue, start.UTC()); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if outcome.Leftover.IsPositive() {
		// Compatibility with the historical books: money past the end of
		// the schedule is dropped, not held as an advance credit.
		uc.logger.Warn().
			Str("loan_id", loan.ID).
			Str("payment_id", payment.ID).
			Str("unapplied", outcome.Leftover.String()).
			Msg("payment exceeds total pending dues; excess not applied")

		if uc.metrics != nil {
			uc.metrics.UnappliedOverpayments.Inc()
		}
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsAllocated.Inc()
		uc.metrics.AllocationDuration.Observe(time.Since(start).Seconds())
		for _, step := range outcome.Steps {
			if step.Installment.Status == domain.InstallmentStatusPaid {
				uc.metrics.InstallmentsSettled.Inc()
			}
		}
	}

	touched := make([]*domain.Installment, 0, len(outcome.Steps))
	for _, step := range outcome.Steps {
		touched = append(touched, step.Installment)
	}

	return &AllocationResult{
		Payment:             payment,
		UpdatedInstallments: touched,
		NewNextDueDate:      nextDue,
		UnappliedAmount:     outcome.Leftover,
	}, nil
}

// GetPayment retrieves a payment by ID.
func (uc *PaymentUseCase) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	return uc.paymentRepo.GetByID(ctx, id)
}

// ListPayments lists payments with optional filters.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.paymentRepo.List(ctx, filter)
}
