package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
)

// LoanFilter narrows loan listings.
type LoanFilter struct {
	Status     domain.LoanStatus
	CustomerID string
	Limit      int
	Offset     int
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	LoanID   string
	Mode     domain.PaymentMode
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	CreateTx(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	// UpdateState writes the mutable slice of a loan: outstanding balance,
	// status and next due date.
	UpdateState(ctx context.Context, tx Transaction, id string, outstanding decimal.Decimal, status domain.LoanStatus, nextDue *time.Time, updatedAt time.Time) error
	List(ctx context.Context, filter LoanFilter) ([]*domain.Loan, error)
	DeleteTx(ctx context.Context, tx Transaction, id string) error
}

// InstallmentRepository defines data access for schedule rows.
type InstallmentRepository interface {
	CreateBatchTx(ctx context.Context, tx Transaction, installments []*domain.Installment) error
	ListByLoan(ctx context.Context, loanID string) ([]*domain.Installment, error)
	// ListPendingForUpdate returns pending rows in sequence order, locked
	// for the duration of the transaction.
	ListPendingForUpdate(ctx context.Context, tx Transaction, loanID string) ([]*domain.Installment, error)
	CountPendingTx(ctx context.Context, tx Transaction, loanID string) (int, error)
	// UpdatePaymentState persists the mutable columns of one row: status,
	// paid amount and paid date.
	UpdatePaymentState(ctx context.Context, tx Transaction, installment *domain.Installment) error
	DeleteByLoanTx(ctx context.Context, tx Transaction, loanID string) error
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	CreateTx(ctx context.Context, tx Transaction, payment *domain.Payment) error
	// LinkInstallmentTx records the first installment a payment touched.
	LinkInstallmentTx(ctx context.Context, tx Transaction, paymentID, installmentID string) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)
	DeleteByLoanTx(ctx context.Context, tx Transaction, loanID string) error
}

// PortfolioRepository computes book-wide aggregates.
type PortfolioRepository interface {
	Summary(ctx context.Context, today time.Time) (*domain.PortfolioSummary, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time; overdue projection and loan numbering
// depend on it, so tests inject a fixed one.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
