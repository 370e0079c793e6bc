package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/internal/usecase"
)

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error)
	UpdateStateFunc      func(ctx context.Context, tx usecase.Transaction, id string, outstanding decimal.Decimal, status domain.LoanStatus, nextDue *time.Time, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, filter usecase.LoanFilter) ([]*domain.Loan, error)
	DeleteTxFunc         func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		loans: make(map[string]*domain.Loan),
	}
}

func (m *MockLoanRepository) CreateTx(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if loan, ok := m.loans[id]; ok {
		return loan, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockLoanRepository) UpdateState(ctx context.Context, tx usecase.Transaction, id string, outstanding decimal.Decimal, status domain.LoanStatus, nextDue *time.Time, updatedAt time.Time) error {
	if m.UpdateStateFunc != nil {
		return m.UpdateStateFunc(ctx, tx, id, outstanding, status, nextDue, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	loan, ok := m.loans[id]
	if !ok {
		return domain.ErrLoanNotFound
	}
	loan.OutstandingPrincipal = outstanding
	loan.Status = status
	loan.NextDueDate = nextDue
	loan.UpdatedAt = updatedAt
	return nil
}

func (m *MockLoanRepository) List(ctx context.Context, filter usecase.LoanFilter) ([]*domain.Loan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var loans []*domain.Loan
	for _, loan := range m.loans {
		if filter.Status != "" && loan.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && loan.CustomerID != filter.CustomerID {
			continue
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

func (m *MockLoanRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[id]; !ok {
		return domain.ErrLoanNotFound
	}
	delete(m.loans, id)
	return nil
}

// MockInstallmentRepository is a mock implementation of InstallmentRepository.
type MockInstallmentRepository struct {
	mu     sync.RWMutex
	byLoan map[string][]*domain.Installment

	CreateBatchTxFunc        func(ctx context.Context, tx usecase.Transaction, installments []*domain.Installment) error
	ListByLoanFunc           func(ctx context.Context, loanID string) ([]*domain.Installment, error)
	ListPendingForUpdateFunc func(ctx context.Context, tx usecase.Transaction, loanID string) ([]*domain.Installment, error)
	CountPendingTxFunc       func(ctx context.Context, tx usecase.Transaction, loanID string) (int, error)
	UpdatePaymentStateFunc   func(ctx context.Context, tx usecase.Transaction, installment *domain.Installment) error
	DeleteByLoanTxFunc       func(ctx context.Context, tx usecase.Transaction, loanID string) error
}

func NewMockInstallmentRepository() *MockInstallmentRepository {
	return &MockInstallmentRepository{
		byLoan: make(map[string][]*domain.Installment),
	}
}

func (m *MockInstallmentRepository) CreateBatchTx(ctx context.Context, tx usecase.Transaction, installments []*domain.Installment) error {
	if m.CreateBatchTxFunc != nil {
		return m.CreateBatchTxFunc(ctx, tx, installments)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inst := range installments {
		m.byLoan[inst.LoanID] = append(m.byLoan[inst.LoanID], inst)
	}
	return nil
}

func (m *MockInstallmentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	if m.ListByLoanFunc != nil {
		return m.ListByLoanFunc(ctx, loanID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := append([]*domain.Installment(nil), m.byLoan[loanID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sequence < rows[j].Sequence })
	return rows, nil
}

func (m *MockInstallmentRepository) ListPendingForUpdate(ctx context.Context, tx usecase.Transaction, loanID string) ([]*domain.Installment, error) {
	if m.ListPendingForUpdateFunc != nil {
		return m.ListPendingForUpdateFunc(ctx, tx, loanID)
	}
	all, _ := m.ListByLoan(ctx, loanID)
	var pending []*domain.Installment
	for _, inst := range all {
		if inst.Status == domain.InstallmentStatusPending {
			pending = append(pending, inst)
		}
	}
	return pending, nil
}

func (m *MockInstallmentRepository) CountPendingTx(ctx context.Context, tx usecase.Transaction, loanID string) (int, error) {
	if m.CountPendingTxFunc != nil {
		return m.CountPendingTxFunc(ctx, tx, loanID)
	}
	pending, _ := m.ListPendingForUpdate(ctx, tx, loanID)
	return len(pending), nil
}

func (m *MockInstallmentRepository) UpdatePaymentState(ctx context.Context, tx usecase.Transaction, installment *domain.Installment) error {
	if m.UpdatePaymentStateFunc != nil {
		return m.UpdatePaymentStateFunc(ctx, tx, installment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.byLoan[installment.LoanID]
	for i, inst := range rows {
		if inst.ID == installment.ID {
			rows[i] = installment
			return nil
		}
	}
	return fmt.Errorf("installment %s not found", installment.ID)
}

func (m *MockInstallmentRepository) DeleteByLoanTx(ctx context.Context, tx usecase.Transaction, loanID string) error {
	if m.DeleteByLoanTxFunc != nil {
		return m.DeleteByLoanTxFunc(ctx, tx, loanID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byLoan, loanID)
	return nil
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	CreateTxFunc          func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	LinkInstallmentTxFunc func(ctx context.Context, tx usecase.Transaction, paymentID, installmentID string) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Payment, error)
	ListFunc              func(ctx context.Context, filter usecase.PaymentFilter) ([]*domain.Payment, error)
	DeleteByLoanTxFunc    func(ctx context.Context, tx usecase.Transaction, loanID string) error
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) CreateTx(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) LinkInstallmentTx(ctx context.Context, tx usecase.Transaction, paymentID, installmentID string) error {
	if m.LinkInstallmentTxFunc != nil {
		return m.LinkInstallmentTxFunc(ctx, tx, paymentID, installmentID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[paymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	payment.InstallmentID = &installmentID
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if payment, ok := m.payments[id]; ok {
		return payment, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (m *MockPaymentRepository) List(ctx context.Context, filter usecase.PaymentFilter) ([]*domain.Payment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payments []*domain.Payment
	for _, payment := range m.payments {
		if filter.LoanID != "" && payment.LoanID != filter.LoanID {
			continue
		}
		if filter.Mode != "" && payment.Mode != filter.Mode {
			continue
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func (m *MockPaymentRepository) DeleteByLoanTx(ctx context.Context, tx usecase.Transaction, loanID string) error {
	if m.DeleteByLoanTxFunc != nil {
		return m.DeleteByLoanTxFunc(ctx, tx, loanID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, payment := range m.payments {
		if payment.LoanID == loanID {
			delete(m.payments, id)
		}
	}
	return nil
}

// MockPortfolioRepository is a mock implementation of PortfolioRepository.
type MockPortfolioRepository struct {
	SummaryFunc func(ctx context.Context, today time.Time) (*domain.PortfolioSummary, error)
}

func (m *MockPortfolioRepository) Summary(ctx context.Context, today time.Time) (*domain.PortfolioSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, today)
	}
	return &domain.PortfolioSummary{GeneratedAt: today}, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockClock is a mock implementation of Clock returning a fixed time.
type MockClock struct {
	NowFunc func() time.Time
	now     time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (m *MockClock) Now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return m.now
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
