package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds every write transaction so a stuck
	// allocation cannot hold row locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// LoanNumberPrefix prefixes the human-facing loan number.
	LoanNumberPrefix = "LN"

	// PortfolioCacheKey and PortfolioCacheTTL control the cached summary.
	PortfolioCacheKey = "portfolio:summary"
	PortfolioCacheTTL = time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
