package usecase

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/loanworks/engine/internal/domain"
)

// PortfolioUseCase serves book-wide aggregates, cached with a short TTL since
// the dashboard polls them far more often than they change.
type PortfolioUseCase struct {
	portfolioRepo PortfolioRepository
	cache         Cache
	clock         Clock
	logger        zerolog.Logger
}

// NewPortfolioUseCase creates a new PortfolioUseCase.
func NewPortfolioUseCase(portfolioRepo PortfolioRepository, cache Cache, clock Clock, logger zerolog.Logger) *PortfolioUseCase {
	return &PortfolioUseCase{
		portfolioRepo: portfolioRepo,
		cache:         cache,
		clock:         clock,
		logger:        logger,
	}
}

// Summary returns the portfolio aggregate, from cache when fresh.
func (uc *PortfolioUseCase) Summary(ctx context.Context) (*domain.PortfolioSummary, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, PortfolioCacheKey); err == nil && raw != nil {
			var cached domain.PortfolioSummary
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	summary, err := uc.portfolioRepo.Summary(ctx, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			if err := uc.cache.Set(ctx, PortfolioCacheKey, raw, PortfolioCacheTTL); err != nil {
				uc.logger.Warn().Err(err).Msg("failed to cache portfolio summary")
			}
		}
	}

	return summary, nil
}
