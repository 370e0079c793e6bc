package handler

import (
	"context"
	"net/http"

	"github.com/loanworks/engine/internal/domain"
)

// PortfolioService defines the behavior needed by PortfolioHandler.
type PortfolioService interface {
	Summary(ctx context.Context) (*domain.PortfolioSummary, error)
}

// PortfolioHandler serves book-wide aggregates.
type PortfolioHandler struct {
	portfolioUC PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioUC PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioUC: portfolioUC}
}

// Summary returns the portfolio aggregate.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioUC.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute portfolio summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
