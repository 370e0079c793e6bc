package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/loanworks/engine/internal/adapter/http/handler"
	"github.com/loanworks/engine/internal/adapter/http/middleware"
	"github.com/loanworks/engine/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LoanHandler      *handler.LoanHandler
	PaymentHandler   *handler.PaymentHandler
	PortfolioHandler *handler.PortfolioHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Loans
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", cfg.LoanHandler.Create)
			r.Get("/", cfg.LoanHandler.List)
			r.Get("/{id}", cfg.LoanHandler.Get)
			r.Delete("/{id}", cfg.LoanHandler.Delete)
			r.Get("/{id}/schedule", cfg.LoanHandler.GetSchedule)
			r.Post("/{id}/payments", cfg.PaymentHandler.Allocate)
			r.Get("/{id}/payments", cfg.PaymentHandler.ListByLoan)
			r.Post("/{id}/close", cfg.LoanHandler.Close)
			r.Post("/{id}/reopen", cfg.LoanHandler.Reopen)
		})

		// Payments
		r.Route("/payments", func(r chi.Router) {
			r.Get("/", cfg.PaymentHandler.List)
			r.Get("/{id}", cfg.PaymentHandler.Get)
		})

		// Portfolio
		r.Get("/portfolio/summary", cfg.PortfolioHandler.Summary)
	})

	return r
}
