package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/loanworks/engine/internal/adapter/http"
	"github.com/loanworks/engine/internal/adapter/http/handler"
	"github.com/loanworks/engine/internal/adapter/http/middleware"
	postgresRepo "github.com/loanworks/engine/internal/adapter/repository/postgres"
	redisRepo "github.com/loanworks/engine/internal/adapter/repository/redis"
	"github.com/loanworks/engine/internal/infrastructure/config"
	"github.com/loanworks/engine/internal/infrastructure/logger"
	"github.com/loanworks/engine/internal/infrastructure/metrics"
	"github.com/loanworks/engine/internal/infrastructure/postgres"
	"github.com/loanworks/engine/internal/infrastructure/redis"
	"github.com/loanworks/engine/internal/usecase"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// listenAddr accepts either a bare port or a full host:port address.
func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics registry
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	installmentRepo := postgresRepo.NewInstallmentRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	portfolioRepo := postgresRepo.NewPortfolioRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	clock := systemClock{}

	// Initialize use cases
	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, installmentRepo, paymentRepo, idGen, clock, m)
	paymentUC := usecase.NewPaymentUseCase(txManager, loanRepo, installmentRepo, paymentRepo, idGen, clock, log.Logger, m)
	lifecycleUC := usecase.NewLifecycleUseCase(txManager, loanRepo, installmentRepo, clock, m)
	portfolioUC := usecase.NewPortfolioUseCase(portfolioRepo, cache, clock, log.Logger)

	// Initialize handlers
	loanHandler := handler.NewLoanHandler(loanUC, lifecycleUC)
	paymentHandler := handler.NewPaymentHandler(paymentUC)
	portfolioHandler := handler.NewPortfolioHandler(portfolioUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LoanHandler:      loanHandler,
		PaymentHandler:   paymentHandler,
		PortfolioHandler: portfolioHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:           log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
