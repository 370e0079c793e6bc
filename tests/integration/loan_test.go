package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	adaptershttp "github.com/loanworks/engine/internal/adapter/http"
	"github.com/loanworks/engine/internal/adapter/http/dto"
	"github.com/loanworks/engine/internal/adapter/http/handler"
	"github.com/loanworks/engine/internal/adapter/repository/postgres"
	redisrepo "github.com/loanworks/engine/internal/adapter/repository/redis"
	"github.com/loanworks/engine/internal/infrastructure/metrics"
	infraredis "github.com/loanworks/engine/internal/infrastructure/redis"
	"github.com/loanworks/engine/internal/usecase"
	"github.com/loanworks/engine/tests/testutil"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Prometheus collectors register globally; build them once for the package.
var testMetrics = metrics.New()

// newTestServer wires the full HTTP stack against the test database.
func newTestServer(t *testing.T, testDB *testutil.TestDB) *httptest.Server {
	t.Helper()

	ctx := context.Background()
	pool := testDB.Pool

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	txManager := postgres.NewTxManager(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	installmentRepo := postgres.NewInstallmentRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	portfolioRepo := postgres.NewPortfolioRepository(pool)
	idGen := postgres.NewULIDGenerator()
	clock := systemClock{}
	m := testMetrics
	logger := zerolog.Nop()

	loanUC := usecase.NewLoanUseCase(txManager, loanRepo, installmentRepo, paymentRepo, idGen, clock, m)
	paymentUC := usecase.NewPaymentUseCase(txManager, loanRepo, installmentRepo, paymentRepo, idGen, clock, logger, m)
	lifecycleUC := usecase.NewLifecycleUseCase(txManager, loanRepo, installmentRepo, clock, m)
	portfolioUC := usecase.NewPortfolioUseCase(portfolioRepo, redisrepo.NewCache(redisClient), clock, logger)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		LoanHandler:      handler.NewLoanHandler(loanUC, lifecycleUC),
		PaymentHandler:   handler.NewPaymentHandler(paymentUC),
		PortfolioHandler: handler.NewPortfolioHandler(portfolioUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: redisrepo.NewIdempotencyStore(redisClient),
		Logger:           logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func TestLoanCreation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	srv := newTestServer(t, testDB)

	resp := postJSON(t, srv.URL+"/api/v1/loans/", map[string]any{
		"customer_id":         "cust-001",
		"principal":           "100000",
		"annual_rate_percent": "12",
		"tenure_periods":      12,
		"frequency":           "monthly",
		"anchor_day":          5,
		"start_date":          "2026-01-10",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody[dto.CreateLoanResponse](t, resp)

	if created.Loan.InstallmentAmount.String() != "8884.88" {
		t.Errorf("expected installment 8884.88, got %s", created.Loan.InstallmentAmount)
	}
	if created.Loan.OutstandingPrincipal.String() != "100000" {
		t.Errorf("expected outstanding 100000, got %s", created.Loan.OutstandingPrincipal)
	}
	if created.Schedule.Total != 12 {
		t.Fatalf("expected 12 schedule rows, got %d", created.Schedule.Total)
	}
	if created.Schedule.Installments[0].DueDate != "2026-02-05" {
		t.Errorf("expected first due 2026-02-05, got %s", created.Schedule.Installments[0].DueDate)
	}
	if created.Loan.NextDueDate == nil || *created.Loan.NextDueDate != "2026-02-05" {
		t.Errorf("expected next due 2026-02-05, got %v", created.Loan.NextDueDate)
	}

	// Fetch it back and check the schedule endpoint agrees.
	getResp, err := http.Get(srv.URL + "/api/v1/loans/" + created.Loan.ID + "/schedule")
	if err != nil {
		t.Fatalf("schedule request failed: %v", err)
	}
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.StatusCode)
	}
	schedule := decodeBody[dto.ScheduleResponse](t, getResp)
	if schedule.Total != 12 {
		t.Errorf("expected 12 rows, got %d", schedule.Total)
	}
	for i, row := range schedule.Installments {
		if row.Status != "pending" {
			t.Errorf("row %d: expected pending, got %s", i, row.Status)
		}
	}
}

func TestLoanCreation_InvalidTerms(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	srv := newTestServer(t, testDB)

	resp := postJSON(t, srv.URL+"/api/v1/loans/", map[string]any{
		"customer_id":         "cust-001",
		"principal":           "0",
		"annual_rate_percent": "12",
		"tenure_periods":      12,
		"frequency":           "monthly",
		"anchor_day":          5,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
