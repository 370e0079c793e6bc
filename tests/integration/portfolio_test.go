package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
	"github.com/loanworks/engine/tests/testutil"
)

func TestPortfolioSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	// One loan far in the past, so its first due date is already overdue,
	// and one starting today, so nothing is due on it yet.
	past := time.Now().UTC().AddDate(0, -3, 0)
	testDB.CreateTestLoan(ctx, "cust-a", decimal.NewFromInt(12000), decimal.NewFromInt(12), 12, past)
	testDB.CreateTestLoan(ctx, "cust-b", decimal.NewFromInt(50000), decimal.NewFromInt(10), 24, time.Now().UTC())

	srv := newTestServer(t, testDB)

	resp, err := http.Get(srv.URL + "/api/v1/portfolio/summary")
	if err != nil {
		t.Fatalf("summary request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	summary := decodeBody[domain.PortfolioSummary](t, resp)

	if summary.ActiveLoans != 2 {
		t.Errorf("expected 2 active loans, got %d", summary.ActiveLoans)
	}
	if summary.OverdueLoans != 1 {
		t.Errorf("expected 1 overdue loan, got %d", summary.OverdueLoans)
	}
	if !summary.OutstandingPrincipal.Equal(decimal.NewFromInt(62000)) {
		t.Errorf("expected outstanding 62000, got %s", summary.OutstandingPrincipal)
	}
	if summary.GeneratedAt.IsZero() {
		t.Error("expected generated timestamp")
	}
}
