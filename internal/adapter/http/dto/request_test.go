package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/engine/internal/domain"
)

func TestCreateLoanRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		request     *CreateLoanRequest
		expectError bool
		wantFreq    domain.Frequency
		wantDay     int
	}{
		{
			name: "monthly anchor",
			request: &CreateLoanRequest{
				CustomerID:        "cust-1",
				Principal:         decimal.NewFromInt(12000),
				AnnualRatePercent: decimal.NewFromInt(12),
				TenurePeriods:     12,
				Frequency:         "monthly",
				AnchorDay:         5,
			},
			wantFreq: domain.FrequencyMonthly,
			wantDay:  5,
		},
		{
			name: "weekly anchor",
			request: &CreateLoanRequest{
				CustomerID:    "cust-1",
				Principal:     decimal.NewFromInt(5000),
				TenurePeriods: 10,
				Frequency:     "weekly",
				AnchorDay:     3,
			},
			wantFreq: domain.FrequencyWeekly,
			wantDay:  3,
		},
		{
			name: "unknown frequency",
			request: &CreateLoanRequest{
				Frequency: "fortnightly",
				AnchorDay: 1,
			},
			expectError: true,
		},
		{
			name: "anchor day out of range",
			request: &CreateLoanRequest{
				Frequency: "monthly",
				AnchorDay: 32,
			},
			expectError: true,
		},
		{
			name: "bad start date",
			request: &CreateLoanRequest{
				Frequency: "monthly",
				AnchorDay: 5,
				StartDate: "not-a-date",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToUseCaseInput() error = %v", err)
			}

			if got.Anchor.Frequency() != tt.wantFreq || got.Anchor.Day() != tt.wantDay {
				t.Fatalf("anchor = %s/%d, want %s/%d", got.Anchor.Frequency(), got.Anchor.Day(), tt.wantFreq, tt.wantDay)
			}
			if got.CustomerID != tt.request.CustomerID {
				t.Fatalf("customer = %s, want %s", got.CustomerID, tt.request.CustomerID)
			}
		})
	}
}

func TestCreateLoanRequest_ToUseCaseInput_StartDate(t *testing.T) {
	req := &CreateLoanRequest{
		CustomerID:    "cust-1",
		Principal:     decimal.NewFromInt(1000),
		TenurePeriods: 6,
		Frequency:     "daily",
		AnchorDay:     1,
		StartDate:     "2026-08-15",
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("ToUseCaseInput() error = %v", err)
	}

	if got.StartDate == nil || !got.StartDate.Equal(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start date = %v, want 2026-08-15", got.StartDate)
	}
}

func TestAllocatePaymentRequest_ToUseCaseInput(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	req := &AllocatePaymentRequest{
		Amount:    decimal.RequireFromString("1066.19"),
		Mode:      "upi",
		Reference: "UPI-123",
	}

	got, err := req.ToUseCaseInput("loan-1", now)
	if err != nil {
		t.Fatalf("ToUseCaseInput() error = %v", err)
	}

	if got.LoanID != "loan-1" || got.Mode != domain.PaymentModeUPI {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !got.Date.Equal(now) {
		t.Fatalf("expected empty date to default to now, got %v", got.Date)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"date only", "2026-08-29", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 truncated to date", "2026-08-29T14:30:00Z", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "29/08/2026", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
