package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Loan metrics
	LoansCreated  prometheus.Counter
	LoansClosed   prometheus.Counter
	LoansReopened prometheus.Counter
	LoanErrors    *prometheus.CounterVec

	// Allocation metrics
	PaymentsAllocated     prometheus.Counter
	AllocationDuration    prometheus.Histogram
	PaymentAmount         prometheus.Histogram
	InstallmentsSettled   prometheus.Counter
	UnappliedOverpayments prometheus.Counter

	// Database metrics
	DBQueries  *prometheus.CounterVec
	DBDuration *prometheus.HistogramVec
	DBErrors   *prometheus.CounterVec

	// Cache metrics
	CacheOperations *prometheus.CounterVec
	CacheErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		LoansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanengine_loans_created_total",
			Help: "Total number of loans created",
		}),
		LoansClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanengine_loans_closed_total",
			Help: "Total number of loans closed",
		}),
		LoansReopened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanengine_loans_reopened_total",
			Help: "Total number of loans reopened",
		}),
		LoanErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanengine_loan_errors_total",
				Help: "Total number of loan operation errors by type",
			},
			[]string{"error_type"},
		),

		PaymentsAllocated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanengine_payments_allocated_total",
			Help: "Total number of payments allocated",
		}),
		AllocationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanengine_allocation_duration_seconds",
			Help:    "Duration of payment allocation operations",
			Buckets: prometheus.DefBuckets,
		}),
		PaymentAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanengine_payment_amount",
			Help:    "Allocated payment amounts",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000},
		}),
		InstallmentsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanengine_installments_settled_total",
			Help: "Total number of installments settled in full",
		}),
		UnappliedOverpayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanengine_unapplied_overpayments_total",
			Help: "Payments that exceeded total pending dues",
		}),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanengine_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loanengine_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanengine_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		CacheOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanengine_cache_operations_total",
				Help: "Total cache operations",
			},
			[]string{"operation"},
		),
		CacheErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loanengine_cache_errors_total",
				Help: "Total cache errors",
			},
			[]string{"operation"},
		),
	}
}
