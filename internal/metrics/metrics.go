// Package metrics exposes the business counters of the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Recorder groups the counters services increment after a commit.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	journalEntries   *prometheus.CounterVec
	invoices         prometheus.Counter
	invoiceRuns      *prometheus.CounterVec
	payments         *prometheus.CounterVec
	paymentAmount    prometheus.Counter
	operationLatency *prometheus.HistogramVec
}

// NewRecorder registers the ledger counters with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		journalEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_journal_entries_posted_total",
				Help: "Total number of journal entries posted",
			},
			[]string{"source_type"},
		),
		invoices: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "billing_invoices_generated_total",
				Help: "Total number of invoices generated",
			},
		),
		invoiceRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_generation_runs_total",
				Help: "Invoice generation runs by outcome",
			},
			[]string{"status"},
		),
		payments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_recorded_total",
				Help: "Total number of payments recorded",
			},
			[]string{"method"},
		),
		paymentAmount: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "payments_recorded_amount_total",
				Help: "Sum of recorded payment amounts",
			},
		),
		operationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"operation"},
		),
	}
}

// JournalPosted counts one posted entry.
func (r *Recorder) JournalPosted(sourceType string) {
	if r == nil {
		return
	}
	if sourceType == "" {
		sourceType = "NONE"
	}
	r.journalEntries.WithLabelValues(sourceType).Inc()
}

// InvoiceGenerated counts one committed invoice.
func (r *Recorder) InvoiceGenerated() {
	if r == nil {
		return
	}
	r.invoices.Inc()
}

// GenerationRun counts a finished generation run; status is "ok", "partial" or "failed".
func (r *Recorder) GenerationRun(status string) {
	if r == nil {
		return
	}
	r.invoiceRuns.WithLabelValues(status).Inc()
}

// PaymentRecorded counts a payment and adds its amount.
func (r *Recorder) PaymentRecorded(method string, amount decimal.Decimal) {
	if r == nil {
		return
	}
	r.payments.WithLabelValues(method).Inc()
	r.paymentAmount.Add(amount.InexactFloat64())
}

// ObserveDuration records how long an operation took, in seconds.
func (r *Recorder) ObserveDuration(operation string, seconds float64) {
	if r == nil {
		return
	}
	r.operationLatency.WithLabelValues(operation).Observe(seconds)
}
