package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.JournalPosted("INVOICE")
	r.JournalPosted("INVOICE")
	r.JournalPosted("")
	r.InvoiceGenerated()
	r.GenerationRun("partial")
	r.PaymentRecorded("UPI", decimal.RequireFromString("1500.50"))
	r.ObserveDuration("generate_invoices", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.journalEntries.WithLabelValues("INVOICE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.journalEntries.WithLabelValues("NONE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.invoices))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.invoiceRuns.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.payments.WithLabelValues("UPI")))
	assert.InDelta(t, 1500.50, testutil.ToFloat64(r.paymentAmount), 0.001)
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.JournalPosted("MANUAL")
		r.InvoiceGenerated()
		r.GenerationRun("ok")
		r.PaymentRecorded("CASH", decimal.NewFromInt(10))
		r.ObserveDuration("x", 1)
	})
}
