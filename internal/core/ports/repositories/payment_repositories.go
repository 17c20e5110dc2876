package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
)

// PaymentReader defines read operations for payments
type PaymentReader interface {
	FindPaymentByID(ctx context.Context, tenantID string, paymentID string) (*domain.Payment, error)
	ListPaymentsByInvoice(ctx context.Context, tenantID string, invoiceID string) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for payments
type PaymentWriter interface {
	// NextReceiptSequence returns 1 + the number of the tenant's payments on the
	// same calendar day, holding the day's numbering lock inside a transaction.
	NextReceiptSequence(ctx context.Context, tenantID string, paymentDate time.Time) (int, error)

	SavePayment(ctx context.Context, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
