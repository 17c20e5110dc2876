package services

import (
	"context"

	"github.com/SscSPs/society_ledger/internal/core/domain"
)

// PaymentSvcFacade records and reads invoice payments
type PaymentSvcFacade interface {
	// RecordManualPayment posts the receipt to the ledger and settles the invoice
	// in a single transaction.
	RecordManualPayment(ctx context.Context, input domain.ManualPaymentInput) (*domain.Payment, error)

	GetPayment(ctx context.Context, tenantID string, paymentID string) (*domain.Payment, error)
	ListPaymentsForInvoice(ctx context.Context, tenantID string, invoiceID string) ([]domain.Payment, error)
}
