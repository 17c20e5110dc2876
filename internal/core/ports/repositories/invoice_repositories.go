package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its lines.
	FindInvoiceByID(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceForUpdate retrieves an invoice and locks it for the rest of the transaction.
	FindInvoiceForUpdate(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error)

	// InvoicesExistForPeriod reports whether any invoice exists for the tenant and period.
	InvoicesExistForPeriod(ctx context.Context, tenantID string, month int, year int) (bool, error)

	// ListInvoicesForPeriod returns a period's invoices ordered by invoice number.
	ListInvoicesForPeriod(ctx context.Context, tenantID string, month int, year int) ([]domain.Invoice, error)

	// SumBalanceDueForUnit totals the balance due of every invoice of a unit.
	SumBalanceDueForUnit(ctx context.Context, tenantID string, unitID string) (decimal.Decimal, error)
}

// InvoiceWriter defines write operations for invoices
type InvoiceWriter interface {
	// SaveInvoice inserts an invoice and its lines.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceSettlement stores new paid/balance/status snapshot values.
	UpdateInvoiceSettlement(ctx context.Context, invoice domain.Invoice, userID string, now time.Time) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
