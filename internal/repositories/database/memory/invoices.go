package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) FindInvoiceByID(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error) {
	var inv domain.Invoice
	var ok bool
	s.read(ctx, func(t *tables) { inv, ok = t.invoices[invoiceID] })
	if !ok || inv.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &inv, nil
}

// FindInvoiceForUpdate needs no row lock; transactions already run one at a time.
func (s *Store) FindInvoiceForUpdate(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error) {
	return s.FindInvoiceByID(ctx, tenantID, invoiceID)
}

func (s *Store) InvoicesExistForPeriod(ctx context.Context, tenantID string, month int, year int) (bool, error) {
	exists := false
	s.read(ctx, func(t *tables) {
		for _, inv := range t.invoices {
			if inv.TenantID == tenantID && inv.BillingMonth == month && inv.BillingYear == year {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func (s *Store) ListInvoicesForPeriod(ctx context.Context, tenantID string, month int, year int) ([]domain.Invoice, error) {
	out := []domain.Invoice{}
	s.read(ctx, func(t *tables) {
		for _, inv := range t.invoices {
			if inv.TenantID == tenantID && inv.BillingMonth == month && inv.BillingYear == year {
				out = append(out, inv)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, nil
}

func (s *Store) SumBalanceDueForUnit(ctx context.Context, tenantID string, unitID string) (decimal.Decimal, error) {
	total := decimal.Zero
	s.read(ctx, func(t *tables) {
		for _, inv := range t.invoices {
			if inv.TenantID == tenantID && inv.UnitID == unitID {
				total = total.Add(inv.BalanceDue)
			}
		}
	})
	return total, nil
}

func (s *Store) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	return s.write(ctx, "SaveInvoice", func(t *tables) error {
		for _, inv := range t.invoices {
			if inv.TenantID != invoice.TenantID {
				continue
			}
			if inv.InvoiceNumber == invoice.InvoiceNumber {
				return fmt.Errorf("%w: invoice number %s", apperrors.ErrNumberingCollision, invoice.InvoiceNumber)
			}
			if inv.UnitID == invoice.UnitID && inv.BillingMonth == invoice.BillingMonth && inv.BillingYear == invoice.BillingYear {
				return fmt.Errorf("%w: unit %s already invoiced for %d-%02d", apperrors.ErrDuplicate, invoice.UnitID, invoice.BillingYear, invoice.BillingMonth)
			}
		}
		if _, ok := t.entries[invoice.JournalEntryID]; !ok {
			return fmt.Errorf("%w: journal entry %s does not exist", apperrors.ErrValidation, invoice.JournalEntryID)
		}
		lines := make([]domain.InvoiceLine, len(invoice.Lines))
		copy(lines, invoice.Lines)
		invoice.Lines = lines
		t.invoices[invoice.InvoiceID] = invoice
		return nil
	})
}

func (s *Store) UpdateInvoiceSettlement(ctx context.Context, invoice domain.Invoice, userID string, now time.Time) error {
	return s.write(ctx, "UpdateInvoiceSettlement", func(t *tables) error {
		stored, ok := t.invoices[invoice.InvoiceID]
		if !ok || stored.TenantID != invoice.TenantID {
			return apperrors.ErrNotFound
		}
		stored.PaidAmount = invoice.PaidAmount
		stored.BalanceDue = invoice.BalanceDue
		stored.Status = invoice.Status
		stored.LastUpdatedAt = now
		stored.LastUpdatedBy = userID
		t.invoices[invoice.InvoiceID] = stored
		return nil
	})
}
