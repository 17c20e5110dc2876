package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
)

func (s *Store) FindPaymentByID(ctx context.Context, tenantID string, paymentID string) (*domain.Payment, error) {
	var p domain.Payment
	var ok bool
	s.read(ctx, func(t *tables) { p, ok = t.payments[paymentID] })
	if !ok || p.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListPaymentsByInvoice(ctx context.Context, tenantID string, invoiceID string) ([]domain.Payment, error) {
	out := []domain.Payment{}
	s.read(ctx, func(t *tables) {
		for _, p := range t.payments {
			if p.TenantID == tenantID && p.InvoiceID == invoiceID {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ReceiptNumber < out[j].ReceiptNumber })
	return out, nil
}

func (s *Store) NextReceiptSequence(ctx context.Context, tenantID string, paymentDate time.Time) (int, error) {
	day := domain.DateOnly(paymentDate)
	count := 0
	s.read(ctx, func(t *tables) {
		for _, p := range t.payments {
			if p.TenantID == tenantID && domain.DateOnly(p.PaymentDate).Equal(day) {
				count++
			}
		}
	})
	return count + 1, nil
}

func (s *Store) SavePayment(ctx context.Context, payment domain.Payment) error {
	return s.write(ctx, "SavePayment", func(t *tables) error {
		for _, p := range t.payments {
			if p.TenantID == payment.TenantID && p.ReceiptNumber == payment.ReceiptNumber {
				return fmt.Errorf("%w: receipt number %s", apperrors.ErrNumberingCollision, payment.ReceiptNumber)
			}
		}
		if _, ok := t.invoices[payment.InvoiceID]; !ok {
			return fmt.Errorf("%w: invoice %s does not exist", apperrors.ErrValidation, payment.InvoiceID)
		}
		t.payments[payment.PaymentID] = payment
		return nil
	})
}
