package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	accountRepo portsrepo.AccountReader
	ledger      portssvc.JournalWriterSvc
}

// NewPaymentService creates the payment recorder.
func NewPaymentService(
	txManager portsrepo.TransactionManager,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	ledger portssvc.JournalWriterSvc,
	options ...ServiceOption,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		BaseService: newBaseService(txManager, options...),
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		accountRepo: accountRepo,
		ledger:      ledger,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// RecordManualPayment posts debit bank / credit receivable for the amount,
// stores the payment and updates the invoice snapshot, all in one transaction.
// An amount above the balance due is accepted; the balance is clamped at zero.
func (s *paymentService) RecordManualPayment(ctx context.Context, input domain.ManualPaymentInput) (*domain.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive, got %s", apperrors.ErrValidation, input.Amount.String())
	}
	if !accounting.IsMoneyScale(input.Amount) {
		return nil, fmt.Errorf("%w: payment amount %s has more than two decimal places", apperrors.ErrValidation, input.Amount.String())
	}
	if input.PaymentDate.IsZero() {
		return nil, fmt.Errorf("%w: payment date is required", apperrors.ErrValidation)
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = domain.MethodCash
	}

	start := s.now()
	paymentDate := domain.DateOnly(input.PaymentDate)
	var payment domain.Payment
	err := s.inTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.invoiceRepo.FindInvoiceForUpdate(ctx, input.TenantID, input.InvoiceID)
		if err != nil {
			return err
		}

		depositID, err := s.depositAccount(ctx, input)
		if err != nil {
			return err
		}
		ar, err := s.accountRepo.FindAccountByCode(ctx, input.TenantID, domain.CodeReceivableMaint)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: missing required account %s", apperrors.ErrValidation, domain.CodeReceivableMaint)
			}
			return err
		}

		seq, err := s.paymentRepo.NextReceiptSequence(ctx, input.TenantID, paymentDate)
		if err != nil {
			return fmt.Errorf("failed to allocate receipt number: %w", err)
		}

		payment = domain.Payment{
			PaymentID:       uuid.NewString(),
			TenantID:        input.TenantID,
			InvoiceID:       inv.InvoiceID,
			UnitID:          inv.UnitID,
			MemberID:        inv.MemberID,
			ReceiptNumber:   domain.ReceiptNumber(paymentDate, seq),
			Amount:          input.Amount,
			PaymentDate:     paymentDate,
			PaymentMethod:   input.PaymentMethod,
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
			AuditFields:     domain.NewAuditFields(input.CreatedBy, s.now()),
		}

		entry, err := s.ledger.CreateJournalEntry(ctx, domain.JournalEntryInput{
			TenantID:   input.TenantID,
			Date:       paymentDate,
			Narration:  fmt.Sprintf("Payment %s against invoice %s", payment.ReceiptNumber, inv.InvoiceNumber),
			SourceType: domain.SourcePayment,
			SourceID:   payment.PaymentID,
			Lines: []domain.LedgerLineInput{
				{AccountID: depositID, Side: domain.Debit, Amount: input.Amount, UnitID: inv.UnitID, MemberID: inv.MemberID},
				{AccountID: ar.AccountID, Side: domain.Credit, Amount: input.Amount, UnitID: inv.UnitID, MemberID: inv.MemberID},
			},
			CreatedBy: input.CreatedBy,
		})
		if err != nil {
			return err
		}
		payment.JournalEntryID = entry.EntryID

		if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		excess := inv.ApplyPayment(input.Amount)
		if excess.IsPositive() {
			s.LogWarn(ctx, "Payment exceeds invoice balance; balance clamped at zero",
				slog.String("invoice_id", inv.InvoiceID),
				slog.String("excess", excess.StringFixed(2)))
		}
		if err := s.invoiceRepo.UpdateInvoiceSettlement(ctx, *inv, input.CreatedBy, s.now()); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to record payment",
				slog.String("invoice_id", input.InvoiceID),
				slog.String("tenant_id", input.TenantID))
		}
		return nil, err
	}

	s.afterCommit(ctx, func() {
		s.metrics.PaymentRecorded(string(payment.PaymentMethod), payment.Amount)
		s.metrics.ObserveDuration("record_payment", s.now().Sub(start).Seconds())
	})
	s.publish(ctx, domain.LedgerEvent{
		EventType: domain.EventPaymentRecorded,
		TenantID:  payment.TenantID,
		EntityID:  payment.PaymentID,
		Reference: payment.ReceiptNumber,
		UnitID:    payment.UnitID,
		Amount:    payment.Amount,
	})
	s.LogInfo(ctx, "Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("receipt_number", payment.ReceiptNumber),
		slog.String("invoice_id", payment.InvoiceID))
	return &payment, nil
}

// depositAccount returns the requested deposit account, or the operating bank account.
func (s *paymentService) depositAccount(ctx context.Context, input domain.ManualPaymentInput) (string, error) {
	if input.DepositAccountID == "" {
		bank, err := s.accountRepo.FindAccountByCode(ctx, input.TenantID, domain.CodeBankOperating)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return "", fmt.Errorf("%w: missing required account %s", apperrors.ErrValidation, domain.CodeBankOperating)
			}
			return "", err
		}
		return bank.AccountID, nil
	}

	acc, err := s.accountRepo.FindAccountByID(ctx, input.DepositAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: deposit account %s not found", apperrors.ErrValidation, input.DepositAccountID)
		}
		return "", err
	}
	if acc.TenantID != input.TenantID || acc.AccountType != domain.Asset {
		return "", fmt.Errorf("%w: deposit account must be an asset account of the tenant", apperrors.ErrValidation)
	}
	return acc.AccountID, nil
}

func (s *paymentService) GetPayment(ctx context.Context, tenantID string, paymentID string) (*domain.Payment, error) {
	p, err := s.paymentRepo.FindPaymentByID(ctx, tenantID, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payment", slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	return p, nil
}

func (s *paymentService) ListPaymentsForInvoice(ctx context.Context, tenantID string, invoiceID string) ([]domain.Payment, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListPaymentsByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if payments == nil {
		return []domain.Payment{}, nil
	}
	return payments, nil
}
