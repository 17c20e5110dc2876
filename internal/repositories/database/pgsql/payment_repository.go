package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/society_ledger/internal/models"
	"github.com/SscSPs/society_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) *PgxPaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, tenant_id, invoice_id, unit_id, member_id, receipt_number, amount, payment_date, payment_method,
	reference_number, notes, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.TenantID, &m.InvoiceID, &m.UnitID, &m.MemberID, &m.ReceiptNumber, &m.Amount, &m.PaymentDate, &m.PaymentMethod,
		&m.ReferenceNumber, &m.Notes, &m.JournalEntryID, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Payment{}, err
	}
	return mapping.ToDomainPayment(m), nil
}

// NextReceiptSequence locks the tenant's receipt numbering for the day and returns the next sequence.
func (r *PgxPaymentRepository) NextReceiptSequence(ctx context.Context, tenantID string, paymentDate time.Time) (int, error) {
	day := domain.DateOnly(paymentDate)
	if err := r.lockKey(ctx, "receipt:"+tenantID+":"+day.Format("20060102")); err != nil {
		return 0, err
	}
	var count int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM payments WHERE tenant_id = $1 AND payment_date = $2;`,
		tenantID, day,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count payments for receipt numbering", err)
	}
	return count + 1, nil
}

// SavePayment inserts a payment.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.PaymentID, m.TenantID, m.InvoiceID, m.UnitID, m.MemberID, m.ReceiptNumber, m.Amount, m.PaymentDate, m.PaymentMethod,
		m.ReferenceNumber, m.Notes, m.JournalEntryID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", m.ReceiptNumber, mapNumberingError(err, "payments_tenant_receipt_key"))
	}
	return nil
}

// FindPaymentByID retrieves a payment.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, tenantID string, paymentID string) (*domain.Payment, error) {
	p, err := scanPayment(r.db(ctx).QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE tenant_id = $1 AND payment_id = $2;`, tenantID, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %s: %w", paymentID, err)
	}
	return &p, nil
}

// ListPaymentsByInvoice returns an invoice's payments in receipt order.
func (r *PgxPaymentRepository) ListPaymentsByInvoice(ctx context.Context, tenantID string, invoiceID string) ([]domain.Payment, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE tenant_id = $1 AND invoice_id = $2 ORDER BY payment_date, created_at;`,
		tenantID, invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}
