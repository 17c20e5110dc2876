package pgsql

import (
	"context"
	"database/sql"
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
	"github.com/shopspring/decimal"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, tenant_id, invoice_number, unit_id, member_id, billing_month, billing_year, invoice_date, due_date,
	subtotal, gst_amount, interest_amount, previous_balance, total_amount, paid_amount, balance_due, status, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID, &m.TenantID, &m.InvoiceNumber, &m.UnitID, &m.MemberID, &m.BillingMonth, &m.BillingYear, &m.InvoiceDate, &m.DueDate,
		&m.Subtotal, &m.GSTAmount, &m.InterestAmount, &m.PreviousBalance, &m.TotalAmount, &m.PaidAmount, &m.BalanceDue, &m.Status, &m.JournalEntryID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Invoice{}, err
	}
	return mapping.ToDomainInvoice(m), nil
}

func (r *PgxInvoiceRepository) findInvoice(ctx context.Context, query string, tenantID, invoiceID string) (*domain.Invoice, error) {
	inv, err := scanInvoice(r.db(ctx).QueryRow(ctx, query, tenantID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	lines, err := r.findLines(ctx, []string{inv.InvoiceID})
	if err != nil {
		return nil, err
	}
	inv.Lines = lines[inv.InvoiceID]
	return &inv, nil
}

// FindInvoiceByID retrieves an invoice with its lines.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE tenant_id = $1 AND invoice_id = $2;`, tenantID, invoiceID)
}

// FindInvoiceForUpdate retrieves an invoice and holds a row lock until the transaction ends.
func (r *PgxInvoiceRepository) FindInvoiceForUpdate(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE tenant_id = $1 AND invoice_id = $2 FOR UPDATE;`, tenantID, invoiceID)
}

func (r *PgxInvoiceRepository) findLines(ctx context.Context, invoiceIDs []string) (map[string][]domain.InvoiceLine, error) {
	result := make(map[string][]domain.InvoiceLine, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT line_id, invoice_id, charge_head_id, description, amount, gst_rate, gst_amount, line_total
		FROM invoice_lines
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position;
	`
	rows, err := r.db(ctx).Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.InvoiceLine
		var chargeHeadID sql.NullString
		if err := rows.Scan(&m.LineID, &m.InvoiceID, &chargeHeadID, &m.Description, &m.Amount, &m.GSTRate, &m.GSTAmount, &m.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", err)
		}
		m.ChargeHeadID = chargeHeadID.String
		result[m.InvoiceID] = append(result[m.InvoiceID], mapping.ToDomainInvoiceLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice lines: %w", err)
	}
	return result, nil
}

// InvoicesExistForPeriod reports whether any invoice exists for the tenant and period.
func (r *PgxInvoiceRepository) InvoicesExistForPeriod(ctx context.Context, tenantID string, month int, year int) (bool, error) {
	var exists bool
	err := r.db(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE tenant_id = $1 AND billing_month = $2 AND billing_year = $3);`,
		tenantID, month, year,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invoices for %d-%02d: %w", year, month, err)
	}
	return exists, nil
}

// ListInvoicesForPeriod returns a period's invoices with their lines.
func (r *PgxInvoiceRepository) ListInvoicesForPeriod(ctx context.Context, tenantID string, month int, year int) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = $1 AND billing_month = $2 AND billing_year = $3 ORDER BY invoice_number;`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	rows.Close()

	ids := make([]string, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].InvoiceID
	}
	lines, err := r.findLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		invoices[i].Lines = lines[invoices[i].InvoiceID]
	}
	return invoices, nil
}

// SumBalanceDueForUnit totals the balance due of every invoice of a unit.
func (r *PgxInvoiceRepository) SumBalanceDueForUnit(ctx context.Context, tenantID string, unitID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(balance_due), 0) FROM invoices WHERE tenant_id = $1 AND unit_id = $2;`,
		tenantID, unitID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balance due for unit %s: %w", unitID, err)
	}
	return total, nil
}

// SaveInvoice inserts an invoice and its lines.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	q := r.db(ctx)
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := q.Exec(ctx, query,
		m.InvoiceID, m.TenantID, m.InvoiceNumber, m.UnitID, m.MemberID, m.BillingMonth, m.BillingYear, m.InvoiceDate, m.DueDate,
		m.Subtotal, m.GSTAmount, m.InterestAmount, m.PreviousBalance, m.TotalAmount, m.PaidAmount, m.BalanceDue, m.Status, m.JournalEntryID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice %s: %w", m.InvoiceNumber, mapNumberingError(err, "invoices_tenant_number_key"))
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_lines (line_id, invoice_id, charge_head_id, description, amount, gst_rate, gst_amount, line_total, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for i, l := range invoice.Lines {
		batch.Queue(lineQuery, l.LineID, m.InvoiceID, nullString(l.ChargeHeadID), l.Description, l.Amount, l.GSTRate, l.GSTAmount, l.LineTotal, i)
	}
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert lines for invoice %s: %w", m.InvoiceNumber, err)
	}
	return nil
}

// UpdateInvoiceSettlement stores the paid amount, balance due and status of an invoice.
func (r *PgxInvoiceRepository) UpdateInvoiceSettlement(ctx context.Context, invoice domain.Invoice, userID string, now time.Time) error {
	query := `
		UPDATE invoices
		SET paid_amount = $3, balance_due = $4, status = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND invoice_id = $2;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query,
		invoice.TenantID, invoice.InvoiceID, invoice.PaidAmount, invoice.BalanceDue, string(invoice.Status), now, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement of invoice %s: %w", invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
