package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/society_ledger/internal/models"
	"github.com/SscSPs/society_ledger/internal/utils/mapping"
	"github.com/SscSPs/society_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and ledger lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, tenant_id, entry_number, entry_date, narration, status, source_type, source_id, reverses_entry_id, reversed_by_entry_id, financial_year, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, tenant_id, account_id, side, amount, line_date, unit_id, member_id`

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NextEntrySequence locks the tenant's entry numbering for the month and returns the next sequence.
func (r *PgxJournalRepository) NextEntrySequence(ctx context.Context, tenantID string, entryDate time.Time) (int, error) {
	if err := r.lockKey(ctx, "journal_entry:"+tenantID+":"+entryDate.Format("200601")); err != nil {
		return 0, err
	}
	start, end := domain.MonthBounds(entryDate)
	var count int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE tenant_id = $1 AND entry_date >= $2 AND entry_date < $3;`,
		tenantID, start, end,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count journal entries for numbering", err)
	}
	return count + 1, nil
}

// SaveJournalEntry inserts the entry header and its lines.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	q := r.db(ctx)

	headerQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := q.Exec(ctx, headerQuery,
		m.EntryID,
		m.TenantID,
		m.EntryNumber,
		m.EntryDate,
		m.Narration,
		m.Status,
		nullString(m.SourceType),
		nullString(m.SourceID),
		m.ReversesEntryID,
		m.ReversedByEntryID,
		m.FinancialYear,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryNumber, mapNumberingError(err, "journal_entries_tenant_number_key"))
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO ledger_lines (` + lineColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for i, line := range entry.Lines {
		lm := mapping.ToModelLedgerLine(line)
		batch.Queue(lineQuery,
			lm.LineID,
			lm.EntryID,
			lm.TenantID,
			lm.AccountID,
			lm.Side,
			lm.Amount,
			lm.LineDate,
			nullString(lm.UnitID),
			nullString(lm.MemberID),
			i,
		)
	}
	br := q.SendBatch(ctx, batch)
	// Important: Close the batch results to check for errors in each command
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger lines for entry "+m.EntryNumber, mapPgError(err))
	}
	return nil
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var sourceType, sourceID sql.NullString
	var reverses, reversedBy sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Narration,
		&m.Status,
		&sourceType,
		&sourceID,
		&reverses,
		&reversedBy,
		&m.FinancialYear,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	m.SourceType = sourceType.String
	m.SourceID = sourceID.String
	if reverses.Valid {
		m.ReversesEntryID = &reverses.String
	}
	if reversedBy.Valid {
		m.ReversedByEntryID = &reversedBy.String
	}
	return m, nil
}

// FindJournalEntryByID retrieves an entry and its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2;`
	m, err := scanEntry(r.db(ctx).QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}

	lines, err := r.findLinesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m)
	entry.Lines = lines[entryID]
	return &entry, nil
}

func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.LedgerLine, error) {
	result := make(map[string][]domain.LedgerLine, len(entryIDs))
	if len(entryIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + lineColumns + ` FROM ledger_lines WHERE entry_id = ANY($1) ORDER BY entry_id, position;`
	rows, err := r.db(ctx).Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.LedgerLine
		var unitID, memberID sql.NullString
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.TenantID, &l.AccountID, &l.Side, &l.Amount, &l.LineDate, &unitID, &memberID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger line", err)
		}
		l.UnitID = unitID.String
		l.MemberID = memberID.String
		result[l.EntryID] = append(result[l.EntryID], mapping.ToDomainLedgerLine(l))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger lines", err)
	}
	return result, nil
}

// ListJournalEntries retrieves a page of a tenant's entries using token-based pagination.
// The token encodes the entry date and creation time of the last entry returned.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	args := []any{tenantID}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		// Tuple comparison is concise and efficient in Postgres
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row for tenant "+tenantID, scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows for tenant "+tenantID, err)
	}
	rows.Close()

	var nextTokenVal *string
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		newToken := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &newToken
		modelEntries = modelEntries[:limit]
	}

	ids := make([]string, len(modelEntries))
	for i, m := range modelEntries {
		ids[i] = m.EntryID
	}
	lines, err := r.findLinesByEntryIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m)
		entries[i].Lines = lines[m.EntryID]
	}
	return entries, nextTokenVal, nil
}

// SumAccountLines totals the debit and credit lines of an account.
func (r *PgxJournalRepository) SumAccountLines(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN side = 'DEBIT' THEN amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN side = 'CREDIT' THEN amount ELSE 0 END), 0) AS total_credit
		FROM ledger_lines
		WHERE tenant_id = $1 AND account_id = $2 AND ($3::date IS NULL OR line_date <= $3::date);
	`
	var debit, credit decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, tenantID, accountID, asOf).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum ledger lines for account "+accountID, err)
	}
	return debit, credit, nil
}

// SumUnitLines totals an account's lines tagged with one unit.
func (r *PgxJournalRepository) SumUnitLines(ctx context.Context, tenantID string, accountID string, unitID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN side = 'DEBIT' THEN amount ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN side = 'CREDIT' THEN amount ELSE 0 END), 0) AS total_credit
		FROM ledger_lines
		WHERE tenant_id = $1 AND account_id = $2 AND unit_id = $3 AND ($4::date IS NULL OR line_date <= $4::date);
	`
	var debit, credit decimal.Decimal
	if err := r.db(ctx).QueryRow(ctx, query, tenantID, accountID, unitID, asOf).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum ledger lines for unit "+unitID, err)
	}
	return debit, credit, nil
}

// OutstandingByUnit returns debit - credit of an account grouped by unit.
func (r *PgxJournalRepository) OutstandingByUnit(ctx context.Context, tenantID string, accountID string) ([]domain.UnitOutstanding, error) {
	query := `
		SELECT unit_id, SUM(CASE WHEN side = 'DEBIT' THEN amount ELSE -amount END) AS outstanding
		FROM ledger_lines
		WHERE tenant_id = $1 AND account_id = $2 AND unit_id IS NOT NULL
		GROUP BY unit_id
		ORDER BY unit_id;
	`
	rows, err := r.db(ctx).Query(ctx, query, tenantID, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query outstanding by unit", err)
	}
	defer rows.Close()

	result := []domain.UnitOutstanding{}
	for rows.Next() {
		var row domain.UnitOutstanding
		if err := rows.Scan(&row.UnitID, &row.Outstanding); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan outstanding row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating outstanding rows", err)
	}
	return result, nil
}

// AccountHasLines reports whether any ledger line references the account.
func (r *PgxJournalRepository) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	if err := r.db(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_lines WHERE account_id = $1);`, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check ledger lines for account "+accountID, err)
	}
	return exists, nil
}
