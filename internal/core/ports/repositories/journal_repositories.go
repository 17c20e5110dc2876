package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry and its lines.
	FindJournalEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of a tenant's entries, newest first, using token-based pagination.
	ListJournalEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// NextEntrySequence returns 1 + the number of the tenant's entries dated in the
	// same year-month as entryDate. Inside a transaction the period stays locked
	// until commit so concurrent callers get distinct numbers.
	NextEntrySequence(ctx context.Context, tenantID string, entryDate time.Time) (int, error)

	// SaveJournalEntry inserts an entry and all of its lines.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error
}

// LedgerAggregator derives balances from ledger lines. Nothing is cached.
type LedgerAggregator interface {
	// SumAccountLines totals the debit and credit lines of an account, optionally up to asOf.
	SumAccountLines(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (debit decimal.Decimal, credit decimal.Decimal, err error)

	// SumUnitLines totals an account's lines tagged with one unit.
	SumUnitLines(ctx context.Context, tenantID string, accountID string, unitID string, asOf *time.Time) (debit decimal.Decimal, credit decimal.Decimal, err error)

	// OutstandingByUnit returns debit - credit of an account for every unit with activity on it.
	OutstandingByUnit(ctx context.Context, tenantID string, accountID string) ([]domain.UnitOutstanding, error)

	// AccountHasLines reports whether any ledger line references the account.
	AccountHasLines(ctx context.Context, accountID string) (bool, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerAggregator
}
