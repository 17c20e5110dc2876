package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

// JournalEntry is the header row of a posted entry.
type JournalEntry struct {
	EntryID           string      `db:"entry_id"`
	TenantID          string      `db:"tenant_id"`
	EntryNumber       string      `db:"entry_number"`
	EntryDate         time.Time   `db:"entry_date"`
	Narration         string      `db:"narration"`
	Status            EntryStatus `db:"status"`
	SourceType        string      `db:"source_type"` // Nullable
	SourceID          string      `db:"source_id"`   // Nullable
	ReversesEntryID   *string     `db:"reverses_entry_id"`
	ReversedByEntryID *string     `db:"reversed_by_entry_id"`
	FinancialYear     string      `db:"financial_year"`
	AuditFields
}

// LedgerLine is one debit or credit line of an entry.
type LedgerLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	TenantID  string          `db:"tenant_id"`
	AccountID string          `db:"account_id"`
	Side      string          `db:"side"`
	Amount    decimal.Decimal `db:"amount"`
	LineDate  time.Time       `db:"line_date"`
	UnitID    string          `db:"unit_id"`   // Nullable
	MemberID  string          `db:"member_id"` // Nullable
}
