package services

import (
	"context"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalEntry retrieves a specific entry with its lines.
	GetJournalEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of a tenant's entries, newest first.
	ListJournalEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateJournalEntry validates and posts a balanced entry. It joins the
	// caller's transaction when one is active.
	CreateJournalEntry(ctx context.Context, input domain.JournalEntryInput) (*domain.JournalEntry, error)
}

// BalanceCalculatorSvc derives balances from ledger lines
type BalanceCalculatorSvc interface {
	// GetAccountBalance totals an account's lines, optionally up to asOf (inclusive).
	GetAccountBalance(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (*domain.AccountBalance, error)

	// GetUnitOutstanding returns the unit's receivable balance.
	GetUnitOutstanding(ctx context.Context, tenantID string, unitID string, asOf *time.Time) (decimal.Decimal, error)

	// GetTenantOutstandingSummary returns the receivable balance of every unit with activity.
	GetTenantOutstandingSummary(ctx context.Context, tenantID string) ([]domain.UnitOutstanding, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	BalanceCalculatorSvc
}
