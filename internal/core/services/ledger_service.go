package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService posts journal entries and derives balances from their lines.
type ledgerService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewLedgerService creates the ledger core service.
func NewLedgerService(txManager portsrepo.TransactionManager, journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(txManager, options...),
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateJournalEntry validates and posts a balanced entry. Nothing is written
// unless every check passes.
func (s *ledgerService) CreateJournalEntry(ctx context.Context, input domain.JournalEntryInput) (*domain.JournalEntry, error) {
	if err := s.validateEntry(ctx, input); err != nil {
		return nil, err
	}

	start := s.now()
	entryDate := domain.DateOnly(input.Date)
	var entry domain.JournalEntry
	err := s.inTransaction(ctx, func(ctx context.Context) error {
		seq, err := s.journalRepo.NextEntrySequence(ctx, input.TenantID, entryDate)
		if err != nil {
			return fmt.Errorf("failed to allocate entry number: %w", err)
		}

		entry = domain.JournalEntry{
			EntryID:       uuid.NewString(),
			TenantID:      input.TenantID,
			EntryNumber:   domain.EntryNumber(entryDate, seq),
			EntryDate:     entryDate,
			Narration:     input.Narration,
			Status:        domain.Posted,
			SourceType:    input.SourceType,
			SourceID:      input.SourceID,
			FinancialYear: domain.FinancialYear(entryDate),
			AuditFields:   domain.NewAuditFields(input.CreatedBy, s.now()),
		}
		entry.Lines = make([]domain.LedgerLine, len(input.Lines))
		for i, l := range input.Lines {
			entry.Lines[i] = domain.LedgerLine{
				LineID:    uuid.NewString(),
				EntryID:   entry.EntryID,
				TenantID:  input.TenantID,
				AccountID: l.AccountID,
				Side:      l.Side,
				Amount:    l.Amount,
				LineDate:  entryDate,
				UnitID:    l.UnitID,
				MemberID:  l.MemberID,
			}
		}

		if err := s.journalRepo.SaveJournalEntry(ctx, entry); err != nil {
			return fmt.Errorf("failed to save journal entry: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal entry",
			slog.String("tenant_id", input.TenantID),
			slog.String("source_type", string(input.SourceType)),
			slog.String("source_id", input.SourceID))
		return nil, err
	}

	s.afterCommit(ctx, func() {
		s.metrics.JournalPosted(string(entry.SourceType))
		s.metrics.ObserveDuration("create_journal_entry", s.now().Sub(start).Seconds())
	})
	s.publish(ctx, domain.LedgerEvent{
		EventType: domain.EventJournalPosted,
		TenantID:  entry.TenantID,
		EntityID:  entry.EntryID,
		Reference: entry.EntryNumber,
		Amount:    entry.TotalDebit(),
	})
	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.Int("lines", len(entry.Lines)))
	return &entry, nil
}

// validateEntry runs every precondition of CreateJournalEntry without writing.
func (s *ledgerService) validateEntry(ctx context.Context, input domain.JournalEntryInput) error {
	if input.TenantID == "" {
		return fmt.Errorf("%w: tenant is required", apperrors.ErrValidation)
	}
	if input.Date.IsZero() {
		return fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}
	if !input.SourceType.Valid() {
		return fmt.Errorf("%w: unknown source type %q", apperrors.ErrValidation, input.SourceType)
	}
	if err := accounting.ValidateLines(input.Lines); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	accountIDs := make([]string, 0, len(input.Lines))
	seen := make(map[string]bool, len(input.Lines))
	for _, l := range input.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for journal entry",
			slog.String("tenant_id", input.TenantID))
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok || acc.TenantID != input.TenantID {
			return fmt.Errorf("%w: missing required account %s", apperrors.ErrValidation, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
	}

	debits, credits := accounting.SumSides(input.Lines)
	if !accounting.IsBalanced(debits, credits) {
		return fmt.Errorf("%w: debits %s != credits %s", apperrors.ErrUnbalanced, debits.StringFixed(2), credits.StringFixed(2))
	}
	return nil
}

func (s *ledgerService) GetJournalEntry(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, tenantID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry",
				slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListJournalEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}

	entries, next, err := s.journalRepo.ListJournalEntries(ctx, tenantID, limit, token)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journal entries",
				slog.String("tenant_id", tenantID))
		}
		return nil, err
	}

	resp := &dto.ListJournalEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, len(entries)),
		NextToken: next,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	return resp, nil
}

// GetAccountBalance aggregates the account's lines. There is no stored balance.
func (s *ledgerService) GetAccountBalance(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}

	debit, credit, err := s.journalRepo.SumAccountLines(ctx, tenantID, accountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate account lines",
			slog.String("account_id", accountID))
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID:   accountID,
		TotalDebit:  debit,
		TotalCredit: credit,
		Balance:     debit.Sub(credit),
	}, nil
}

// receivableAccount resolves the maintenance receivable account, or nil when
// the tenant has not seeded it.
func (s *ledgerService) receivableAccount(ctx context.Context, tenantID string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByCode(ctx, tenantID, domain.CodeReceivableMaint)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to resolve receivable account", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return acc, nil
}

func (s *ledgerService) GetUnitOutstanding(ctx context.Context, tenantID string, unitID string, asOf *time.Time) (decimal.Decimal, error) {
	ar, err := s.receivableAccount(ctx, tenantID)
	if err != nil {
		return decimal.Zero, err
	}
	if ar == nil {
		return decimal.Zero, nil
	}

	debit, credit, err := s.journalRepo.SumUnitLines(ctx, tenantID, ar.AccountID, unitID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate unit lines",
			slog.String("unit_id", unitID))
		return decimal.Zero, err
	}
	return debit.Sub(credit), nil
}

func (s *ledgerService) GetTenantOutstandingSummary(ctx context.Context, tenantID string) ([]domain.UnitOutstanding, error) {
	ar, err := s.receivableAccount(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if ar == nil {
		return []domain.UnitOutstanding{}, nil
	}

	rows, err := s.journalRepo.OutstandingByUnit(ctx, tenantID, ar.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarise outstanding by unit",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if rows == nil {
		return []domain.UnitOutstanding{}, nil
	}
	return rows, nil
}
