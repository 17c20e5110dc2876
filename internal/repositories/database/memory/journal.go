package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (s *Store) FindJournalEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	var ok bool
	s.read(ctx, func(t *tables) { entry, ok = t.entries[entryID] })
	if !ok || entry.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &entry, nil
}

// entryBefore orders entries newest first.
func entryBefore(a, b domain.JournalEntry) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.After(b.EntryDate)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *Store) ListJournalEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	var cursor *domain.JournalEntry
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		cursor = &domain.JournalEntry{EntryDate: lastDate, AuditFields: domain.AuditFields{CreatedAt: lastCreatedAt}}
	}

	var all []domain.JournalEntry
	s.read(ctx, func(t *tables) {
		for _, e := range t.entries {
			if e.TenantID != tenantID {
				continue
			}
			if cursor != nil && !entryBefore(*cursor, e) {
				continue
			}
			all = append(all, e)
		}
	})
	sort.Slice(all, func(i, j int) bool { return entryBefore(all[i], all[j]) })

	var next *string
	if len(all) > limit {
		last := all[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		next = &token
		all = all[:limit]
	}
	if all == nil {
		all = []domain.JournalEntry{}
	}
	return all, next, nil
}

func (s *Store) NextEntrySequence(ctx context.Context, tenantID string, entryDate time.Time) (int, error) {
	start, end := domain.MonthBounds(entryDate)
	count := 0
	s.read(ctx, func(t *tables) {
		for _, e := range t.entries {
			if e.TenantID == tenantID && !e.EntryDate.Before(start) && e.EntryDate.Before(end) {
				count++
			}
		}
	})
	return count + 1, nil
}

func (s *Store) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	return s.write(ctx, "SaveJournalEntry", func(t *tables) error {
		for _, e := range t.entries {
			if e.TenantID == entry.TenantID && e.EntryNumber == entry.EntryNumber {
				return fmt.Errorf("%w: entry number %s", apperrors.ErrNumberingCollision, entry.EntryNumber)
			}
		}
		for _, l := range entry.Lines {
			if _, ok := t.accounts[l.AccountID]; !ok {
				return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, l.AccountID)
			}
		}
		lines := make([]domain.LedgerLine, len(entry.Lines))
		copy(lines, entry.Lines)
		entry.Lines = lines
		t.entries[entry.EntryID] = entry
		return nil
	})
}

type lineFilter func(domain.LedgerLine) bool

func (s *Store) sumLines(ctx context.Context, tenantID string, keep lineFilter) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	s.read(ctx, func(t *tables) {
		for _, e := range t.entries {
			if e.TenantID != tenantID {
				continue
			}
			for _, l := range e.Lines {
				if !keep(l) {
					continue
				}
				if l.Side == domain.Debit {
					debit = debit.Add(l.Amount)
				} else {
					credit = credit.Add(l.Amount)
				}
			}
		}
	})
	return debit, credit
}

func onOrBefore(asOf *time.Time) func(time.Time) bool {
	if asOf == nil {
		return func(time.Time) bool { return true }
	}
	cutoff := domain.DateOnly(*asOf)
	return func(d time.Time) bool { return !d.After(cutoff) }
}

func (s *Store) SumAccountLines(ctx context.Context, tenantID string, accountID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	inRange := onOrBefore(asOf)
	debit, credit := s.sumLines(ctx, tenantID, func(l domain.LedgerLine) bool {
		return l.AccountID == accountID && inRange(l.LineDate)
	})
	return debit, credit, nil
}

func (s *Store) SumUnitLines(ctx context.Context, tenantID string, accountID string, unitID string, asOf *time.Time) (decimal.Decimal, decimal.Decimal, error) {
	inRange := onOrBefore(asOf)
	debit, credit := s.sumLines(ctx, tenantID, func(l domain.LedgerLine) bool {
		return l.AccountID == accountID && l.UnitID == unitID && inRange(l.LineDate)
	})
	return debit, credit, nil
}

func (s *Store) OutstandingByUnit(ctx context.Context, tenantID string, accountID string) ([]domain.UnitOutstanding, error) {
	totals := map[string]decimal.Decimal{}
	s.read(ctx, func(t *tables) {
		for _, e := range t.entries {
			if e.TenantID != tenantID {
				continue
			}
			for _, l := range e.Lines {
				if l.AccountID != accountID || l.UnitID == "" {
					continue
				}
				amt := l.Amount
				if l.Side == domain.Credit {
					amt = amt.Neg()
				}
				totals[l.UnitID] = totals[l.UnitID].Add(amt)
			}
		}
	})
	out := make([]domain.UnitOutstanding, 0, len(totals))
	for unitID, amt := range totals {
		out = append(out, domain.UnitOutstanding{UnitID: unitID, Outstanding: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out, nil
}

func (s *Store) AccountHasLines(ctx context.Context, accountID string) (bool, error) {
	found := false
	s.read(ctx, func(t *tables) {
		for _, e := range t.entries {
			for _, l := range e.Lines {
				if l.AccountID == accountID {
					found = true
					return
				}
			}
		}
	})
	return found, nil
}
