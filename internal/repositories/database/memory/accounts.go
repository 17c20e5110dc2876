package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
)

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var acc domain.Account
	var ok bool
	s.read(ctx, func(t *tables) { acc, ok = t.accounts[accountID] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	var found *domain.Account
	s.read(ctx, func(t *tables) {
		for _, acc := range t.accounts {
			if acc.TenantID == tenantID && acc.Code == code {
				a := acc
				found = &a
				return
			}
		}
	})
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	s.read(ctx, func(t *tables) {
		for _, id := range accountIDs {
			if acc, ok := t.accounts[id]; ok {
				out[id] = acc
			}
		}
	})
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	var all []domain.Account
	s.read(ctx, func(t *tables) {
		for _, acc := range t.accounts {
			if acc.TenantID == tenantID {
				all = append(all, acc)
			}
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	if offset >= len(all) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *Store) TenantHasAccounts(ctx context.Context, tenantID string) (bool, error) {
	var exists bool
	s.read(ctx, func(t *tables) {
		for _, acc := range t.accounts {
			if acc.TenantID == tenantID {
				exists = true
				return
			}
		}
	})
	return exists, nil
}

func insertAccount(t *tables, account domain.Account) error {
	if _, ok := t.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, acc := range t.accounts {
		if acc.TenantID == account.TenantID && acc.Code == account.Code {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
	}
	if account.ParentAccountID != "" {
		if _, ok := t.accounts[account.ParentAccountID]; !ok {
			return fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, account.ParentAccountID)
		}
	}
	t.accounts[account.AccountID] = account
	return nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.write(ctx, "SaveAccount", func(t *tables) error {
		return insertAccount(t, account)
	})
}

// SaveAccounts inserts all accounts or none of them.
func (s *Store) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	return s.write(ctx, "SaveAccounts", func(t *tables) error {
		staged := tables{accounts: cloneMap(t.accounts)}
		for _, acc := range accounts {
			if err := insertAccount(&staged, acc); err != nil {
				return err
			}
		}
		t.accounts = staged.accounts
		return nil
	})
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return s.write(ctx, "DeactivateAccount", func(t *tables) error {
		acc, ok := t.accounts[accountID]
		if !ok {
			return apperrors.ErrNotFound
		}
		acc.IsActive = false
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = userID
		t.accounts[accountID] = acc
		return nil
	})
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	return s.write(ctx, "DeleteAccount", func(t *tables) error {
		if _, ok := t.accounts[accountID]; !ok {
			return apperrors.ErrNotFound
		}
		for _, acc := range t.accounts {
			if acc.ParentAccountID == accountID {
				return fmt.Errorf("%w: account %s has child accounts", apperrors.ErrValidation, accountID)
			}
		}
		delete(t.accounts, accountID)
		return nil
	})
}
