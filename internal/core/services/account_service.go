package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.LedgerAggregator
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(txManager portsrepo.TransactionManager, repo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.LedgerAggregator, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(txManager, options...),
		accountRepo: repo,
		journalRepo: journalRepo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	accountType, err := domain.ParseAccountType(string(req.AccountType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}

	level := 1
	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		// Validate parent account exists and belongs to same tenant
		parentAccount, err := s.accountRepo.FindAccountByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, parentID)
			}
			s.LogError(ctx, err, "Failed to find parent account",
				slog.String("parent_id", parentID))
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		if parentAccount.TenantID != tenantID {
			s.LogDebug(ctx, "Parent account belongs to different tenant",
				slog.String("parent_tenant", parentAccount.TenantID),
				slog.String("requested_tenant", tenantID))
			return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, parentID)
		}
		level = parentAccount.Level + 1
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            code,
		Name:            req.Name,
		AccountType:     accountType,
		ParentAccountID: parentID,
		Level:           level,
		IsActive:        true,
		Description:     req.Description,
		AuditFields:     domain.NewAuditFields(userID, s.now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

// SeedDefaultChart inserts domain.DefaultChart for a tenant that has no accounts yet.
func (s *accountService) SeedDefaultChart(ctx context.Context, tenantID string, userID string) (int, error) {
	inserted := 0
	err := s.inTransaction(ctx, func(ctx context.Context) error {
		hasAccounts, err := s.accountRepo.TenantHasAccounts(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to check existing accounts: %w", err)
		}
		if hasAccounts {
			return nil
		}

		now := s.now()
		accounts := make([]domain.Account, 0, len(domain.DefaultChart))
		byCode := make(map[string]domain.Account, len(domain.DefaultChart))
		for _, entry := range domain.DefaultChart {
			acc := domain.Account{
				AccountID:   uuid.NewString(),
				TenantID:    tenantID,
				Code:        entry.Code,
				Name:        entry.Name,
				AccountType: entry.Type,
				Level:       1,
				IsSystem:    true,
				IsActive:    true,
				AuditFields: domain.NewAuditFields(userID, now),
			}
			if entry.ParentCode != "" {
				parent, ok := byCode[entry.ParentCode]
				if !ok {
					return fmt.Errorf("%w: chart parent %s listed after %s", apperrors.ErrInternal, entry.ParentCode, entry.Code)
				}
				acc.ParentAccountID = parent.AccountID
				acc.Level = parent.Level + 1
			}
			byCode[acc.Code] = acc
			accounts = append(accounts, acc)
		}

		if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
			return fmt.Errorf("failed to insert default chart: %w", err)
		}
		inserted = len(accounts)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed default chart", slog.String("tenant_id", tenantID))
		return 0, err
	}

	if inserted == 0 {
		s.LogDebug(ctx, "Tenant already has accounts, skipping seed", slog.String("tenant_id", tenantID))
		return 0, nil
	}
	s.publish(ctx, domain.LedgerEvent{
		EventType: domain.EventAccountsSeeded,
		TenantID:  tenantID,
		EntityID:  tenantID,
		Amount:    decimal.Zero,
	})
	s.LogInfo(ctx, "Default chart seeded",
		slog.String("tenant_id", tenantID),
		slog.Int("accounts", inserted))
	return inserted, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}

	if account.TenantID != tenantID {
		s.LogDebug(ctx, "Account found but belongs to different tenant",
			slog.String("account_id", accountID),
			slog.String("account_tenant", account.TenantID),
			slog.String("requested_tenant", tenantID))
		// Return NotFound to obscure existence from other tenants
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code",
				slog.String("code", code),
				slog.String("tenant_id", tenantID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("tenant_id", tenantID),
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts for tenant %s: %w", tenantID, err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// DeleteAccount hard-deletes an unused account. An account that ledger lines
// reference is only deactivated so its history stays intact.
func (s *accountService) DeleteAccount(ctx context.Context, tenantID string, accountID string, userID string) (domain.AccountRemoval, error) {
	var result domain.AccountRemoval
	err := s.inTransaction(ctx, func(ctx context.Context) error {
		account, err := s.GetAccountByID(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		if account.IsSystem {
			return fmt.Errorf("%w: system account %s cannot be removed", apperrors.ErrValidation, account.Code)
		}

		used, err := s.journalRepo.AccountHasLines(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to check account usage: %w", err)
		}
		if used {
			if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.now()); err != nil {
				return err
			}
			result = domain.AccountDisabled
			return nil
		}

		if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
			return err
		}
		result = domain.AccountDeleted
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to remove account",
				slog.String("account_id", accountID),
				slog.String("tenant_id", tenantID))
		}
		return "", err
	}

	s.LogInfo(ctx, "Account removed",
		slog.String("account_id", accountID),
		slog.String("result", string(result)))
	return result, nil
}
