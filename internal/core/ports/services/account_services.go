package services

import (
	"context"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its tenant-unique code.
	GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given tenant.
	ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// SeedDefaultChart installs the standard chart of accounts for a tenant with no
	// accounts. It returns the number of accounts inserted, or 0 if the tenant already had some.
	SeedDefaultChart(ctx context.Context, tenantID string, userID string) (int, error)

	// DeleteAccount removes an account, or disables it when ledger lines reference it.
	DeleteAccount(ctx context.Context, tenantID string, accountID string, userID string) (domain.AccountRemoval, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
