package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account represents a row of the chart of accounts.
type Account struct {
	AccountID       string      `db:"account_id"`
	TenantID        string      `db:"tenant_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID string      `db:"parent_account_id"` // Nullable
	Level           int         `db:"level"`
	IsSystem        bool        `db:"is_system"`
	IsActive        bool        `db:"is_active"`
	Description     string      `db:"description"`
	AuditFields
}
