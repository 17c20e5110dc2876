package domain

import (
	"fmt"
	"strings"
)

// AccountType defines the fundamental accounting type of an account.
// It is fixed once the account is created.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
	Equity    AccountType = "EQUITY"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Income, Expense, Equity:
		return true
	}
	return false
}

// CodePrefix is the leading digit seeded charts use for accounts of this type.
func (t AccountType) CodePrefix() string {
	switch t {
	case Asset:
		return "1"
	case Liability:
		return "2"
	case Income:
		return "3"
	case Expense:
		return "4"
	case Equity:
		return "5"
	}
	return ""
}

// ParseAccountType normalises a user supplied account type.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// Account is a tenant-scoped node in a chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`
	TenantID        string      `json:"tenantID"`
	Code            string      `json:"code"` // unique within tenant
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID string      `json:"parentAccountID"` // empty for root accounts
	Level           int         `json:"level"`
	IsSystem        bool        `json:"isSystem"` // seeded accounts; cannot be removed
	IsActive        bool        `json:"isActive"`
	Description     string      `json:"description"`
	AuditFields
}

// AccountRemoval describes what happened when an account was removed.
type AccountRemoval string

const (
	// AccountDeleted means the row was removed because nothing referenced it.
	AccountDeleted  AccountRemoval = "deleted"
	// AccountDisabled means ledger lines reference the account so it was only deactivated.
	AccountDisabled AccountRemoval = "disabled"
)

// Well-known codes of the default chart that other components resolve by code.
const (
	CodeCashInHand        = "1100"
	CodeBankOperating     = "1110"
	CodeReceivableMaint   = "1210"
	CodeGSTOutputPayable  = "2200"
	CodeMaintenanceIncome = "3100"
	CodeInterestIncome    = "3200"
)
