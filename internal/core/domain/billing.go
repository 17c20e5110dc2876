package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationType selects how a charge head turns its rate into an amount.
type CalculationType string

const (
	PerSqft    CalculationType = "PER_SQFT"
	FlatRate   CalculationType = "FLAT_RATE"
	Percentage CalculationType = "PERCENTAGE" // billed as a flat amount for now
)

// Valid reports whether c is a known calculation type.
func (c CalculationType) Valid() bool {
	switch c {
	case PerSqft, FlatRate, Percentage:
		return true
	}
	return false
}

// ChargeHead is a named, rated rule producing one component of a monthly invoice.
type ChargeHead struct {
	ChargeHeadID    string          `json:"chargeHeadID"`
	TenantID        string          `json:"tenantID"`
	Name            string          `json:"name"`
	CalculationType CalculationType `json:"calculationType"`
	Rate            decimal.Decimal `json:"rate"`
	GSTApplicable   bool            `json:"gstApplicable"`
	GSTRate         decimal.Decimal `json:"gstRate"` // percent
	IncomeAccountID string          `json:"incomeAccountID,omitempty"`
	IsActive        bool            `json:"isActive"`
	SortOrder       int             `json:"sortOrder"`
	AuditFields
}

// Member is a resident billed for a unit.
type Member struct {
	MemberID string `json:"memberID"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Unit is a billable flat or shop within a society.
type Unit struct {
	UnitID       string          `json:"unitID"`
	TenantID     string          `json:"tenantID"`
	UnitNumber   string          `json:"unitNumber"`
	AreaSqft     decimal.Decimal `json:"areaSqft"`
	IsBillable   bool            `json:"isBillable"`
	ActiveMember *Member         `json:"activeMember,omitempty"`
	AuditFields
}

// UnitRateOverride replaces a charge head's rate for one unit.
type UnitRateOverride struct {
	TenantID     string          `json:"tenantID"`
	UnitID       string          `json:"unitID"`
	ChargeHeadID string          `json:"chargeHeadID"`
	Rate         decimal.Decimal `json:"rate"`
	AuditFields
}

// BillingConfig holds a tenant's billing calendar and late-payment terms.
type BillingConfig struct {
	TenantID            string          `json:"tenantID"`
	DueDay              int             `json:"dueDay"`
	InterestRatePercent decimal.Decimal `json:"interestRatePercent"` // annual
	GraceDays           int             `json:"graceDays"`
	AuditFields
}

// DefaultBillingConfig is used for tenants that never stored a config.
func DefaultBillingConfig(tenantID string) BillingConfig {
	return BillingConfig{
		TenantID:            tenantID,
		DueDay:              10,
		InterestRatePercent: decimal.Zero,
		GraceDays:           0,
	}
}

// DueDate returns the due date for the given billing period. Due days past the
// end of a short month clamp to its last day.
func (c BillingConfig) DueDate(year int, month time.Month) time.Time {
	day := c.DueDay
	if day < 1 {
		day = 1
	}
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// GenerationRequest asks the billing engine to invoice one period.
type GenerationRequest struct {
	TenantID    string
	Month       time.Month
	Year        int
	CreatedBy   string
	InvoiceDate *time.Time // defaults to the first day of the period
}

// GenerationResult reports the invoices created by a run.
type GenerationResult struct {
	Count      int      `json:"count"`
	InvoiceIDs []string `json:"invoiceIDs"`
}
