package models

import (
	"github.com/shopspring/decimal"
)

type ChargeHead struct {
	ChargeHeadID    string          `db:"charge_head_id"`
	TenantID        string          `db:"tenant_id"`
	Name            string          `db:"name"`
	CalculationType string          `db:"calculation_type"`
	Rate            decimal.Decimal `db:"rate"`
	GSTApplicable   bool            `db:"gst_applicable"`
	GSTRate         decimal.Decimal `db:"gst_rate"`
	IncomeAccountID string          `db:"income_account_id"` // Nullable
	IsActive        bool            `db:"is_active"`
	SortOrder       int             `db:"sort_order"`
	AuditFields
}

// Unit is a billable flat or shop. Member columns come from a join on unit_members.
type Unit struct {
	UnitID      string          `db:"unit_id"`
	TenantID    string          `db:"tenant_id"`
	UnitNumber  string          `db:"unit_number"`
	AreaSqft    decimal.Decimal `db:"area_sqft"`
	IsBillable  bool            `db:"is_billable"`
	MemberID    string          `db:"member_id"`
	MemberName  string          `db:"member_name"`
	MemberEmail string          `db:"member_email"`
	MemberPhone string          `db:"member_phone"`
	AuditFields
}

type UnitRateOverride struct {
	TenantID     string          `db:"tenant_id"`
	UnitID       string          `db:"unit_id"`
	ChargeHeadID string          `db:"charge_head_id"`
	Rate         decimal.Decimal `db:"rate"`
	AuditFields
}

type BillingConfig struct {
	TenantID            string          `db:"tenant_id"`
	DueDay              int             `db:"due_day"`
	InterestRatePercent decimal.Decimal `db:"interest_rate_percent"`
	GraceDays           int             `db:"grace_days"`
	AuditFields
}
