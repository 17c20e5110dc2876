package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Invoice struct {
	InvoiceID       string          `db:"invoice_id"`
	TenantID        string          `db:"tenant_id"`
	InvoiceNumber   string          `db:"invoice_number"`
	UnitID          string          `db:"unit_id"`
	MemberID        string          `db:"member_id"`
	BillingMonth    int             `db:"billing_month"`
	BillingYear     int             `db:"billing_year"`
	InvoiceDate     time.Time       `db:"invoice_date"`
	DueDate         time.Time       `db:"due_date"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	GSTAmount       decimal.Decimal `db:"gst_amount"`
	InterestAmount  decimal.Decimal `db:"interest_amount"`
	PreviousBalance decimal.Decimal `db:"previous_balance"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	BalanceDue      decimal.Decimal `db:"balance_due"`
	Status          string          `db:"status"`
	JournalEntryID  string          `db:"journal_entry_id"`
	AuditFields
}

type InvoiceLine struct {
	LineID       string          `db:"line_id"`
	InvoiceID    string          `db:"invoice_id"`
	ChargeHeadID string          `db:"charge_head_id"` // Nullable, interest lines have none
	Description  string          `db:"description"`
	Amount       decimal.Decimal `db:"amount"`
	GSTRate      decimal.Decimal `db:"gst_rate"`
	GSTAmount    decimal.Decimal `db:"gst_amount"`
	LineTotal    decimal.Decimal `db:"line_total"`
}
