package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	PaymentID       string          `db:"payment_id"`
	TenantID        string          `db:"tenant_id"`
	InvoiceID       string          `db:"invoice_id"`
	UnitID          string          `db:"unit_id"`
	MemberID        string          `db:"member_id"`
	ReceiptNumber   string          `db:"receipt_number"`
	Amount          decimal.Decimal `db:"amount"`
	PaymentDate     time.Time       `db:"payment_date"`
	PaymentMethod   string          `db:"payment_method"`
	ReferenceNumber string          `db:"reference_number"`
	Notes           string          `db:"notes"`
	JournalEntryID  string          `db:"journal_entry_id"`
	AuditFields
}
