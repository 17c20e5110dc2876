package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod records how a manual payment was received.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodUPI          PaymentMethod = "UPI"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCard         PaymentMethod = "CARD"
	MethodOther        PaymentMethod = "OTHER"
)

// Payment is a recorded settlement against an invoice.
type Payment struct {
	PaymentID       string          `json:"paymentID"`
	TenantID        string          `json:"tenantID"`
	InvoiceID       string          `json:"invoiceID"`
	UnitID          string          `json:"unitID"`
	MemberID        string          `json:"memberID"`
	ReceiptNumber   string          `json:"receiptNumber"` // RCT-YYYYMMDD-####
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"paymentDate"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	JournalEntryID  string          `json:"journalEntryID"`
	AuditFields
}

// ManualPaymentInput is the request to record a payment for an invoice.
type ManualPaymentInput struct {
	TenantID         string
	InvoiceID        string
	Amount           decimal.Decimal
	PaymentDate      time.Time
	PaymentMethod    PaymentMethod
	ReferenceNumber  string
	Notes            string
	DepositAccountID string // defaults to the operating bank account
	CreatedBy        string
}
