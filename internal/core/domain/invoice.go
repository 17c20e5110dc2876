package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks how much of an invoice has been settled.
type InvoiceStatus string

const (
	InvoiceUnpaid        InvoiceStatus = "UNPAID"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
)

// Invoice is a unit's monthly bill. Its amount fields are a snapshot kept in
// step with the receivable lines posted for it; the ledger stays authoritative.
type Invoice struct {
	InvoiceID       string          `json:"invoiceID"`
	TenantID        string          `json:"tenantID"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	UnitID          string          `json:"unitID"`
	MemberID        string          `json:"memberID"`
	BillingMonth    int             `json:"billingMonth"`
	BillingYear     int             `json:"billingYear"`
	InvoiceDate     time.Time       `json:"invoiceDate"`
	DueDate         time.Time       `json:"dueDate"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	GSTAmount       decimal.Decimal `json:"gstAmount"`
	InterestAmount  decimal.Decimal `json:"interestAmount"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	BalanceDue      decimal.Decimal `json:"balanceDue"`
	Status          InvoiceStatus   `json:"status"`
	JournalEntryID  string          `json:"journalEntryID"`
	Lines           []InvoiceLine   `json:"lines"`
	AuditFields
}

// InvoiceLine is one charge head's contribution to an invoice.
type InvoiceLine struct {
	LineID       string          `json:"lineID"`
	InvoiceID    string          `json:"invoiceID"`
	ChargeHeadID string          `json:"chargeHeadID"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	GSTRate      decimal.Decimal `json:"gstRate"`
	GSTAmount    decimal.Decimal `json:"gstAmount"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

// settledTolerance is the residual below which an invoice counts as paid.
var settledTolerance = decimal.NewFromFloat(0.01)

// ApplyPayment updates the snapshot from its current values for a payment of amount.
// The balance never goes below zero; any excess is returned.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) (excess decimal.Decimal) {
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	remaining := inv.BalanceDue.Sub(amount)
	if remaining.IsNegative() {
		excess = remaining.Neg()
		remaining = decimal.Zero
	}
	inv.BalanceDue = remaining

	switch {
	case inv.BalanceDue.LessThanOrEqual(settledTolerance):
		inv.Status = InvoicePaid
	case inv.PaidAmount.IsPositive():
		inv.Status = InvoicePartiallyPaid
	}
	return excess
}

// UnitReconciliation compares a unit's invoice snapshots against the ledger.
type UnitReconciliation struct {
	UnitID            string          `json:"unitID"`
	InvoiceBalanceDue decimal.Decimal `json:"invoiceBalanceDue"`
	LedgerOutstanding decimal.Decimal `json:"ledgerOutstanding"`
	Difference        decimal.Decimal `json:"difference"` // ledger - invoices
	InSync            bool            `json:"inSync"`
}
