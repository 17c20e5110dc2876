package dto

import (
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertBillingConfigRequest sets a tenant's billing calendar and interest terms.
type UpsertBillingConfigRequest struct {
	DueDay              int             `json:"dueDay" binding:"required,min=1,max=31"`
	InterestRatePercent decimal.Decimal `json:"interestRatePercent" swaggertype:"string"`
	GraceDays           int             `json:"graceDays" binding:"min=0,max=365"`
}

// CreateChargeHeadRequest defines a new charge head.
type CreateChargeHeadRequest struct {
	Name            string                 `json:"name" binding:"required"`
	CalculationType domain.CalculationType `json:"calculationType" binding:"required,oneof=PER_SQFT FLAT_RATE PERCENTAGE"`
	Rate            decimal.Decimal        `json:"rate" swaggertype:"string" binding:"required"`
	GSTApplicable   bool                   `json:"gstApplicable"`
	GSTRate         decimal.Decimal        `json:"gstRate" swaggertype:"string"`
	IncomeAccountID string                 `json:"incomeAccountID"` // defaults to maintenance income
	SortOrder       int                    `json:"sortOrder"`
}

// MemberRequest describes the resident to attach to a unit.
type MemberRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// CreateUnitRequest defines a new unit, optionally with its active member.
type CreateUnitRequest struct {
	UnitNumber string          `json:"unitNumber" binding:"required"`
	AreaSqft   decimal.Decimal `json:"areaSqft" swaggertype:"string"`
	IsBillable *bool           `json:"isBillable"` // defaults to true
	Member     *MemberRequest  `json:"member"`
}

// SetRateOverrideRequest replaces a charge head's rate for one unit.
type SetRateOverrideRequest struct {
	ChargeHeadID string          `json:"chargeHeadID" binding:"required"`
	Rate         *decimal.Decimal `json:"rate" swaggertype:"string"` // 0 waives the head for the unit
}

// GenerateInvoicesRequest asks for a month's invoices to be generated.
type GenerateInvoicesRequest struct {
	Month       int        `json:"month" binding:"required,min=1,max=12"`
	Year        int        `json:"year" binding:"required,min=2000,max=2100"`
	InvoiceDate *time.Time `json:"invoiceDate"`
}

// GenerateInvoicesResponse reports the invoices created by a run.
type GenerateInvoicesResponse struct {
	Count      int      `json:"count"`
	InvoiceIDs []string `json:"invoiceIDs"`
}

// PartialGenerationResponse is returned when a run stopped after committing some invoices.
type PartialGenerationResponse struct {
	Error      string   `json:"error"`
	InvoiceIDs []string `json:"invoiceIDs"`
}

// InvoiceLineResponse is one line of an invoice.
type InvoiceLineResponse struct {
	ChargeHeadID string          `json:"chargeHeadID"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string"`
	GSTRate      decimal.Decimal `json:"gstRate" swaggertype:"string"`
	GSTAmount    decimal.Decimal `json:"gstAmount" swaggertype:"string"`
	LineTotal    decimal.Decimal `json:"lineTotal" swaggertype:"string"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID       string                `json:"invoiceID"`
	InvoiceNumber   string                `json:"invoiceNumber"`
	UnitID          string                `json:"unitID"`
	MemberID        string                `json:"memberID"`
	BillingMonth    int                   `json:"billingMonth"`
	BillingYear     int                   `json:"billingYear"`
	InvoiceDate     time.Time             `json:"invoiceDate"`
	DueDate         time.Time             `json:"dueDate"`
	Subtotal        decimal.Decimal       `json:"subtotal" swaggertype:"string"`
	GSTAmount       decimal.Decimal       `json:"gstAmount" swaggertype:"string"`
	InterestAmount  decimal.Decimal       `json:"interestAmount" swaggertype:"string"`
	PreviousBalance decimal.Decimal       `json:"previousBalance" swaggertype:"string"`
	TotalAmount     decimal.Decimal       `json:"totalAmount" swaggertype:"string"`
	PaidAmount      decimal.Decimal       `json:"paidAmount" swaggertype:"string"`
	BalanceDue      decimal.Decimal       `json:"balanceDue" swaggertype:"string"`
	Status          domain.InvoiceStatus  `json:"status"`
	JournalEntryID  string                `json:"journalEntryID"`
	Lines           []InvoiceLineResponse `json:"lines"`
}

// ToInvoiceResponse converts a domain.Invoice to its DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			ChargeHeadID: l.ChargeHeadID,
			Description:  l.Description,
			Amount:       l.Amount,
			GSTRate:      l.GSTRate,
			GSTAmount:    l.GSTAmount,
			LineTotal:    l.LineTotal,
		}
	}
	return InvoiceResponse{
		InvoiceID:       inv.InvoiceID,
		InvoiceNumber:   inv.InvoiceNumber,
		UnitID:          inv.UnitID,
		MemberID:        inv.MemberID,
		BillingMonth:    inv.BillingMonth,
		BillingYear:     inv.BillingYear,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		Subtotal:        inv.Subtotal,
		GSTAmount:       inv.GSTAmount,
		InterestAmount:  inv.InterestAmount,
		PreviousBalance: inv.PreviousBalance,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		BalanceDue:      inv.BalanceDue,
		Status:          inv.Status,
		JournalEntryID:  inv.JournalEntryID,
		Lines:           lines,
	}
}

// ListInvoicesParams selects a billing period.
type ListInvoicesParams struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
}

// ListInvoicesResponse wraps a period's invoices.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}
