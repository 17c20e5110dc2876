package dto

import (
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest defines a manual payment against an invoice.
type RecordPaymentRequest struct {
	InvoiceID        string               `json:"invoiceID" binding:"required"`
	Amount           decimal.Decimal      `json:"amount" swaggertype:"string" binding:"required,gt=0"`
	PaymentDate      time.Time            `json:"paymentDate" binding:"required"`
	PaymentMethod    domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=CASH CHEQUE UPI BANK_TRANSFER CARD OTHER"`
	ReferenceNumber  string               `json:"referenceNumber"`
	Notes            string               `json:"notes"`
	DepositAccountID string               `json:"depositAccountID"`
}

// ToManualPaymentInput maps the request onto the payment recorder's input type.
func (r RecordPaymentRequest) ToManualPaymentInput(tenantID, userID string) domain.ManualPaymentInput {
	return domain.ManualPaymentInput{
		TenantID:         tenantID,
		InvoiceID:        r.InvoiceID,
		Amount:           r.Amount,
		PaymentDate:      r.PaymentDate,
		PaymentMethod:    r.PaymentMethod,
		ReferenceNumber:  r.ReferenceNumber,
		Notes:            r.Notes,
		DepositAccountID: r.DepositAccountID,
		CreatedBy:        userID,
	}
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID       string               `json:"paymentID"`
	InvoiceID       string               `json:"invoiceID"`
	UnitID          string               `json:"unitID"`
	MemberID        string               `json:"memberID"`
	ReceiptNumber   string               `json:"receiptNumber"`
	Amount          decimal.Decimal      `json:"amount" swaggertype:"string"`
	PaymentDate     time.Time            `json:"paymentDate"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	ReferenceNumber string               `json:"referenceNumber,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	JournalEntryID  string               `json:"journalEntryID"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
}

// ToPaymentResponse converts a domain.Payment to its DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:       p.PaymentID,
		InvoiceID:       p.InvoiceID,
		UnitID:          p.UnitID,
		MemberID:        p.MemberID,
		ReceiptNumber:   p.ReceiptNumber,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		JournalEntryID:  p.JournalEntryID,
		CreatedAt:       p.CreatedAt,
		CreatedBy:       p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of payments.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	res := make([]PaymentResponse, len(payments))
	for i := range payments {
		res[i] = ToPaymentResponse(&payments[i])
	}
	return res
}
