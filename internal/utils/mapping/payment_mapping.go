package mapping

import (
	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:       d.PaymentID,
		TenantID:        d.TenantID,
		InvoiceID:       d.InvoiceID,
		UnitID:          d.UnitID,
		MemberID:        d.MemberID,
		ReceiptNumber:   d.ReceiptNumber,
		Amount:          d.Amount,
		PaymentDate:     d.PaymentDate,
		PaymentMethod:   string(d.PaymentMethod),
		ReferenceNumber: d.ReferenceNumber,
		Notes:           d.Notes,
		JournalEntryID:  d.JournalEntryID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:       m.PaymentID,
		TenantID:        m.TenantID,
		InvoiceID:       m.InvoiceID,
		UnitID:          m.UnitID,
		MemberID:        m.MemberID,
		ReceiptNumber:   m.ReceiptNumber,
		Amount:          m.Amount,
		PaymentDate:     m.PaymentDate,
		PaymentMethod:   domain.PaymentMethod(m.PaymentMethod),
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		JournalEntryID:  m.JournalEntryID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
