package mapping

import (
	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/models"
)

// ToModelInvoice converts a domain Invoice header to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:       d.InvoiceID,
		TenantID:        d.TenantID,
		InvoiceNumber:   d.InvoiceNumber,
		UnitID:          d.UnitID,
		MemberID:        d.MemberID,
		BillingMonth:    d.BillingMonth,
		BillingYear:     d.BillingYear,
		InvoiceDate:     d.InvoiceDate,
		DueDate:         d.DueDate,
		Subtotal:        d.Subtotal,
		GSTAmount:       d.GSTAmount,
		InterestAmount:  d.InterestAmount,
		PreviousBalance: d.PreviousBalance,
		TotalAmount:     d.TotalAmount,
		PaidAmount:      d.PaidAmount,
		BalanceDue:      d.BalanceDue,
		Status:          string(d.Status),
		JournalEntryID:  d.JournalEntryID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice without lines
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:       m.InvoiceID,
		TenantID:        m.TenantID,
		InvoiceNumber:   m.InvoiceNumber,
		UnitID:          m.UnitID,
		MemberID:        m.MemberID,
		BillingMonth:    m.BillingMonth,
		BillingYear:     m.BillingYear,
		InvoiceDate:     m.InvoiceDate,
		DueDate:         m.DueDate,
		Subtotal:        m.Subtotal,
		GSTAmount:       m.GSTAmount,
		InterestAmount:  m.InterestAmount,
		PreviousBalance: m.PreviousBalance,
		TotalAmount:     m.TotalAmount,
		PaidAmount:      m.PaidAmount,
		BalanceDue:      m.BalanceDue,
		Status:          domain.InvoiceStatus(m.Status),
		JournalEntryID:  m.JournalEntryID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		LineID:       m.LineID,
		InvoiceID:    m.InvoiceID,
		ChargeHeadID: m.ChargeHeadID,
		Description:  m.Description,
		Amount:       m.Amount,
		GSTRate:      m.GSTRate,
		GSTAmount:    m.GSTAmount,
		LineTotal:    m.LineTotal,
	}
}
