package mapping

import (
	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		TenantID:          d.TenantID,
		EntryNumber:       d.EntryNumber,
		EntryDate:         d.EntryDate,
		Narration:         d.Narration,
		Status:            models.EntryStatus(d.Status),
		SourceType:        string(d.SourceType),
		SourceID:          d.SourceID,
		ReversesEntryID:   d.ReversesEntryID,
		ReversedByEntryID: d.ReversedByEntryID,
		FinancialYear:     d.FinancialYear,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry without lines
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		TenantID:          m.TenantID,
		EntryNumber:       m.EntryNumber,
		EntryDate:         m.EntryDate,
		Narration:         m.Narration,
		Status:            domain.EntryStatus(m.Status),
		SourceType:        domain.SourceType(m.SourceType),
		SourceID:          m.SourceID,
		ReversesEntryID:   m.ReversesEntryID,
		ReversedByEntryID: m.ReversedByEntryID,
		FinancialYear:     m.FinancialYear,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerLine converts a domain LedgerLine to a model LedgerLine
func ToModelLedgerLine(d domain.LedgerLine) models.LedgerLine {
	return models.LedgerLine{
		LineID:    d.LineID,
		EntryID:   d.EntryID,
		TenantID:  d.TenantID,
		AccountID: d.AccountID,
		Side:      string(d.Side),
		Amount:    d.Amount,
		LineDate:  d.LineDate,
		UnitID:    d.UnitID,
		MemberID:  d.MemberID,
	}
}

// ToDomainLedgerLine converts a model LedgerLine to a domain LedgerLine
func ToDomainLedgerLine(m models.LedgerLine) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:    m.LineID,
		EntryID:   m.EntryID,
		TenantID:  m.TenantID,
		AccountID: m.AccountID,
		Side:      domain.Side(m.Side),
		Amount:    m.Amount,
		LineDate:  m.LineDate,
		UnitID:    m.UnitID,
		MemberID:  m.MemberID,
	}
}
