package dto

import (
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerLineRequest is one debit or credit line of a manual journal entry.
type LedgerLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Side      domain.Side     `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" binding:"required,gt=0"`
	UnitID    string          `json:"unitID"`
	MemberID  string          `json:"memberID"`
}

// CreateJournalEntryRequest defines the payload for posting a journal entry.
type CreateJournalEntryRequest struct {
	Date       time.Time           `json:"date" binding:"required"`
	Narration  string              `json:"narration" binding:"required"`
	SourceType domain.SourceType   `json:"sourceType" binding:"omitempty,oneof=INVOICE PAYMENT STOCK_MOVEMENT MANUAL"`
	SourceID   string              `json:"sourceID"`
	Lines      []LedgerLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToJournalEntryInput maps the request onto the ledger's input type.
func (r CreateJournalEntryRequest) ToJournalEntryInput(tenantID, userID string) domain.JournalEntryInput {
	sourceType := r.SourceType
	if sourceType == "" {
		sourceType = domain.SourceManual
	}
	lines := make([]domain.LedgerLineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.LedgerLineInput{
			AccountID: l.AccountID,
			Side:      l.Side,
			Amount:    l.Amount,
			UnitID:    l.UnitID,
			MemberID:  l.MemberID,
		}
	}
	return domain.JournalEntryInput{
		TenantID:   tenantID,
		Date:       r.Date,
		Narration:  r.Narration,
		SourceType: sourceType,
		SourceID:   r.SourceID,
		Lines:      lines,
		CreatedBy:  userID,
	}
}

// LedgerLineResponse defines the data returned for a ledger line.
type LedgerLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Side      domain.Side     `json:"side"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string"`
	UnitID    string          `json:"unitID,omitempty"`
	MemberID  string          `json:"memberID,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string               `json:"entryID"`
	EntryNumber       string               `json:"entryNumber"`
	EntryDate         time.Time            `json:"entryDate"`
	Narration         string               `json:"narration"`
	Status            domain.EntryStatus   `json:"status"`
	SourceType        domain.SourceType    `json:"sourceType,omitempty"`
	SourceID          string               `json:"sourceID,omitempty"`
	ReversesEntryID   *string              `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string              `json:"reversedByEntryID,omitempty"`
	FinancialYear     string               `json:"financialYear"`
	Lines             []LedgerLineResponse `json:"lines"`
	CreatedAt         time.Time            `json:"createdAt"`
	CreatedBy         string               `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]LedgerLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = LedgerLineResponse{
			LineID:    l.LineID,
			AccountID: l.AccountID,
			Side:      l.Side,
			Amount:    l.Amount,
			UnitID:    l.UnitID,
			MemberID:  l.MemberID,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate,
		Narration:         e.Narration,
		Status:            e.Status,
		SourceType:        e.SourceType,
		SourceID:          e.SourceID,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		FinancialYear:     e.FinancialYear,
		Lines:             lines,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=0,max=100"`
	NextToken string `form:"nextToken"`
}

// ListJournalEntriesResponse is a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// AsOfParams carries an optional YYYY-MM-DD cut-off date.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	AccountID   string          `json:"accountID"`
	TotalDebit  decimal.Decimal `json:"totalDebit" swaggertype:"string"`
	TotalCredit decimal.Decimal `json:"totalCredit" swaggertype:"string"`
	Balance     decimal.Decimal `json:"balance" swaggertype:"string"`
	AsOf        string          `json:"asOf,omitempty"`
}

// UnitOutstandingResponse is the receivable balance of one unit.
type UnitOutstandingResponse struct {
	UnitID      string          `json:"unitID"`
	Outstanding decimal.Decimal `json:"outstanding" swaggertype:"string"`
	AsOf        string          `json:"asOf,omitempty"`
}

// OutstandingSummaryResponse lists every unit with receivable activity.
type OutstandingSummaryResponse struct {
	Units []UnitOutstandingResponse `json:"units"`
	Total decimal.Decimal           `json:"total" swaggertype:"string"`
}

// ToOutstandingSummaryResponse converts per-unit outstanding rows to the DTO.
func ToOutstandingSummaryResponse(rows []domain.UnitOutstanding) OutstandingSummaryResponse {
	resp := OutstandingSummaryResponse{
		Units: make([]UnitOutstandingResponse, len(rows)),
		Total: decimal.Zero,
	}
	for i, r := range rows {
		resp.Units[i] = UnitOutstandingResponse{UnitID: r.UnitID, Outstanding: r.Outstanding}
		resp.Total = resp.Total.Add(r.Outstanding)
	}
	return resp
}
