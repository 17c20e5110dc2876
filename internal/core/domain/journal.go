package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// Side tags a ledger line as a debit or a credit.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// Valid reports whether s is DEBIT or CREDIT.
func (s Side) Valid() bool {
	return s == Debit || s == Credit
}

// SourceType names the kind of record that caused a journal entry.
// Together with SourceID it forms a weak reference that the ledger never follows.
type SourceType string

const (
	SourceInvoice       SourceType = "INVOICE"
	SourcePayment       SourceType = "PAYMENT"
	SourceStockMovement SourceType = "STOCK_MOVEMENT"
	SourceManual        SourceType = "MANUAL"
)

// Valid reports whether t is a known source kind. The empty value is allowed.
func (t SourceType) Valid() bool {
	switch t {
	case "", SourceInvoice, SourcePayment, SourceStockMovement, SourceManual:
		return true
	}
	return false
}

// JournalEntry is an atomic, dated financial event made of balanced ledger lines.
// Once posted its lines never change; corrections are new reversing entries.
type JournalEntry struct {
	EntryID           string       `json:"entryID"`
	TenantID          string       `json:"tenantID"`
	EntryNumber       string       `json:"entryNumber"` // JE-YYYYMM-####
	EntryDate         time.Time    `json:"entryDate"`
	Narration         string       `json:"narration"`
	Status            EntryStatus  `json:"status"`
	SourceType        SourceType   `json:"sourceType,omitempty"`
	SourceID          string       `json:"sourceID,omitempty"`
	ReversesEntryID   *string      `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string      `json:"reversedByEntryID,omitempty"`
	FinancialYear     string       `json:"financialYear"`
	Lines             []LedgerLine `json:"lines"`
	AuditFields
}

// TotalDebit sums the debit lines of the entry.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		if l.Side == Debit {
			total = total.Add(l.Amount)
		}
	}
	return total
}

// LedgerLine is one debit or credit posting belonging to exactly one journal entry.
type LedgerLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	TenantID  string          `json:"tenantID"`
	AccountID string          `json:"accountID"`
	Side      Side            `json:"side"`
	Amount    decimal.Decimal `json:"amount"`   // always > 0
	LineDate  time.Time       `json:"lineDate"` // copy of the entry date
	UnitID    string          `json:"unitID,omitempty"`
	MemberID  string          `json:"memberID,omitempty"`
}

// LedgerLineInput describes a line to be posted.
type LedgerLineInput struct {
	AccountID string
	Side      Side
	Amount    decimal.Decimal
	UnitID    string
	MemberID  string
}

// JournalEntryInput is what the money-moving workflows hand to the ledger.
type JournalEntryInput struct {
	TenantID   string
	Date       time.Time
	Narration  string
	SourceType SourceType
	SourceID   string
	Lines      []LedgerLineInput
	CreatedBy  string
}

// AccountBalance is the aggregate of all lines posted to one account.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"` // TotalDebit - TotalCredit
}

// UnitOutstanding is the receivable balance of a single unit.
type UnitOutstanding struct {
	UnitID      string          `json:"unitID"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// EntryNumber formats a journal entry number for the given date and sequence.
func EntryNumber(date time.Time, seq int) string {
	return fmt.Sprintf("JE-%s-%04d", date.Format("200601"), seq)
}

// ReceiptNumber formats a payment receipt number for the given date and sequence.
func ReceiptNumber(date time.Time, seq int) string {
	return fmt.Sprintf("RCT-%s-%04d", date.Format("20060102"), seq)
}

// InvoiceNumber formats an invoice number for a billing period and run sequence.
func InvoiceNumber(year int, month time.Month, seq int) string {
	return fmt.Sprintf("INV-%04d%02d-%04d", year, int(month), seq)
}

// FinancialYear returns the April-March financial year label for t, e.g. "2024-25".
func FinancialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// MonthBounds returns [first day of t's month, first day of next month).
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
