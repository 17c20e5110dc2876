package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names a ledger event published after a successful commit.
type EventType string

const (
	EventJournalPosted    EventType = "journal_entry.posted"
	EventInvoiceGenerated EventType = "invoice.generated"
	EventPaymentRecorded  EventType = "payment.recorded"
	EventAccountsSeeded   EventType = "accounts.seeded"
)

// LedgerEvent is the payload fanned out to subscribers.
type LedgerEvent struct {
	EventType  EventType       `json:"event_type"`
	TenantID   string          `json:"tenant_id"`
	EntityID   string          `json:"entity_id"`
	Reference  string          `json:"reference,omitempty"`
	UnitID     string          `json:"unit_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
