package services

import (
	"context"

	"github.com/SscSPs/society_ledger/internal/core/domain"
)

// EventPublisher announces committed ledger activity to other systems.
// Delivery is best effort; callers log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close() error
}
