package repositories

import (
	"context"

	"github.com/SscSPs/society_ledger/internal/core/domain"
)

// BillingSetupReader defines reads of the inputs to invoice generation
type BillingSetupReader interface {
	// FindBillingConfig returns the tenant's config or ErrNotFound.
	FindBillingConfig(ctx context.Context, tenantID string) (*domain.BillingConfig, error)

	// ListChargeHeads returns a tenant's charge heads ordered by sort order.
	ListChargeHeads(ctx context.Context, tenantID string, activeOnly bool) ([]domain.ChargeHead, error)

	// FindUnitByID returns a unit with its active member, if any.
	FindUnitByID(ctx context.Context, tenantID string, unitID string) (*domain.Unit, error)

	// ListUnits returns a tenant's units with their active members.
	ListUnits(ctx context.Context, tenantID string, billableOnly bool) ([]domain.Unit, error)

	// ListRateOverrides returns every per-unit rate override of the tenant.
	ListRateOverrides(ctx context.Context, tenantID string) ([]domain.UnitRateOverride, error)
}

// BillingSetupWriter defines writes of billing setup data
type BillingSetupWriter interface {
	SaveBillingConfig(ctx context.Context, cfg domain.BillingConfig) error
	SaveChargeHead(ctx context.Context, head domain.ChargeHead) error
	SaveUnit(ctx context.Context, unit domain.Unit) error
	SaveRateOverride(ctx context.Context, override domain.UnitRateOverride) error
}

// BillingSetupRepositoryFacade combines billing setup reads and writes
type BillingSetupRepositoryFacade interface {
	BillingSetupReader
	BillingSetupWriter
}
