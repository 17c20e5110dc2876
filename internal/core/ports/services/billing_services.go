package services

import (
	"context"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/dto"
)

// BillingSetupSvc manages the inputs of invoice generation
type BillingSetupSvc interface {
	UpsertBillingConfig(ctx context.Context, tenantID string, req dto.UpsertBillingConfigRequest, userID string) (*domain.BillingConfig, error)
	// GetBillingConfig returns the stored config or the defaults when none was saved.
	GetBillingConfig(ctx context.Context, tenantID string) (*domain.BillingConfig, error)
	CreateChargeHead(ctx context.Context, tenantID string, req dto.CreateChargeHeadRequest, userID string) (*domain.ChargeHead, error)
	ListChargeHeads(ctx context.Context, tenantID string) ([]domain.ChargeHead, error)
	CreateUnit(ctx context.Context, tenantID string, req dto.CreateUnitRequest, userID string) (*domain.Unit, error)
	ListUnits(ctx context.Context, tenantID string) ([]domain.Unit, error)
	SetRateOverride(ctx context.Context, tenantID string, unitID string, req dto.SetRateOverrideRequest, userID string) (*domain.UnitRateOverride, error)
}

// InvoiceGeneratorSvc produces and reads invoices
type InvoiceGeneratorSvc interface {
	// GenerateMonthlyInvoices bills every billable unit for the requested month.
	// It fails with ErrAlreadyGenerated when the period already has invoices.
	GenerateMonthlyInvoices(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)

	GetInvoice(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string, month int, year int) ([]domain.Invoice, error)
}

// BillingSvcFacade combines all billing-related service interfaces
type BillingSvcFacade interface {
	BillingSetupSvc
	InvoiceGeneratorSvc
}
