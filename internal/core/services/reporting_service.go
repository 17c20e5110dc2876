package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reconcileTolerance is the largest ledger/invoice difference still reported as in sync.
var reconcileTolerance = decimal.NewFromFloat(0.01)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	invoiceRepo   portsrepo.InvoiceReader
	billingRepo   portsrepo.BillingSetupReader
	ledger        portssvc.BalanceCalculatorSvc
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	repo portsrepo.ReportingRepository,
	invoiceRepo portsrepo.InvoiceReader,
	billingRepo portsrepo.BillingSetupReader,
	ledger portssvc.BalanceCalculatorSvc,
	options ...ServiceOption,
) portssvc.ReportingService {
	return &reportingService{
		BaseService:   newBaseService(nil, options...),
		reportingRepo: repo,
		invoiceRepo:   invoiceRepo,
		billingRepo:   billingRepo,
		ledger:        ledger,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, tenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("tenant_id", tenantID),
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}
	if rows == nil {
		rows = []domain.TrialBalanceRow{}
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("tenant_id", tenantID),
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(rows)))
	return rows, nil
}

// ReconcileUnit compares the unit's invoice snapshots against the ledger, which
// is authoritative. A difference means a snapshot drifted.
func (s *reportingService) ReconcileUnit(ctx context.Context, tenantID string, unitID string) (*domain.UnitReconciliation, error) {
	if _, err := s.billingRepo.FindUnitByID(ctx, tenantID, unitID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find unit", slog.String("unit_id", unitID))
		}
		return nil, err
	}

	invoiceDue, err := s.invoiceRepo.SumBalanceDueForUnit(ctx, tenantID, unitID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum invoice balances", slog.String("unit_id", unitID))
		return nil, err
	}
	outstanding, err := s.ledger.GetUnitOutstanding(ctx, tenantID, unitID, nil)
	if err != nil {
		return nil, err
	}

	diff := outstanding.Sub(invoiceDue)
	result := &domain.UnitReconciliation{
		UnitID:            unitID,
		InvoiceBalanceDue: invoiceDue,
		LedgerOutstanding: outstanding,
		Difference:        diff,
		InSync:            diff.Abs().LessThanOrEqual(reconcileTolerance),
	}
	if !result.InSync {
		s.LogWarn(ctx, "Unit invoices out of sync with ledger",
			slog.String("unit_id", unitID),
			slog.String("difference", diff.StringFixed(2)))
	}
	return result, nil
}
