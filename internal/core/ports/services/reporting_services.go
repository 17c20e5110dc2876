package services

import (
	"context"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// ReconcileUnit compares a unit's invoice balances with its ledger outstanding
	ReconcileUnit(ctx context.Context, tenantID string, unitID string) (*domain.UnitReconciliation, error)
}
