package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/society_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// billingService manages billing setup and generates monthly invoices.
type billingService struct {
	BaseService
	billingRepo portsrepo.BillingSetupRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	accountRepo portsrepo.AccountReader
	ledger      portssvc.LedgerSvcFacade
}

// NewBillingService creates the billing engine.
func NewBillingService(
	txManager portsrepo.TransactionManager,
	billingRepo portsrepo.BillingSetupRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	ledger portssvc.LedgerSvcFacade,
	options ...ServiceOption,
) portssvc.BillingSvcFacade {
	return &billingService{
		BaseService: newBaseService(txManager, options...),
		billingRepo: billingRepo,
		invoiceRepo: invoiceRepo,
		accountRepo: accountRepo,
		ledger:      ledger,
	}
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

func (s *billingService) UpsertBillingConfig(ctx context.Context, tenantID string, req dto.UpsertBillingConfigRequest, userID string) (*domain.BillingConfig, error) {
	if req.DueDay < 1 || req.DueDay > 31 {
		return nil, fmt.Errorf("%w: due day must be between 1 and 31", apperrors.ErrValidation)
	}
	if req.InterestRatePercent.IsNegative() || req.GraceDays < 0 {
		return nil, fmt.Errorf("%w: interest rate and grace days cannot be negative", apperrors.ErrValidation)
	}

	cfg := domain.BillingConfig{
		TenantID:            tenantID,
		DueDay:              req.DueDay,
		InterestRatePercent: req.InterestRatePercent,
		GraceDays:           req.GraceDays,
		AuditFields:         domain.NewAuditFields(userID, s.now()),
	}
	if err := s.billingRepo.SaveBillingConfig(ctx, cfg); err != nil {
		s.LogError(ctx, err, "Failed to save billing config", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return &cfg, nil
}

func (s *billingService) GetBillingConfig(ctx context.Context, tenantID string) (*domain.BillingConfig, error) {
	cfg, err := s.billingRepo.FindBillingConfig(ctx, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			def := domain.DefaultBillingConfig(tenantID)
			return &def, nil
		}
		s.LogError(ctx, err, "Failed to load billing config", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return cfg, nil
}

func (s *billingService) CreateChargeHead(ctx context.Context, tenantID string, req dto.CreateChargeHeadRequest, userID string) (*domain.ChargeHead, error) {
	if !req.CalculationType.Valid() {
		return nil, fmt.Errorf("%w: unknown calculation type %q", apperrors.ErrValidation, req.CalculationType)
	}
	if req.Rate.IsNegative() || req.GSTRate.IsNegative() {
		return nil, fmt.Errorf("%w: rates cannot be negative", apperrors.ErrValidation)
	}
	if req.IncomeAccountID != "" {
		acc, err := s.accountRepo.FindAccountByID(ctx, req.IncomeAccountID)
		if err != nil || acc.TenantID != tenantID {
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: income account %s not found", apperrors.ErrValidation, req.IncomeAccountID)
		}
		if acc.AccountType != domain.Income {
			return nil, fmt.Errorf("%w: account %s is not an income account", apperrors.ErrValidation, acc.Code)
		}
	}

	head := domain.ChargeHead{
		ChargeHeadID:    uuid.NewString(),
		TenantID:        tenantID,
		Name:            req.Name,
		CalculationType: req.CalculationType,
		Rate:            req.Rate,
		GSTApplicable:   req.GSTApplicable,
		GSTRate:         req.GSTRate,
		IncomeAccountID: req.IncomeAccountID,
		IsActive:        true,
		SortOrder:       req.SortOrder,
		AuditFields:     domain.NewAuditFields(userID, s.now()),
	}
	if err := s.billingRepo.SaveChargeHead(ctx, head); err != nil {
		s.LogError(ctx, err, "Failed to save charge head",
			slog.String("tenant_id", tenantID),
			slog.String("name", req.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Charge head created",
		slog.String("charge_head_id", head.ChargeHeadID),
		slog.String("name", head.Name))
	return &head, nil
}

func (s *billingService) ListChargeHeads(ctx context.Context, tenantID string) ([]domain.ChargeHead, error) {
	heads, err := s.billingRepo.ListChargeHeads(ctx, tenantID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list charge heads", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if heads == nil {
		return []domain.ChargeHead{}, nil
	}
	return heads, nil
}

func (s *billingService) CreateUnit(ctx context.Context, tenantID string, req dto.CreateUnitRequest, userID string) (*domain.Unit, error) {
	if strings.TrimSpace(req.UnitNumber) == "" {
		return nil, fmt.Errorf("%w: unit number is required", apperrors.ErrValidation)
	}
	if req.AreaSqft.IsNegative() {
		return nil, fmt.Errorf("%w: area cannot be negative", apperrors.ErrValidation)
	}

	unit := domain.Unit{
		UnitID:      uuid.NewString(),
		TenantID:    tenantID,
		UnitNumber:  strings.TrimSpace(req.UnitNumber),
		AreaSqft:    req.AreaSqft,
		IsBillable:  req.IsBillable == nil || *req.IsBillable,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	if req.Member != nil {
		unit.ActiveMember = &domain.Member{
			MemberID: uuid.NewString(),
			Name:     req.Member.Name,
			Email:    req.Member.Email,
			Phone:    req.Member.Phone,
		}
	}

	if err := s.inTransaction(ctx, func(ctx context.Context) error {
		return s.billingRepo.SaveUnit(ctx, unit)
	}); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: unit %s already exists", apperrors.ErrDuplicate, unit.UnitNumber)
		}
		s.LogError(ctx, err, "Failed to save unit",
			slog.String("tenant_id", tenantID),
			slog.String("unit_number", unit.UnitNumber))
		return nil, err
	}
	return &unit, nil
}

func (s *billingService) ListUnits(ctx context.Context, tenantID string) ([]domain.Unit, error) {
	units, err := s.billingRepo.ListUnits(ctx, tenantID, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list units", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if units == nil {
		return []domain.Unit{}, nil
	}
	return units, nil
}

func (s *billingService) SetRateOverride(ctx context.Context, tenantID string, unitID string, req dto.SetRateOverrideRequest, userID string) (*domain.UnitRateOverride, error) {
	if req.Rate == nil {
		return nil, fmt.Errorf("%w: rate is required", apperrors.ErrValidation)
	}
	if req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: rate cannot be negative", apperrors.ErrValidation)
	}
	if _, err := s.billingRepo.FindUnitByID(ctx, tenantID, unitID); err != nil {
		return nil, err
	}

	override := domain.UnitRateOverride{
		TenantID:     tenantID,
		UnitID:       unitID,
		ChargeHeadID: req.ChargeHeadID,
		Rate:         *req.Rate,
		AuditFields:  domain.NewAuditFields(userID, s.now()),
	}
	if err := s.billingRepo.SaveRateOverride(ctx, override); err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to save rate override",
				slog.String("unit_id", unitID),
				slog.String("charge_head_id", req.ChargeHeadID))
		}
		return nil, err
	}
	return &override, nil
}

func (s *billingService) GetInvoice(ctx context.Context, tenantID string, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, tenantID, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return inv, nil
}

func (s *billingService) ListInvoices(ctx context.Context, tenantID string, month int, year int) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoicesForPeriod(ctx, tenantID, month, year)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices",
			slog.String("tenant_id", tenantID),
			slog.Int("month", month),
			slog.Int("year", year))
		return nil, err
	}
	if invoices == nil {
		return []domain.Invoice{}, nil
	}
	return invoices, nil
}

// generationRun holds everything loaded once per GenerateMonthlyInvoices call.
type generationRun struct {
	req         domain.GenerationRequest
	config      domain.BillingConfig
	heads       []domain.ChargeHead
	overrides   map[string]decimal.Decimal
	invoiceDate time.Time
	dueDate     time.Time
	prevDueDate time.Time
	accounts    map[string]*domain.Account
}

func overrideKey(unitID, chargeHeadID string) string {
	return unitID + "|" + chargeHeadID
}

// GenerateMonthlyInvoices bills every billable unit with an active member.
// Each unit commits on its own; when a unit fails the run stops and a
// *apperrors.PartialGenerationError lists what was already committed.
func (s *billingService) GenerateMonthlyInvoices(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	start := s.now()
	logger := s.GetLogger(ctx).With(
		slog.String("tenant_id", req.TenantID),
		slog.Int("month", int(req.Month)),
		slog.Int("year", req.Year))

	if req.Month < time.January || req.Month > time.December || req.Year < 1 {
		return nil, fmt.Errorf("%w: invalid billing period %d/%d", apperrors.ErrValidation, req.Month, req.Year)
	}

	exists, err := s.invoiceRepo.InvoicesExistForPeriod(ctx, req.TenantID, int(req.Month), req.Year)
	if err != nil {
		s.LogError(ctx, err, "Failed to check existing invoices")
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %04d-%02d", apperrors.ErrAlreadyGenerated, req.Year, int(req.Month))
	}

	run, err := s.prepareRun(ctx, req)
	if err != nil {
		s.metrics.GenerationRun("failed")
		return nil, err
	}

	units, err := s.billingRepo.ListUnits(ctx, req.TenantID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to load billable units")
		s.metrics.GenerationRun("failed")
		return nil, err
	}

	result := &domain.GenerationResult{InvoiceIDs: []string{}}
	for _, unit := range units {
		if unit.ActiveMember == nil {
			logger.Debug("Skipping unit without active member", slog.String("unit_id", unit.UnitID))
			continue
		}

		inv, err := s.invoiceUnit(ctx, run, unit, len(result.InvoiceIDs)+1)
		if err != nil {
			s.LogError(ctx, err, "Invoice generation failed for unit",
				slog.String("unit_id", unit.UnitID),
				slog.String("unit_number", unit.UnitNumber),
				slog.Int("committed", len(result.InvoiceIDs)))
			if len(result.InvoiceIDs) > 0 {
				s.metrics.GenerationRun("partial")
				return nil, &apperrors.PartialGenerationError{Created: result.InvoiceIDs, Err: err}
			}
			s.metrics.GenerationRun("failed")
			return nil, err
		}
		if inv == nil {
			logger.Debug("Skipping unit with no chargeable lines", slog.String("unit_id", unit.UnitID))
			continue
		}

		result.InvoiceIDs = append(result.InvoiceIDs, inv.InvoiceID)
		s.metrics.InvoiceGenerated()
		s.publish(ctx, domain.LedgerEvent{
			EventType: domain.EventInvoiceGenerated,
			TenantID:  inv.TenantID,
			EntityID:  inv.InvoiceID,
			Reference: inv.InvoiceNumber,
			UnitID:    inv.UnitID,
			Amount:    inv.TotalAmount,
		})
	}
	result.Count = len(result.InvoiceIDs)

	s.metrics.GenerationRun("ok")
	s.metrics.ObserveDuration("generate_invoices", s.now().Sub(start).Seconds())
	logger.Info("Monthly invoices generated", slog.Int("count", result.Count))
	return result, nil
}

func (s *billingService) prepareRun(ctx context.Context, req domain.GenerationRequest) (*generationRun, error) {
	cfg, err := s.GetBillingConfig(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	heads, err := s.billingRepo.ListChargeHeads(ctx, req.TenantID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to load charge heads", slog.String("tenant_id", req.TenantID))
		return nil, err
	}
	overrides, err := s.billingRepo.ListRateOverrides(ctx, req.TenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load rate overrides", slog.String("tenant_id", req.TenantID))
		return nil, err
	}

	run := &generationRun{
		req:       req,
		config:    *cfg,
		heads:     heads,
		overrides: make(map[string]decimal.Decimal, len(overrides)),
		accounts:  make(map[string]*domain.Account),
	}
	for _, o := range overrides {
		run.overrides[overrideKey(o.UnitID, o.ChargeHeadID)] = o.Rate
	}

	periodStart := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	run.invoiceDate = periodStart
	if req.InvoiceDate != nil && !req.InvoiceDate.IsZero() {
		run.invoiceDate = domain.DateOnly(*req.InvoiceDate)
	}
	run.dueDate = cfg.DueDate(req.Year, req.Month)
	prev := periodStart.AddDate(0, -1, 0)
	run.prevDueDate = cfg.DueDate(prev.Year(), prev.Month())

	// The receivable account is needed for every invoice; fail before touching any unit.
	if _, err := s.accountByCode(ctx, run, domain.CodeReceivableMaint); err != nil {
		return nil, err
	}
	return run, nil
}

// accountByCode resolves one of the well-known chart accounts, caching per run.
func (s *billingService) accountByCode(ctx context.Context, run *generationRun, code string) (*domain.Account, error) {
	if acc, ok := run.accounts[code]; ok {
		return acc, nil
	}
	acc, err := s.accountRepo.FindAccountByCode(ctx, run.req.TenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: missing required account %s", apperrors.ErrValidation, code)
		}
		return nil, err
	}
	run.accounts[code] = acc
	return acc, nil
}

// invoiceUnit computes and commits one unit's invoice. It returns nil, nil when
// the unit has nothing to bill.
func (s *billingService) invoiceUnit(ctx context.Context, run *generationRun, unit domain.Unit, seq int) (*domain.Invoice, error) {
	invoiceID := uuid.NewString()
	lines := make([]domain.InvoiceLine, 0, len(run.heads))
	subtotal, gstTotal := decimal.Zero, decimal.Zero
	for _, head := range run.heads {
		var override *decimal.Decimal
		if rate, ok := run.overrides[overrideKey(unit.UnitID, head.ChargeHeadID)]; ok {
			override = &rate
		}
		amount := accounting.ChargeAmount(head, unit, override)
		if !amount.IsPositive() {
			continue
		}
		gst := decimal.Zero
		if head.GSTApplicable && head.GSTRate.IsPositive() {
			gst = accounting.GST(amount, head.GSTRate)
		}
		lines = append(lines, domain.InvoiceLine{
			LineID:       uuid.NewString(),
			InvoiceID:    invoiceID,
			ChargeHeadID: head.ChargeHeadID,
			Description:  head.Name,
			Amount:       amount,
			GSTRate:      head.GSTRate,
			GSTAmount:    gst,
			LineTotal:    amount.Add(gst),
		})
		subtotal = subtotal.Add(amount)
		gstTotal = gstTotal.Add(gst)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	// Only activity dated before this invoice counts, so backfilled months
	// ignore later invoices and payments.
	priorAsOf := run.invoiceDate.AddDate(0, 0, -1)
	prior, err := s.ledger.GetUnitOutstanding(ctx, run.req.TenantID, unit.UnitID, &priorAsOf)
	if err != nil {
		return nil, fmt.Errorf("failed to read prior outstanding: %w", err)
	}
	days := accounting.DaysOverdue(run.prevDueDate, run.config.GraceDays, run.invoiceDate)
	interest := accounting.SimpleInterest(prior, run.config.InterestRatePercent, days)

	entryLines, err := s.invoiceEntryLines(ctx, run, unit, lines, gstTotal, interest)
	if err != nil {
		return nil, err
	}

	total := subtotal.Add(gstTotal).Add(interest)
	invoiceNumber := domain.InvoiceNumber(run.req.Year, run.req.Month, seq)
	inv := domain.Invoice{
		InvoiceID:       invoiceID,
		TenantID:        run.req.TenantID,
		InvoiceNumber:   invoiceNumber,
		UnitID:          unit.UnitID,
		MemberID:        unit.ActiveMember.MemberID,
		BillingMonth:    int(run.req.Month),
		BillingYear:     run.req.Year,
		InvoiceDate:     run.invoiceDate,
		DueDate:         run.dueDate,
		Subtotal:        subtotal,
		GSTAmount:       gstTotal,
		InterestAmount:  interest,
		PreviousBalance: prior,
		TotalAmount:     total,
		PaidAmount:      decimal.Zero,
		BalanceDue:      total,
		Status:          domain.InvoiceUnpaid,
		Lines:           lines,
		AuditFields:     domain.NewAuditFields(run.req.CreatedBy, s.now()),
	}

	err = s.inTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.ledger.CreateJournalEntry(ctx, domain.JournalEntryInput{
			TenantID:   run.req.TenantID,
			Date:       run.invoiceDate,
			Narration:  fmt.Sprintf("Maintenance invoice %s for unit %s (%s %d)", invoiceNumber, unit.UnitNumber, run.req.Month, run.req.Year),
			SourceType: domain.SourceInvoice,
			SourceID:   invoiceID,
			Lines:      entryLines,
			CreatedBy:  run.req.CreatedBy,
		})
		if err != nil {
			return err
		}
		inv.JournalEntryID = entry.EntryID
		return s.invoiceRepo.SaveInvoice(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// invoiceEntryLines builds the receivable debit and the matching credits of an invoice.
func (s *billingService) invoiceEntryLines(ctx context.Context, run *generationRun, unit domain.Unit, lines []domain.InvoiceLine, gstTotal, interest decimal.Decimal) ([]domain.LedgerLineInput, error) {
	ar, err := s.accountByCode(ctx, run, domain.CodeReceivableMaint)
	if err != nil {
		return nil, err
	}
	memberID := unit.ActiveMember.MemberID

	heads := make(map[string]domain.ChargeHead, len(run.heads))
	for _, h := range run.heads {
		heads[h.ChargeHeadID] = h
	}

	credits := make([]domain.LedgerLineInput, 0, len(lines)+2)
	for _, l := range lines {
		incomeID := heads[l.ChargeHeadID].IncomeAccountID
		if incomeID == "" {
			income, err := s.accountByCode(ctx, run, domain.CodeMaintenanceIncome)
			if err != nil {
				return nil, err
			}
			incomeID = income.AccountID
		}
		credits = append(credits, domain.LedgerLineInput{AccountID: incomeID, Side: domain.Credit, Amount: l.Amount, UnitID: unit.UnitID})
	}
	if gstTotal.IsPositive() {
		gstAcc, err := s.accountByCode(ctx, run, domain.CodeGSTOutputPayable)
		if err != nil {
			return nil, err
		}
		credits = append(credits, domain.LedgerLineInput{AccountID: gstAcc.AccountID, Side: domain.Credit, Amount: gstTotal, UnitID: unit.UnitID})
	}
	if interest.IsPositive() {
		interestAcc, err := s.accountByCode(ctx, run, domain.CodeInterestIncome)
		if err != nil {
			return nil, err
		}
		credits = append(credits, domain.LedgerLineInput{AccountID: interestAcc.AccountID, Side: domain.Credit, Amount: interest, UnitID: unit.UnitID})
	}

	// The debit is the sum of the credits so rounding can never unbalance the entry.
	_, creditTotal := accounting.SumSides(credits)
	debit := domain.LedgerLineInput{
		AccountID: ar.AccountID,
		Side:      domain.Debit,
		Amount:    creditTotal,
		UnitID:    unit.UnitID,
		MemberID:  memberID,
	}
	return append([]domain.LedgerLineInput{debit}, credits...), nil
}
