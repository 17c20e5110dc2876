package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/core/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(t domain.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.EventType == t {
			n++
		}
	}
	return n
}

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type LedgerFlowTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memory.Store
	svc       *portssvc.ServiceContainer
	events    *recordingPublisher
	tenantID  string
	userID    string
	accounts  map[string]domain.Account
	unitA     *domain.Unit
	unitB     *domain.Unit
	maintHead *domain.ChargeHead
}

func (suite *LedgerFlowTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.events = &recordingPublisher{}
	suite.svc = services.NewServiceContainer(memory.NewRepositoryProvider(suite.store), services.WithEventPublisher(suite.events))
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	n, err := suite.svc.Account.SeedDefaultChart(suite.ctx, suite.tenantID, suite.userID)
	suite.Require().NoError(err)
	suite.Require().Equal(len(domain.DefaultChart), n)

	all, err := suite.svc.Account.ListAccounts(suite.ctx, suite.tenantID, 500, 0)
	suite.Require().NoError(err)
	suite.accounts = make(map[string]domain.Account, len(all))
	for _, a := range all {
		suite.accounts[a.Code] = a
	}

	suite.unitA = suite.createUnit("A-101", "1000", "Asha")
	suite.unitB = suite.createUnit("A-102", "800", "Bilal")

	suite.maintHead, err = suite.svc.Billing.CreateChargeHead(suite.ctx, suite.tenantID, dto.CreateChargeHeadRequest{
		Name:            "Maintenance",
		CalculationType: domain.PerSqft,
		Rate:            money("2.5"),
		SortOrder:       1,
	}, suite.userID)
	suite.Require().NoError(err)
	_, err = suite.svc.Billing.CreateChargeHead(suite.ctx, suite.tenantID, dto.CreateChargeHeadRequest{
		Name:            "Clubhouse",
		CalculationType: domain.FlatRate,
		Rate:            money("500"),
		GSTApplicable:   true,
		GSTRate:         money("18"),
		SortOrder:       2,
	}, suite.userID)
	suite.Require().NoError(err)
}

func (suite *LedgerFlowTestSuite) createUnit(number, area, member string) *domain.Unit {
	unit, err := suite.svc.Billing.CreateUnit(suite.ctx, suite.tenantID, dto.CreateUnitRequest{
		UnitNumber: number,
		AreaSqft:   money(area),
		Member:     &dto.MemberRequest{Name: member},
	}, suite.userID)
	suite.Require().NoError(err)
	return unit
}

func (suite *LedgerFlowTestSuite) account(code string) string {
	acc, ok := suite.accounts[code]
	suite.Require().True(ok, "account %s not seeded", code)
	return acc.AccountID
}

func (suite *LedgerFlowTestSuite) assertMoney(expected string, actual decimal.Decimal, msgAndArgs ...any) {
	suite.True(money(expected).Equal(actual), append([]any{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func (suite *LedgerFlowTestSuite) entryCount() int {
	resp, err := suite.svc.Ledger.ListJournalEntries(suite.ctx, suite.tenantID, dto.ListJournalEntriesParams{Limit: 100})
	suite.Require().NoError(err)
	return len(resp.Entries)
}

func (suite *LedgerFlowTestSuite) generateApril() *domain.GenerationResult {
	res, err := suite.svc.Billing.GenerateMonthlyInvoices(suite.ctx, domain.GenerationRequest{
		TenantID:  suite.tenantID,
		Month:     time.April,
		Year:      2024,
		CreatedBy: suite.userID,
	})
	suite.Require().NoError(err)
	return res
}

func (suite *LedgerFlowTestSuite) assertTrialBalanceBalanced() {
	rows, err := suite.svc.Reporting.TrialBalance(suite.ctx, suite.tenantID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	tb := dto.ToTrialBalanceResponse(rows, time.Now())
	suite.True(tb.Balanced, "trial balance debits %s credits %s", tb.Totals.Debit, tb.Totals.Credit)
}

// --- Ledger core ---

func (suite *LedgerFlowTestSuite) TestSeedDefaultChart_IsIdempotent() {
	n, err := suite.svc.Account.SeedDefaultChart(suite.ctx, suite.tenantID, suite.userID)
	suite.Require().NoError(err)
	suite.Zero(n)
	suite.Equal(1, suite.events.count(domain.EventAccountsSeeded))
}

func (suite *LedgerFlowTestSuite) TestCreateJournalEntry_NumbersWithinMonth() {
	input := domain.JournalEntryInput{
		TenantID:  suite.tenantID,
		Date:      time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC),
		Narration: "Opening cash",
		Lines: []domain.LedgerLineInput{
			{AccountID: suite.account(domain.CodeCashInHand), Side: domain.Debit, Amount: money("1000")},
			{AccountID: suite.account("5200"), Side: domain.Credit, Amount: money("1000")},
		},
		CreatedBy: suite.userID,
	}

	first, err := suite.svc.Ledger.CreateJournalEntry(suite.ctx, input)
	suite.Require().NoError(err)
	second, err := suite.svc.Ledger.CreateJournalEntry(suite.ctx, input)
	suite.Require().NoError(err)
	input.Date = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	third, err := suite.svc.Ledger.CreateJournalEntry(suite.ctx, input)
	suite.Require().NoError(err)

	suite.Equal("JE-202404-0001", first.EntryNumber)
	suite.Equal("JE-202404-0002", second.EntryNumber)
	suite.Equal("JE-202405-0001", third.EntryNumber)
	suite.Equal(domain.Posted, first.Status)
	suite.Equal("2024-25", first.FinancialYear)
	suite.Equal(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), first.Lines[0].LineDate)

	bal, err := suite.svc.Ledger.GetAccountBalance(suite.ctx, suite.tenantID, suite.account(domain.CodeCashInHand), nil)
	suite.Require().NoError(err)
	suite.assertMoney("3000", bal.Balance)

	asOf := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	bal, err = suite.svc.Ledger.GetAccountBalance(suite.ctx, suite.tenantID, suite.account(domain.CodeCashInHand), &asOf)
	suite.Require().NoError(err)
	suite.assertMoney("2000", bal.TotalDebit)
	suite.assertMoney("0", bal.TotalCredit)
	suite.Equal(3, suite.events.count(domain.EventJournalPosted))
}

func (suite *LedgerFlowTestSuite) TestCreateJournalEntry_RejectsWithoutWriting() {
	cash := suite.account(domain.CodeCashInHand)
	fund := suite.account("5200")
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		lines []domain.LedgerLineInput
		want  error
	}{
		{"unbalanced", []domain.LedgerLineInput{
			{AccountID: cash, Side: domain.Debit, Amount: money("100")},
			{AccountID: fund, Side: domain.Credit, Amount: money("99.98")},
		}, apperrors.ErrUnbalanced},
		{"zero amount", []domain.LedgerLineInput{
			{AccountID: cash, Side: domain.Debit, Amount: money("0")},
			{AccountID: fund, Side: domain.Credit, Amount: money("0")},
		}, apperrors.ErrValidation},
		{"unknown account", []domain.LedgerLineInput{
			{AccountID: uuid.NewString(), Side: domain.Debit, Amount: money("5")},
			{AccountID: fund, Side: domain.Credit, Amount: money("5")},
		}, apperrors.ErrValidation},
		{"no lines", nil, apperrors.ErrValidation},
		{"sub-cent lines", append(repeatLine(domain.LedgerLineInput{AccountID: cash, Side: domain.Debit, Amount: money("0.104")}, 10),
			domain.LedgerLineInput{AccountID: fund, Side: domain.Credit, Amount: money("1.04")},
		), apperrors.ErrValidation},
	}
	for _, tc := range cases {
		_, err := suite.svc.Ledger.CreateJournalEntry(suite.ctx, domain.JournalEntryInput{
			TenantID: suite.tenantID, Date: date, Narration: tc.name, Lines: tc.lines,
		})
		suite.ErrorIs(err, tc.want, tc.name)
	}
	suite.Zero(suite.entryCount())
}

func repeatLine(l domain.LedgerLineInput, n int) []domain.LedgerLineInput {
	out := make([]domain.LedgerLineInput, n)
	for i := range out {
		out[i] = l
	}
	return out
}

func (suite *LedgerFlowTestSuite) TestCreateJournalEntry_WithinToleranceIsAccepted() {
	_, err := suite.svc.Ledger.CreateJournalEntry(suite.ctx, domain.JournalEntryInput{
		TenantID:  suite.tenantID,
		Date:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Narration: "rounding",
		Lines: []domain.LedgerLineInput{
			{AccountID: suite.account(domain.CodeCashInHand), Side: domain.Debit, Amount: money("100.01")},
			{AccountID: suite.account("5200"), Side: domain.Credit, Amount: money("100")},
		},
	})
	suite.NoError(err)
}

func (suite *LedgerFlowTestSuite) TestCreateJournalEntry_RejectsOtherTenantAccount() {
	otherTenant := uuid.NewString()
	_, err := suite.svc.Account.SeedDefaultChart(suite.ctx, otherTenant, suite.userID)
	suite.Require().NoError(err)

	_, err = suite.svc.Ledger.CreateJournalEntry(suite.ctx, domain.JournalEntryInput{
		TenantID:  otherTenant,
		Date:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Narration: "cross tenant",
		Lines: []domain.LedgerLineInput{
			{AccountID: suite.account(domain.CodeCashInHand), Side: domain.Debit, Amount: money("5")},
			{AccountID: suite.account("5200"), Side: domain.Credit, Amount: money("5")},
		},
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerFlowTestSuite) TestOutstanding_ZeroWithoutReceivableAccount() {
	emptyTenant := uuid.NewString()

	out, err := suite.svc.Ledger.GetUnitOutstanding(suite.ctx, emptyTenant, uuid.NewString(), nil)
	suite.Require().NoError(err)
	suite.True(out.IsZero())

	summary, err := suite.svc.Ledger.GetTenantOutstandingSummary(suite.ctx, emptyTenant)
	suite.Require().NoError(err)
	suite.Empty(summary)
}

// --- Billing engine ---

func (suite *LedgerFlowTestSuite) TestGenerateMonthlyInvoices_PostsBalancedReceivables() {
	// A unit with no member and a non-billable unit are both skipped.
	_, err := suite.svc.Billing.CreateUnit(suite.ctx, suite.tenantID, dto.CreateUnitRequest{UnitNumber: "A-103", AreaSqft: money("900")}, suite.userID)
	suite.Require().NoError(err)
	notBillable := false
	_, err = suite.svc.Billing.CreateUnit(suite.ctx, suite.tenantID, dto.CreateUnitRequest{
		UnitNumber: "SHOP-1", AreaSqft: money("300"), IsBillable: &notBillable, Member: &dto.MemberRequest{Name: "Chen"},
	}, suite.userID)
	suite.Require().NoError(err)

	res := suite.generateApril()
	suite.Equal(2, res.Count)
	suite.Len(res.InvoiceIDs, 2)

	invoices, err := suite.svc.Billing.ListInvoices(suite.ctx, suite.tenantID, 4, 2024)
	suite.Require().NoError(err)
	suite.Require().Len(invoices, 2)
	suite.Equal("INV-202404-0001", invoices[0].InvoiceNumber)
	suite.Equal("INV-202404-0002", invoices[1].InvoiceNumber)

	invA := invoices[0]
	suite.Equal(suite.unitA.UnitID, invA.UnitID)
	suite.Equal(suite.unitA.ActiveMember.MemberID, invA.MemberID)
	suite.assertMoney("3000", invA.Subtotal) // 2.5 x 1000 + 500
	suite.assertMoney("90", invA.GSTAmount)
	suite.assertMoney("3090", invA.TotalAmount)
	suite.assertMoney("3090", invA.BalanceDue)
	suite.Equal(domain.InvoiceUnpaid, invA.Status)
	suite.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), invA.InvoiceDate)
	suite.Equal(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), invA.DueDate)
	suite.Len(invA.Lines, 2)

	entry, err := suite.svc.Ledger.GetJournalEntry(suite.ctx, suite.tenantID, invA.JournalEntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.SourceInvoice, entry.SourceType)
	suite.Equal(invA.InvoiceID, entry.SourceID)

	outA, err := suite.svc.Ledger.GetUnitOutstanding(suite.ctx, suite.tenantID, suite.unitA.UnitID, nil)
	suite.Require().NoError(err)
	suite.assertMoney("3090", outA)
	outB, err := suite.svc.Ledger.GetUnitOutstanding(suite.ctx, suite.tenantID, suite.unitB.UnitID, nil)
	suite.Require().NoError(err)
	suite.assertMoney("2590", outB) // 2.5 x 800 + 500 + 90

	gst, err := suite.svc.Ledger.GetAccountBalance(suite.ctx, suite.tenantID, suite.account(domain.CodeGSTOutputPayable), nil)
	suite.Require().NoError(err)
	suite.assertMoney("-180", gst.Balance)

	summary, err := suite.svc.Ledger.GetTenantOutstandingSummary(suite.ctx, suite.tenantID)
	suite.Require().NoError(err)
	suite.Len(summary, 2)

	suite.assertTrialBalanceBalanced()
	suite.Equal(2, suite.events.count(domain.EventInvoiceGenerated))
}

func (suite *LedgerFlowTestSuite) TestGenerateMonthlyInvoices_SecondRunRejected() {
	suite.generateApril()
	before := suite.entryCount()

	_, err := suite.svc.Billing.GenerateMonthlyInvoices(suite.ctx, domain.GenerationRequest{
		TenantID: suite.tenantID, Month: time.April, Year: 2024,
	})
	suite.ErrorIs(err, apperrors.ErrAlreadyGenerated)
	suite.Equal(before, suite.entryCount())
}

func (suite *LedgerFlowTestSuite) TestGenerateMonthlyInvoices_RateOverride() {
	_, err := suite.svc.Billing.SetRateOverride(suite.ctx, suite.tenantID, suite.unitA.UnitID, dto.SetRateOverrideRequest{
		ChargeHeadID: suite.maintHead.ChargeHeadID,
		Rate:         moneyPtr("3"),
	}, suite.userID)
	suite.Require().NoError(err)

	res := suite.generateApril()
	inv, err := suite.svc.Billing.GetInvoice(suite.ctx, suite.tenantID, res.InvoiceIDs[0])
	suite.Require().NoError(err)
	suite.assertMoney("3500", inv.Subtotal)
}

func (suite *LedgerFlowTestSuite) TestGenerateMonthlyInvoices_ZeroOverrideWaivesHead() {
	_, err := suite.svc.Billing.SetRateOverride(suite.ctx, suite.tenantID, suite.unitA.UnitID, dto.SetRateOverrideRequest{
		ChargeHeadID: suite.maintHead.ChargeHeadID,
		Rate:         moneyPtr("0"),
	}, suite.userID)
	suite.Require().NoError(err)

	res := suite.generateApril()
	inv, err := suite.svc.Billing.GetInvoice(suite.ctx, suite.tenantID, res.InvoiceIDs[0])
	suite.Require().NoError(err)
	suite.Require().Equal(suite.unitA.UnitID, inv.UnitID)
	suite.assertMoney("500", inv.Subtotal)
	suite.Len(inv.Lines, 1)
	suite.NotEqual(suite.maintHead.ChargeHeadID, inv.Lines[0].ChargeHeadID)

	_, err = suite.svc.Billing.SetRateOverride(suite.ctx, suite.tenantID, suite.unitA.UnitID, dto.SetRateOverrideRequest{
		ChargeHeadID: suite.maintHead.ChargeHeadID,
	}, suite.userID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerFlowTestSuite) TestGenerateMonthlyInvoices_LateInterest() {
	_, err := suite.svc.Billing.UpsertBillingConfig(suite.ctx, suite.tenantID, dto.UpsertBillingConfigRequest{
		DueDay:              10,
		InterestRatePercent: money("12"),
	}, suite.userID)
	suite.Require().NoError(err)

	suite.generateApril()

	res, err := suite.svc.Billing.GenerateMonthlyInvoices(suite.ctx, domain.GenerationRequest{
		TenantID: suite.tenantID, Month: time.May, Year: 2024, CreatedBy: suite.userID,
	})
	suite.Require().NoError(err)
	inv, err := suite.svc.Billing.GetInvoice(suite.ctx, suite.tenantID, res.InvoiceIDs[0])
	suite.Require().NoError(err)

	// 3090 x 12% x 21 days / 365
	suite.assertMoney("21.33", inv.InterestAmount)
	suite.assertMoney("3090", inv.PreviousBalance)
	suite.assertMoney("3111.33", inv.TotalAmount)

	interest, err := suite.svc.Ledger.GetAccountBalance(suite.ctx, suite.tenantID, suite.account(domain.CodeInterestIncome), nil)
	suite.Require().NoError(err)
	suite.False(interest.Balance.IsZero())
	suite.assertTrialBalanceBalanced()
}

func (suite *LedgerFlowTestSuite) TestGenerateMonthlyInvoices_BackfillIgnoresLaterActivity() {
	_, err := suite.svc.Billing.UpsertBillingConfig(suite.ctx, suite.tenantID, dto.UpsertBillingConfigRequest{
		DueDay:              10,
		InterestRatePercent: money("12"),
	}, suite.userID)
	suite.Require().NoError(err)

	_, err = suite.svc.Billing.GenerateMonthlyInvoices(suite.ctx, domain.GenerationRequest{
		TenantID: suite.tenantID, Month: time.May, Year: 2024, CreatedBy: suite.userID,
	})
	suite.Require().NoError(err)

	res := suite.generateApril()
	inv, err := suite.svc.Billing.GetInvoice(suite.ctx, suite.tenantID, res.InvoiceIDs[0])
	suite.Require().NoError(err)
	suite.True(inv.PreviousBalance.IsZero(), inv.PreviousBalance.String())
	suite.True(inv.InterestAmount.IsZero(), inv.InterestAmount.String())
	suite.assertMoney("3090", inv.TotalAmount)
}

func (suite *LedgerFlowTestSuite) TestGenerateMonthlyInvoices_PartialFailureKeepsCommittedUnits() {
	suite.createUnit("A-104", "500", "Devi")
	suite.store.FailAfter("SaveInvoice", 1, assert.AnError)

	_, err := suite.svc.Billing.GenerateMonthlyInvoices(suite.ctx, domain.GenerationRequest{
		TenantID: suite.tenantID, Month: time.April, Year: 2024,
	})
	suite.Require().Error(err)

	var partial *apperrors.PartialGenerationError
	suite.Require().True(errors.As(err, &partial))
	suite.Len(partial.Created, 1)
	suite.ErrorIs(err, assert.AnError)

	invoices, err := suite.svc.Billing.ListInvoices(suite.ctx, suite.tenantID, 4, 2024)
	suite.Require().NoError(err)
	suite.Len(invoices, 1)
	// The failed unit's journal entry was rolled back with its invoice.
	suite.Equal(1, suite.entryCount())
	suite.assertTrialBalanceBalanced()

	outB, err := suite.svc.Ledger.GetUnitOutstanding(suite.ctx, suite.tenantID, suite.unitB.UnitID, nil)
	suite.Require().NoError(err)
	suite.True(outB.IsZero())
}

func (suite *LedgerFlowTestSuite) TestGenerateMonthlyInvoices_FirstUnitFailureIsPlainError() {
	suite.store.FailAfter("SaveJournalEntry", 0, assert.AnError)

	_, err := suite.svc.Billing.GenerateMonthlyInvoices(suite.ctx, domain.GenerationRequest{
		TenantID: suite.tenantID, Month: time.April, Year: 2024,
	})
	suite.Require().Error(err)
	var partial *apperrors.PartialGenerationError
	suite.False(errors.As(err, &partial))
	suite.Zero(suite.entryCount())
}

// --- Payment recorder ---

func (suite *LedgerFlowTestSuite) TestRecordManualPayment_PartialThenFull() {
	res := suite.generateApril()
	invoiceID := res.InvoiceIDs[0]
	payDate := time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)

	p1, err := suite.svc.Payment.RecordManualPayment(suite.ctx, domain.ManualPaymentInput{
		TenantID: suite.tenantID, InvoiceID: invoiceID, Amount: money("1000"),
		PaymentDate: payDate, PaymentMethod: domain.MethodUPI, CreatedBy: suite.userID,
	})
	suite.Require().NoError(err)
	suite.Equal("RCT-20240415-0001", p1.ReceiptNumber)
	suite.Equal(suite.unitA.UnitID, p1.UnitID)

	inv, err := suite.svc.Billing.GetInvoice(suite.ctx, suite.tenantID, invoiceID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePartiallyPaid, inv.Status)
	suite.assertMoney("2090", inv.BalanceDue)
	suite.assertMoney("1000", inv.PaidAmount)

	p2, err := suite.svc.Payment.RecordManualPayment(suite.ctx, domain.ManualPaymentInput{
		TenantID: suite.tenantID, InvoiceID: invoiceID, Amount: money("2090"),
		PaymentDate: payDate, PaymentMethod: domain.MethodCheque,
	})
	suite.Require().NoError(err)
	suite.Equal("RCT-20240415-0002", p2.ReceiptNumber)

	inv, err = suite.svc.Billing.GetInvoice(suite.ctx, suite.tenantID, invoiceID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, inv.Status)
	suite.True(inv.BalanceDue.IsZero())

	out, err := suite.svc.Ledger.GetUnitOutstanding(suite.ctx, suite.tenantID, suite.unitA.UnitID, nil)
	suite.Require().NoError(err)
	suite.True(out.IsZero())

	bank, err := suite.svc.Ledger.GetAccountBalance(suite.ctx, suite.tenantID, suite.account(domain.CodeBankOperating), nil)
	suite.Require().NoError(err)
	suite.assertMoney("3090", bank.Balance)

	rec, err := suite.svc.Reporting.ReconcileUnit(suite.ctx, suite.tenantID, suite.unitA.UnitID)
	suite.Require().NoError(err)
	suite.True(rec.InSync)

	payments, err := suite.svc.Payment.ListPaymentsForInvoice(suite.ctx, suite.tenantID, invoiceID)
	suite.Require().NoError(err)
	suite.Len(payments, 2)
	suite.Equal(2, suite.events.count(domain.EventPaymentRecorded))
	suite.assertTrialBalanceBalanced()
}

func (suite *LedgerFlowTestSuite) TestRecordManualPayment_OverpaymentClampsSnapshot() {
	res := suite.generateApril()
	invoiceID := res.InvoiceIDs[0]

	_, err := suite.svc.Payment.RecordManualPayment(suite.ctx, domain.ManualPaymentInput{
		TenantID: suite.tenantID, InvoiceID: invoiceID, Amount: money("4000"),
		PaymentDate: time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), PaymentMethod: domain.MethodCash,
	})
	suite.Require().NoError(err)

	inv, err := suite.svc.Billing.GetInvoice(suite.ctx, suite.tenantID, invoiceID)
	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, inv.Status)
	suite.True(inv.BalanceDue.IsZero())
	suite.assertMoney("4000", inv.PaidAmount)

	// The ledger keeps the full credit; the unit is in advance.
	rec, err := suite.svc.Reporting.ReconcileUnit(suite.ctx, suite.tenantID, suite.unitA.UnitID)
	suite.Require().NoError(err)
	suite.assertMoney("-910", rec.LedgerOutstanding)
	suite.assertMoney("-910", rec.Difference)
	suite.False(rec.InSync)
}

func (suite *LedgerFlowTestSuite) TestRecordManualPayment_FailureRollsBackEverything() {
	res := suite.generateApril()
	invoiceID := res.InvoiceIDs[0]
	before := suite.entryCount()
	suite.store.FailAfter("UpdateInvoiceSettlement", 0, assert.AnError)

	_, err := suite.svc.Payment.RecordManualPayment(suite.ctx, domain.ManualPaymentInput{
		TenantID: suite.tenantID, InvoiceID: invoiceID, Amount: money("500"),
		PaymentDate: time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), PaymentMethod: domain.MethodCash,
	})
	suite.Require().ErrorIs(err, assert.AnError)

	suite.Equal(before, suite.entryCount())
	payments, err := suite.svc.Payment.ListPaymentsForInvoice(suite.ctx, suite.tenantID, invoiceID)
	suite.Require().NoError(err)
	suite.Empty(payments)
	out, err := suite.svc.Ledger.GetUnitOutstanding(suite.ctx, suite.tenantID, suite.unitA.UnitID, nil)
	suite.Require().NoError(err)
	suite.assertMoney("3090", out)
	suite.Zero(suite.events.count(domain.EventPaymentRecorded))
}

func (suite *LedgerFlowTestSuite) TestRecordManualPayment_Validation() {
	res := suite.generateApril()

	_, err := suite.svc.Payment.RecordManualPayment(suite.ctx, domain.ManualPaymentInput{
		TenantID: suite.tenantID, InvoiceID: res.InvoiceIDs[0], Amount: money("0"),
		PaymentDate: time.Now(),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.svc.Payment.RecordManualPayment(suite.ctx, domain.ManualPaymentInput{
		TenantID: suite.tenantID, InvoiceID: res.InvoiceIDs[0], Amount: money("0.004"),
		PaymentDate: time.Now(),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
	payments, err := suite.svc.Payment.ListPaymentsForInvoice(suite.ctx, suite.tenantID, res.InvoiceIDs[0])
	suite.Require().NoError(err)
	suite.Empty(payments)

	_, err = suite.svc.Payment.RecordManualPayment(suite.ctx, domain.ManualPaymentInput{
		TenantID: suite.tenantID, InvoiceID: uuid.NewString(), Amount: money("10"),
		PaymentDate: time.Now(),
	})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerFlowTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerFlowTestSuite))
}
