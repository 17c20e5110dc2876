package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/handlers"
	"github.com/SscSPs/society_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testJWTIssuer = "society-ledger-test"
)

// signTestToken creates a signed bearer token for userID.
func signTestToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    testJWTIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
}

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	accounts  *MockAccountService
	ledger    *MockLedgerService
	billing   *MockBillingService
	payments  *MockPaymentService
	reporting *MockReportingService
	tenantID  string
	userID    string
	token     string
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.accounts = new(MockAccountService)
	suite.ledger = new(MockLedgerService)
	suite.billing = new(MockBillingService)
	suite.payments = new(MockPaymentService)
	suite.reporting = new(MockReportingService)
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	token, err := signTestToken(suite.userID)
	suite.Require().NoError(err)
	suite.token = token

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret, testJWTIssuer))
	handlers.RegisterTenantRoutes(v1.Group("/tenants/:tenant_id"), &portssvc.ServiceContainer{
		Account:   suite.accounts,
		Ledger:    suite.ledger,
		Billing:   suite.billing,
		Payment:   suite.payments,
		Reporting: suite.reporting,
	})
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.accounts.AssertExpectations(suite.T())
	suite.ledger.AssertExpectations(suite.T())
	suite.billing.AssertExpectations(suite.T())
	suite.payments.AssertExpectations(suite.T())
	suite.reporting.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, fmt.Sprintf("/api/v1/tenants/%s%s", suite.tenantID, path), reader)
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// --- Accounts ---

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1120", Name: "Bank - Sinking Fund", AccountType: domain.Asset}
	created := &domain.Account{AccountID: uuid.NewString(), TenantID: suite.tenantID, Code: "1120", Name: req.Name, AccountType: domain.Asset, IsActive: true}
	suite.accounts.On("CreateAccount", mock.Anything, suite.tenantID, req, suite.userID).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1120", resp.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", fmt.Errorf("%w: parent account not found", apperrors.ErrValidation), http.StatusBadRequest},
		{"duplicate", fmt.Errorf("%w: code 1120", apperrors.ErrDuplicate), http.StatusConflict},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.accounts.On("CreateAccount", mock.Anything, suite.tenantID, mock.Anything, suite.userID).Return(nil, tt.err).Once()
			w := suite.do(http.MethodPost, "/accounts", dto.CreateAccountRequest{Code: "1120", Name: "X", AccountType: domain.Asset})
			suite.Equal(tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				suite.Contains(w.Body.String(), "Failed to create account")
				suite.NotContains(w.Body.String(), assert.AnError.Error())
			}
		})
	}
}

func (suite *HandlerTestSuite) TestCreateAccount_BindingFailure() {
	w := suite.do(http.MethodPost, "/accounts", map[string]string{"code": "1", "name": "X", "accountType": "ASSETS"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.accounts.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *HandlerTestSuite) TestSeedChart() {
	suite.accounts.On("SeedDefaultChart", mock.Anything, suite.tenantID, suite.userID).Return(len(domain.DefaultChart), nil).Once()

	w := suite.do(http.MethodPost, "/accounts/seed", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SeedChartResponse
	suite.decode(w, &resp)
	suite.Equal(len(domain.DefaultChart), resp.Inserted)
}

func (suite *HandlerTestSuite) TestDeleteAccount_Disabled() {
	accountID := uuid.NewString()
	suite.accounts.On("DeleteAccount", mock.Anything, suite.tenantID, accountID, suite.userID).Return(domain.AccountDisabled, nil).Once()

	w := suite.do(http.MethodDelete, "/accounts/"+accountID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DeleteAccountResponse
	suite.decode(w, &resp)
	suite.Equal(domain.AccountDisabled, resp.Result)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.accounts.On("GetAccountByID", mock.Anything, suite.tenantID, accountID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/accounts/"+accountID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestAccountBalance_AsOf() {
	accountID := uuid.NewString()
	asOf := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	suite.ledger.On("GetAccountBalance", mock.Anything, suite.tenantID, accountID, mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.Equal(asOf)
	})).Return(&domain.AccountBalance{
		AccountID:   accountID,
		TotalDebit:  decimal.NewFromInt(500),
		TotalCredit: decimal.NewFromInt(200),
		Balance:     decimal.NewFromInt(300),
	}, nil).Once()

	w := suite.do(http.MethodGet, "/accounts/"+accountID+"/balance?asOf=2024-04-30", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountBalanceResponse
	suite.decode(w, &resp)
	suite.True(decimal.NewFromInt(300).Equal(resp.Balance))
	suite.Equal("2024-04-30", resp.AsOf)
}

func (suite *HandlerTestSuite) TestAccountBalance_BadDate() {
	w := suite.do(http.MethodGet, "/accounts/x/balance?asOf=30-04-2024", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Journal entries ---

func (suite *HandlerTestSuite) journalRequest(debit, credit string) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		Date:      time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		Narration: "Opening balance",
		Lines: []dto.LedgerLineRequest{
			{AccountID: "bank", Side: domain.Debit, Amount: decimal.RequireFromString(debit)},
			{AccountID: "equity", Side: domain.Credit, Amount: decimal.RequireFromString(credit)},
		},
	}
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Success() {
	entry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: "JE-202404-0001", Status: domain.Posted}
	suite.ledger.On("CreateJournalEntry", mock.Anything, mock.MatchedBy(func(in domain.JournalEntryInput) bool {
		return in.TenantID == suite.tenantID && in.CreatedBy == suite.userID &&
			in.SourceType == domain.SourceManual && len(in.Lines) == 2
	})).Return(entry, nil).Once()

	w := suite.do(http.MethodPost, "/journal-entries", suite.journalRequest("1000", "1000"))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.decode(w, &resp)
	suite.Equal("JE-202404-0001", resp.EntryNumber)
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_Unbalanced() {
	suite.ledger.On("CreateJournalEntry", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: debit 1000.00 credit 900.00", apperrors.ErrUnbalanced)).Once()

	w := suite.do(http.MethodPost, "/journal-entries", suite.journalRequest("1000", "900"))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "unbalanced")
}

func (suite *HandlerTestSuite) TestCreateJournalEntry_NonPositiveAmountRejectedAtBinding() {
	w := suite.do(http.MethodPost, "/journal-entries", suite.journalRequest("0", "0"))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledger.AssertNotCalled(suite.T(), "CreateJournalEntry")
}

func (suite *HandlerTestSuite) TestUnitOutstanding() {
	unitID := uuid.NewString()
	suite.ledger.On("GetUnitOutstanding", mock.Anything, suite.tenantID, unitID, (*time.Time)(nil)).
		Return(decimal.RequireFromString("3090"), nil).Once()

	w := suite.do(http.MethodGet, "/units/"+unitID+"/outstanding", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UnitOutstandingResponse
	suite.decode(w, &resp)
	suite.True(decimal.RequireFromString("3090").Equal(resp.Outstanding))
	suite.Empty(resp.AsOf)
}

func (suite *HandlerTestSuite) TestOutstandingSummary() {
	suite.ledger.On("GetTenantOutstandingSummary", mock.Anything, suite.tenantID).Return([]domain.UnitOutstanding{
		{UnitID: "a", Outstanding: decimal.NewFromInt(100)},
		{UnitID: "b", Outstanding: decimal.NewFromInt(250)},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/outstanding", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.OutstandingSummaryResponse
	suite.decode(w, &resp)
	suite.Len(resp.Units, 2)
	suite.True(decimal.NewFromInt(350).Equal(resp.Total))
}

// --- Billing ---

func (suite *HandlerTestSuite) TestGenerateInvoices_Success() {
	suite.billing.On("GenerateMonthlyInvoices", mock.Anything, mock.MatchedBy(func(r domain.GenerationRequest) bool {
		return r.TenantID == suite.tenantID && r.Month == time.April && r.Year == 2024 && r.CreatedBy == suite.userID
	})).Return(&domain.GenerationResult{Count: 2, InvoiceIDs: []string{"i1", "i2"}}, nil).Once()

	w := suite.do(http.MethodPost, "/invoices/generate", dto.GenerateInvoicesRequest{Month: 4, Year: 2024})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.GenerateInvoicesResponse
	suite.decode(w, &resp)
	suite.Equal(2, resp.Count)
}

func (suite *HandlerTestSuite) TestGenerateInvoices_AlreadyGenerated() {
	suite.billing.On("GenerateMonthlyInvoices", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: 04/2024", apperrors.ErrAlreadyGenerated)).Once()

	w := suite.do(http.MethodPost, "/invoices/generate", dto.GenerateInvoicesRequest{Month: 4, Year: 2024})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestGenerateInvoices_Partial() {
	partial := &apperrors.PartialGenerationError{Created: []string{"i1"}, Err: assert.AnError}
	suite.billing.On("GenerateMonthlyInvoices", mock.Anything, mock.Anything).Return(nil, partial).Once()

	w := suite.do(http.MethodPost, "/invoices/generate", dto.GenerateInvoicesRequest{Month: 4, Year: 2024})

	suite.Equal(http.StatusMultiStatus, w.Code)
	var resp dto.PartialGenerationResponse
	suite.decode(w, &resp)
	suite.Equal([]string{"i1"}, resp.InvoiceIDs)
	suite.NotEmpty(resp.Error)
}

func (suite *HandlerTestSuite) TestGenerateInvoices_InvalidMonth() {
	w := suite.do(http.MethodPost, "/invoices/generate", dto.GenerateInvoicesRequest{Month: 13, Year: 2024})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.billing.AssertNotCalled(suite.T(), "GenerateMonthlyInvoices")
}

func (suite *HandlerTestSuite) TestListInvoices_RequiresPeriod() {
	w := suite.do(http.MethodGet, "/invoices", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.billing.On("ListInvoices", mock.Anything, suite.tenantID, 4, 2024).Return([]domain.Invoice{
		{InvoiceID: "i1", InvoiceNumber: "INV-202404-0001", TotalAmount: decimal.NewFromInt(3090)},
	}, nil).Once()
	w = suite.do(http.MethodGet, "/invoices?month=4&year=2024", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListInvoicesResponse
	suite.decode(w, &resp)
	suite.Len(resp.Invoices, 1)
	suite.Equal("INV-202404-0001", resp.Invoices[0].InvoiceNumber)
}

func (suite *HandlerTestSuite) TestCreateUnit_Duplicate() {
	suite.billing.On("CreateUnit", mock.Anything, suite.tenantID, mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: unit A-101", apperrors.ErrDuplicate)).Once()

	w := suite.do(http.MethodPost, "/units", dto.CreateUnitRequest{UnitNumber: "A-101", AreaSqft: decimal.NewFromInt(1000)})
	suite.Equal(http.StatusConflict, w.Code)
}

// --- Payments ---

func (suite *HandlerTestSuite) TestRecordPayment_Success() {
	req := dto.RecordPaymentRequest{
		InvoiceID:     "inv-1",
		Amount:        decimal.NewFromInt(1000),
		PaymentDate:   time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		PaymentMethod: domain.MethodUPI,
	}
	payment := &domain.Payment{PaymentID: uuid.NewString(), InvoiceID: "inv-1", ReceiptNumber: "RCT-20240415-0001", Amount: req.Amount}
	suite.payments.On("RecordManualPayment", mock.Anything, mock.MatchedBy(func(in domain.ManualPaymentInput) bool {
		return in.TenantID == suite.tenantID && in.InvoiceID == "inv-1" && in.Amount.Equal(decimal.NewFromInt(1000)) && in.CreatedBy == suite.userID
	})).Return(payment, nil).Once()

	w := suite.do(http.MethodPost, "/payments", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.PaymentResponse
	suite.decode(w, &resp)
	suite.Equal("RCT-20240415-0001", resp.ReceiptNumber)
}

func (suite *HandlerTestSuite) TestRecordPayment_InvoiceNotFound() {
	suite.payments.On("RecordManualPayment", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodPost, "/payments", dto.RecordPaymentRequest{
		InvoiceID:     "missing",
		Amount:        decimal.NewFromInt(10),
		PaymentDate:   time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		PaymentMethod: domain.MethodCash,
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestRecordPayment_NegativeAmount() {
	w := suite.do(http.MethodPost, "/payments", dto.RecordPaymentRequest{
		InvoiceID:     "inv-1",
		Amount:        decimal.NewFromInt(-5),
		PaymentDate:   time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		PaymentMethod: domain.MethodCash,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.payments.AssertNotCalled(suite.T(), "RecordManualPayment")
}

// --- Reports ---

func (suite *HandlerTestSuite) TestTrialBalance() {
	asOf := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
	suite.reporting.On("TrialBalance", mock.Anything, suite.tenantID, asOf).Return([]domain.TrialBalanceRow{
		{AccountID: "ar", AccountCode: "1210", Debit: decimal.NewFromInt(3000), Credit: decimal.Zero},
		{AccountID: "inc", AccountCode: "3100", Debit: decimal.Zero, Credit: decimal.NewFromInt(3000)},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/reports/trial-balance?asOf=2024-04-30", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.decode(w, &resp)
	suite.True(resp.Balanced)
	suite.Equal("2024-04-30", resp.AsOf)
}

func (suite *HandlerTestSuite) TestReconcileUnit() {
	suite.reporting.On("ReconcileUnit", mock.Anything, suite.tenantID, "u1").Return(&domain.UnitReconciliation{
		UnitID:            "u1",
		InvoiceBalanceDue: decimal.Zero,
		LedgerOutstanding: decimal.NewFromInt(-910),
		Difference:        decimal.NewFromInt(-910),
		InSync:            false,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/units/u1/reconciliation", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ReconciliationResponse
	suite.decode(w, &resp)
	suite.False(resp.InSync)
}

func (suite *HandlerTestSuite) TestUnauthorized() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/"+suite.tenantID+"/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
