package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	"github.com/SscSPs/society_ledger/internal/core/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/handlers"
	"github.com/SscSPs/society_ledger/internal/platform/config"
	"github.com/SscSPs/society_ledger/internal/repositories/database/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAPIFlow drives a month of billing through the HTTP surface against the
// in-memory store: seed, set up, invoice, pay, reconcile.
func TestAPIFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := services.NewServiceContainer(memory.NewRepositoryProvider(memory.NewStore()))

	r := gin.New()
	handlers.RegisterRoutes(r, &config.Config{
		JWTSecret:    testJWTSecret,
		JWTIssuer:    testJWTIssuer,
		IsProduction: true,
	}, container, handlers.RouteOptions{})

	token, err := signTestToken("treasurer-1")
	require.NoError(t, err)
	base := "/api/v1/tenants/society-1"

	call := func(method, path string, body any, out any) int {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, base+path, &buf)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if out != nil && w.Code < http.StatusMultipleChoices {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
		}
		return w.Code
	}

	var seeded dto.SeedChartResponse
	require.Equal(t, http.StatusOK, call(http.MethodPost, "/accounts/seed", nil, &seeded))
	assert.Equal(t, len(domain.DefaultChart), seeded.Inserted)
	require.Equal(t, http.StatusOK, call(http.MethodPost, "/accounts/seed", nil, &seeded))
	assert.Zero(t, seeded.Inserted)

	var unit domain.Unit
	require.Equal(t, http.StatusCreated, call(http.MethodPost, "/units", dto.CreateUnitRequest{
		UnitNumber: "A-101",
		AreaSqft:   decimal.NewFromInt(1000),
		Member:     &dto.MemberRequest{Name: "Asha"},
	}, &unit))
	require.Equal(t, http.StatusCreated, call(http.MethodPost, "/charge-heads", dto.CreateChargeHeadRequest{
		Name:            "Maintenance",
		CalculationType: domain.PerSqft,
		Rate:            decimal.RequireFromString("2.5"),
	}, nil))

	var generated dto.GenerateInvoicesResponse
	require.Equal(t, http.StatusCreated, call(http.MethodPost, "/invoices/generate", dto.GenerateInvoicesRequest{Month: 4, Year: 2024}, &generated))
	require.Equal(t, 1, generated.Count)
	assert.Equal(t, http.StatusConflict, call(http.MethodPost, "/invoices/generate", dto.GenerateInvoicesRequest{Month: 4, Year: 2024}, nil))

	var invoice dto.InvoiceResponse
	require.Equal(t, http.StatusOK, call(http.MethodGet, "/invoices/"+generated.InvoiceIDs[0], nil, &invoice))
	assert.Equal(t, "INV-202404-0001", invoice.InvoiceNumber)
	assert.True(t, decimal.NewFromInt(2500).Equal(invoice.TotalAmount), invoice.TotalAmount.String())

	var outstanding dto.UnitOutstandingResponse
	require.Equal(t, http.StatusOK, call(http.MethodGet, "/units/"+unit.UnitID+"/outstanding", nil, &outstanding))
	assert.True(t, decimal.NewFromInt(2500).Equal(outstanding.Outstanding))

	var payment dto.PaymentResponse
	require.Equal(t, http.StatusCreated, call(http.MethodPost, "/payments", map[string]any{
		"invoiceID":     invoice.InvoiceID,
		"amount":        "2500",
		"paymentDate":   "2024-04-15T00:00:00Z",
		"paymentMethod": "UPI",
	}, &payment))
	assert.Equal(t, "RCT-20240415-0001", payment.ReceiptNumber)

	require.Equal(t, http.StatusOK, call(http.MethodGet, "/invoices/"+invoice.InvoiceID, nil, &invoice))
	assert.Equal(t, domain.InvoicePaid, invoice.Status)
	assert.True(t, invoice.BalanceDue.IsZero())

	var recon dto.ReconciliationResponse
	require.Equal(t, http.StatusOK, call(http.MethodGet, "/units/"+unit.UnitID+"/reconciliation", nil, &recon))
	assert.True(t, recon.InSync)

	var tb dto.TrialBalanceResponse
	require.Equal(t, http.StatusOK, call(http.MethodGet, "/reports/trial-balance?asOf=2024-04-30", nil, &tb))
	assert.True(t, tb.Balanced)

	var payments []dto.PaymentResponse
	require.Equal(t, http.StatusOK, call(http.MethodGet, "/invoices/"+invoice.InvoiceID+"/payments", nil, &payments))
	assert.Len(t, payments, 1)

	var page dto.ListJournalEntriesResponse
	require.Equal(t, http.StatusOK, call(http.MethodGet, "/journal-entries?limit=10", nil, &page))
	assert.Len(t, page.Entries, 2)
}
