package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		now:              time.Now,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
	}
	rg.GET("/units/:unit_id/reconciliation", h.reconcileUnit)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOfPtr, err := parseAsOf(c)
	if err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", c.Query("asOf")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}
	asOf := h.now()
	if asOfPtr != nil {
		asOf = *asOfPtr
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("tenant_id"), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(rows, asOf))
}

// reconcileUnit godoc
// @Summary Reconcile a unit's invoices with the ledger
// @Description Compares the sum of invoice balances due with the unit's receivable balance. The ledger is authoritative.
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param unit_id path string true "Unit ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} map[string]string "Unit not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/units/{unit_id}/reconciliation [get]
func (h *reportingHandler) reconcileUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	result, err := h.reportingService.ReconcileUnit(c.Request.Context(), c.Param("tenant_id"), c.Param("unit_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile unit")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(result))
}
