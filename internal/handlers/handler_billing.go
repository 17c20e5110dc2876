package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/society_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// billingHandler handles billing setup and invoice generation.
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
}

func newBillingHandler(bs portssvc.BillingSvcFacade) *billingHandler {
	return &billingHandler{billingService: bs}
}

// RegisterBillingRoutes registers billing routes under a tenant group.
func RegisterBillingRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	registerValidators()
	h := newBillingHandler(billingService)

	rg.GET("/billing-config", h.getBillingConfig)
	rg.PUT("/billing-config", h.upsertBillingConfig)

	heads := rg.Group("/charge-heads")
	{
		heads.POST("", h.createChargeHead)
		heads.GET("", h.listChargeHeads)
	}

	units := rg.Group("/units")
	{
		units.POST("", h.createUnit)
		units.GET("", h.listUnits)
		units.PUT("/:unit_id/overrides", h.setRateOverride)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("/generate", h.generateInvoices)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoice_id", h.getInvoice)
	}
}

// getBillingConfig godoc
// @Summary Get the billing config
// @Description Returns the stored config, or the defaults when none was saved
// @Tags billing
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {object} domain.BillingConfig
// @Security BearerAuth
// @Router /tenants/{tenant_id}/billing-config [get]
func (h *billingHandler) getBillingConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cfg, err := h.billingService.GetBillingConfig(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve billing config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// upsertBillingConfig godoc
// @Summary Set the billing config
// @Tags billing
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param config body dto.UpsertBillingConfigRequest true "Due day, interest rate and grace days"
// @Success 200 {object} domain.BillingConfig
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/billing-config [put]
func (h *billingHandler) upsertBillingConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertBillingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	cfg, err := h.billingService.UpsertBillingConfig(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to save billing config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// createChargeHead godoc
// @Summary Create a charge head
// @Tags billing
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param head body dto.CreateChargeHeadRequest true "Charge head"
// @Success 201 {object} domain.ChargeHead
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/charge-heads [post]
func (h *billingHandler) createChargeHead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateChargeHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	head, err := h.billingService.CreateChargeHead(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create charge head")
		return
	}
	c.JSON(http.StatusCreated, head)
}

// listChargeHeads godoc
// @Summary List charge heads
// @Tags billing
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {array} domain.ChargeHead
// @Security BearerAuth
// @Router /tenants/{tenant_id}/charge-heads [get]
func (h *billingHandler) listChargeHeads(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	heads, err := h.billingService.ListChargeHeads(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list charge heads")
		return
	}
	c.JSON(http.StatusOK, heads)
}

// createUnit godoc
// @Summary Create a unit
// @Tags billing
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param unit body dto.CreateUnitRequest true "Unit and optional member"
// @Success 201 {object} domain.Unit
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Unit number already exists"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/units [post]
func (h *billingHandler) createUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	unit, err := h.billingService.CreateUnit(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create unit")
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// listUnits godoc
// @Summary List units
// @Tags billing
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Success 200 {array} domain.Unit
// @Security BearerAuth
// @Router /tenants/{tenant_id}/units [get]
func (h *billingHandler) listUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	units, err := h.billingService.ListUnits(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list units")
		return
	}
	c.JSON(http.StatusOK, units)
}

// setRateOverride godoc
// @Summary Override a charge head's rate for one unit
// @Tags billing
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param unit_id path string true "Unit ID"
// @Param override body dto.SetRateOverrideRequest true "Override"
// @Success 200 {object} domain.UnitRateOverride
// @Failure 404 {object} map[string]string "Unit or charge head not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/units/{unit_id}/overrides [put]
func (h *billingHandler) setRateOverride(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetRateOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	override, err := h.billingService.SetRateOverride(c.Request.Context(), c.Param("tenant_id"), c.Param("unit_id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to set rate override")
		return
	}
	c.JSON(http.StatusOK, override)
}

// generateInvoices godoc
// @Summary Generate monthly invoices
// @Description Bills every billable unit for the month. Each invoice is posted to the ledger in its own transaction; a failure part way returns 207 with the invoices already created.
// @Tags invoices
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param request body dto.GenerateInvoicesRequest true "Billing period"
// @Success 201 {object} dto.GenerateInvoicesResponse
// @Success 207 {object} dto.PartialGenerationResponse
// @Failure 400 {object} map[string]string "Invalid period or missing accounts"
// @Failure 409 {object} map[string]string "Invoices already generated for the period"
// @Failure 500 {object} map[string]string "Failed to generate invoices"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/invoices/generate [post]
func (h *billingHandler) generateInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GenerateInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to generate invoices", slog.Int("month", req.Month), slog.Int("year", req.Year))

	result, err := h.billingService.GenerateMonthlyInvoices(c.Request.Context(), domain.GenerationRequest{
		TenantID:    c.Param("tenant_id"),
		Month:       time.Month(req.Month),
		Year:        req.Year,
		CreatedBy:   userID,
		InvoiceDate: req.InvoiceDate,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to generate invoices")
		return
	}
	c.JSON(http.StatusCreated, dto.GenerateInvoicesResponse{Count: result.Count, InvoiceIDs: result.InvoiceIDs})
}

// listInvoices godoc
// @Summary List a period's invoices
// @Tags invoices
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param month query int true "Billing month"
// @Param year query int true "Billing year"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/invoices [get]
func (h *billingHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	invoices, err := h.billingService.ListInvoices(c.Request.Context(), c.Param("tenant_id"), params.Month, params.Year)
	if err != nil {
		respondError(c, logger, err, "Failed to list invoices")
		return
	}
	resp := dto.ListInvoicesResponse{Invoices: make([]dto.InvoiceResponse, len(invoices))}
	for i := range invoices {
		resp.Invoices[i] = dto.ToInvoiceResponse(&invoices[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/invoices/{invoice_id} [get]
func (h *billingHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	inv, err := h.billingService.GetInvoice(c.Request.Context(), c.Param("tenant_id"), c.Param("invoice_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}
