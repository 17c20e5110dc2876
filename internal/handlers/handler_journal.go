package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler exposes the ledger core: posting, reading entries and receivable balances.
type journalHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newJournalHandler(ls portssvc.LedgerSvcFacade) *journalHandler {
	return &journalHandler{ledgerService: ls}
}

// RegisterJournalRoutes registers journal entry and outstanding routes under a tenant group.
func RegisterJournalRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	registerValidators()
	h := newJournalHandler(ledgerService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:entry_id", h.getJournalEntry)
	}

	rg.GET("/outstanding", h.getOutstandingSummary)
	rg.GET("/units/:unit_id/outstanding", h.getUnitOutstanding)
}

// createJournalEntry godoc
// @Summary Post a journal entry
// @Description Validates and posts a balanced double-entry journal. Entries are immutable once posted.
// @Tags journal
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry with its debit and credit lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid lines or accounts"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Entry number collision"
// @Failure 422 {object} map[string]string "Debits and credits do not balance"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	entry, err := h.ledgerService.CreateJournalEntry(c.Request.Context(), req.ToJournalEntryInput(c.Param("tenant_id"), userID))
	if err != nil {
		respondError(c, logger, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Tags journal
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   entry_id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries/{entry_id} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entry, err := h.ledgerService.GetJournalEntry(c.Request.Context(), c.Param("tenant_id"), c.Param("entry_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Newest first, paginated with an opaque token
// @Tags journal
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	resp, err := h.ledgerService.ListJournalEntries(c.Request.Context(), c.Param("tenant_id"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getUnitOutstanding godoc
// @Summary Get a unit's outstanding balance
// @Description Receivable balance of the unit derived from the ledger, optionally as of a date
// @Tags journal
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   unit_id path string true "Unit ID"
// @Param   asOf query string false "Cut-off date (YYYY-MM-DD)"
// @Success 200 {object} dto.UnitOutstandingResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/units/{unit_id}/outstanding [get]
func (h *journalHandler) getUnitOutstanding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, err := parseAsOf(c)
	if err != nil {
		bindError(c, logger, err)
		return
	}

	unitID := c.Param("unit_id")
	outstanding, err := h.ledgerService.GetUnitOutstanding(c.Request.Context(), c.Param("tenant_id"), unitID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate outstanding")
		return
	}

	resp := dto.UnitOutstandingResponse{UnitID: unitID, Outstanding: outstanding}
	if asOf != nil {
		resp.AsOf = asOf.Format("2006-01-02")
	}
	c.JSON(http.StatusOK, resp)
}

// getOutstandingSummary godoc
// @Summary Outstanding balances of all units
// @Tags journal
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.OutstandingSummaryResponse
// @Security BearerAuth
// @Router /tenants/{tenant_id}/outstanding [get]
func (h *journalHandler) getOutstandingSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rows, err := h.ledgerService.GetTenantOutstandingSummary(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to summarise outstanding")
		return
	}
	c.JSON(http.StatusOK, dto.ToOutstandingSummaryResponse(rows))
}
