package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// RegisterPaymentRoutes registers payment routes under a tenant group.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	registerValidators()
	h := newPaymentHandler(paymentService)

	rg.POST("/payments", h.recordPayment)
	rg.GET("/payments/:payment_id", h.getPayment)
	rg.GET("/invoices/:invoice_id/payments", h.listInvoicePayments)
}

// recordPayment godoc
// @Summary Record a manual payment
// @Description Posts debit bank / credit receivable and settles the invoice atomically. Amounts above the balance due are accepted and the balance is clamped at zero.
// @Tags payments
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param payment body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid amount or deposit account"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Receipt number collision"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	payment, err := h.paymentService.RecordManualPayment(c.Request.Context(), req.ToManualPaymentInput(c.Param("tenant_id"), userID))
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("receipt_number", payment.ReceiptNumber))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// getPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/payments/{payment_id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("tenant_id"), c.Param("payment_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// listInvoicePayments godoc
// @Summary List payments against an invoice
// @Tags payments
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param invoice_id path string true "Invoice ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/invoices/{invoice_id}/payments [get]
func (h *paymentHandler) listInvoicePayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payments, err := h.paymentService.ListPaymentsForInvoice(c.Request.Context(), c.Param("tenant_id"), c.Param("invoice_id"))
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponses(payments))
}
