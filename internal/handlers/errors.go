package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/society_ledger/internal/apperrors"
	"github.com/SscSPs/society_ledger/internal/dto"
	"github.com/SscSPs/society_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnbalanced):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrAlreadyGenerated),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrNumberingCollision):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err. Client errors echo the
// service message; server errors hide it behind fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var partial *apperrors.PartialGenerationError
	if errors.As(err, &partial) {
		logger.Error("Invoice generation stopped part way",
			slog.Int("created", len(partial.Created)),
			slog.String("error", err.Error()))
		c.JSON(http.StatusMultiStatus, dto.PartialGenerationResponse{
			Error:      partial.Err.Error(),
			InvoiceIDs: partial.Created,
		})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindError reports a request that failed binding or validation.
func bindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// requireUser returns the authenticated user ID or aborts with 401.
func requireUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// parseAsOf reads the optional asOf query parameter (YYYY-MM-DD).
// A nil result means "no cut-off".
func parseAsOf(c *gin.Context) (*time.Time, error) {
	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	if params.AsOf == "" {
		return nil, nil
	}
	asOf, err := time.Parse("2006-01-02", params.AsOf)
	if err != nil {
		return nil, err
	}
	return &asOf, nil
}
