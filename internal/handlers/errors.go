package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/SscSPs/ledger_ingest/internal/dto"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses.
// failMsg is the body sent for unexpected errors.
func respondError(c *gin.Context, logger *slog.Logger, err error, failMsg string) {
	var unbalanced *domain.UnbalancedSetsError
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &unbalanced):
		logger.Warn("Unbalanced transaction sets", slog.Int("unbalanced", len(unbalanced.Report.Unbalanced)))
		c.JSON(http.StatusUnprocessableEntity, dto.UnbalancedResponse{
			Error:  unbalanced.Report.Message,
			Report: unbalanced.Report,
		})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Invalid input", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting ledger state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500:
		logger.Warn(appErr.Message, slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	default:
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
	}
}
