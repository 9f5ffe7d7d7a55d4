package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/dto"
	"github.com/SscSPs/ledger_ingest/internal/middleware"
	"github.com/gin-gonic/gin"
)

// confirmationHandler handles HTTP requests that promote staging into the ledger
type confirmationHandler struct {
	confirmationService portssvc.ConfirmationSvc
}

// newConfirmationHandler creates a new confirmationHandler
func newConfirmationHandler(cs portssvc.ConfirmationSvc) *confirmationHandler {
	return &confirmationHandler{confirmationService: cs}
}

// registerConfirmationRoutes registers routes related to confirmation
func registerConfirmationRoutes(rg *gin.RouterGroup, cs portssvc.ConfirmationSvc) {
	h := newConfirmationHandler(cs)

	confirmations := rg.Group("/confirmations")
	{
		confirmations.POST("", h.confirm)
		confirmations.GET("/preview", h.preview)
	}
	rg.POST("/uploads/sync", h.syncUploads)
}

// confirm godoc
// @Summary Confirm staging
// @Description Validates staging and atomically moves it into the permanent ledger.
// @Description Rows with an entry id already in the ledger replace the old row.
// @Tags confirmations
// @Produce json
// @Success 200 {object} dto.ConfirmResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} dto.UnbalancedResponse "Unbalanced transaction sets"
// @Failure 500 {object} map[string]string "Failed to confirm staging"
// @Security BearerAuth
// @Router /confirmations [post]
func (h *confirmationHandler) confirm(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if subject, ok := middleware.GetSubjectFromContext(c); ok {
		logger = logger.With(slog.String("operator", subject))
	}
	logger.Info("Received request to confirm staging")

	result, err := h.confirmationService.Confirm(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to confirm staging")
		return
	}

	if result.FileWarning != nil {
		logger.Warn("Staging confirmed but files were not moved", slog.String("error", result.FileWarning.Error()))
	}
	c.JSON(http.StatusOK, dto.ToConfirmResponse(result))
}

// preview godoc
// @Summary Preview confirmation
// @Description Reports what the next confirmation would do without writing
// @Tags confirmations
// @Produce json
// @Success 200 {object} domain.ConfirmPreview
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to preview confirmation"
// @Security BearerAuth
// @Router /confirmations/preview [get]
func (h *confirmationHandler) preview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	preview, err := h.confirmationService.Preview(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to preview confirmation")
		return
	}
	c.JSON(http.StatusOK, preview)
}

// syncUploads godoc
// @Summary Move confirmed uploads
// @Description Moves waiting uploads whose rows are no longer staged into the confirmed area
// @Tags confirmations
// @Produce json
// @Success 200 {object} dto.SyncFilesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to sync uploads"
// @Security BearerAuth
// @Router /uploads/sync [post]
func (h *confirmationHandler) syncUploads(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	moved, err := h.confirmationService.SyncUploads(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to sync uploads")
		return
	}
	c.JSON(http.StatusOK, dto.SyncFilesResponse{Moved: moved})
}
