package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/dto"
	"github.com/SscSPs/ledger_ingest/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests that read the permanent ledger
type ledgerHandler struct {
	reportingService  portssvc.ReportingService
	validationService portssvc.ValidationSvc
}

func newLedgerHandler(rs portssvc.ReportingService, vs portssvc.ValidationSvc) *ledgerHandler {
	return &ledgerHandler{reportingService: rs, validationService: vs}
}

// registerLedgerRoutes registers routes that read the permanent ledger
func registerLedgerRoutes(rg *gin.RouterGroup, rs portssvc.ReportingService, vs portssvc.ValidationSvc) {
	h := newLedgerHandler(rs, vs)

	rg.GET("/entries", h.listEntries)
	rg.GET("/ledger/validation", h.validateLedger)
}

// listEntries godoc
// @Summary List ledger entries
// @Description Pages through permanent entries ordered by date, set id and entry id
// @Tags ledger
// @Produce json
// @Param from query string false "First period (YYYY-MM)"
// @Param to query string false "Last period (YYYY-MM)"
// @Param setID query string false "Transaction set id"
// @Param code query int false "Subject code"
// @Param kind query string false "Comma separated leg kinds"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}

	entries, next, err := h.reportingService.ListEntries(c.Request.Context(), filter, params.Limit, params.Token())
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{Entries: entries, NextToken: next})
}

// validateLedger godoc
// @Summary Validate the ledger
// @Description Checks that every permanent transaction set in range sums to zero
// @Tags ledger
// @Produce json
// @Param from query string false "First period (YYYY-MM)"
// @Param to query string false "Last period (YYYY-MM)"
// @Success 200 {object} domain.ValidationReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to validate ledger"
// @Security BearerAuth
// @Router /ledger/validation [get]
func (h *ledgerHandler) validateLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, logger, err, "Failed to validate ledger")
		return
	}

	report, err := h.validationService.ValidateLedger(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to validate ledger")
		return
	}
	c.JSON(http.StatusOK, report)
}
