package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/dto"
	"github.com/SscSPs/ledger_ingest/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to ledger reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/sets", h.getSetSummaries)
		reportingGroup.GET("/cashflow", h.getCashflow)
		reportingGroup.GET("/account-balances", h.getAccountBalances)
		reportingGroup.GET("/summary", h.getTableSummary)
		reportingGroup.GET("/sources", h.getSourceFiles)
		reportingGroup.GET("/financial-status", h.getFinancialStatus)
		reportingGroup.GET("/monthly-trend", h.getMonthlyTrend)
		reportingGroup.GET("/closing-status", h.getClosingStatus)
		reportingGroup.GET("/recent-confirmations", h.getRecentConfirmations)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Per-code debit, credit and net totals of the permanent ledger, excluding zeroing legs
// @Tags reports
// @Produce json
// @Param asOf query string false "Last period included (YYYY-MM)"
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, err := dto.ParseOptionalPeriod(c.Query("asOf"))
	if err != nil {
		logger.Warn("Invalid asOf period", slog.String("asOf", c.Query("asOf")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period format. Use YYYY-MM"})
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(tb.Rows)))
	c.JSON(http.StatusOK, tb)
}

// getSetSummaries godoc
// @Summary List transaction sets
// @Description Per-set entry count, balance and rendered legs of staging or the ledger
// @Tags reports
// @Produce json
// @Param relation query string false "staging or ledger" default(ledger)
// @Param from query string false "First period (YYYY-MM)"
// @Param to query string false "Last period (YYYY-MM)"
// @Param setID query string false "Transaction set id"
// @Success 200 {array} domain.SetSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/sets [get]
func (h *reportingHandler) getSetSummaries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	relation, err := domain.ParseRelation(c.Query("relation"))
	if err != nil {
		respondError(c, logger, err, "Failed to list transaction sets")
		return
	}
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, logger, err, "Failed to list transaction sets")
		return
	}

	sets, err := h.reportingService.SetSummaries(c.Request.Context(), relation, filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list transaction sets")
		return
	}
	c.JSON(http.StatusOK, sets)
}

// getCashflow godoc
// @Summary Cash movement per set
// @Description Net change of the cash and bank accounts (100-102) per date, set and remark
// @Tags reports
// @Produce json
// @Param relation query string false "staging or ledger" default(ledger)
// @Param from query string false "First period (YYYY-MM)"
// @Param to query string false "Last period (YYYY-MM)"
// @Success 200 {array} domain.CashflowRow
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/cashflow [get]
func (h *reportingHandler) getCashflow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	relation, err := domain.ParseRelation(c.Query("relation"))
	if err != nil {
		respondError(c, logger, err, "Failed to generate cashflow")
		return
	}
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		respondError(c, logger, err, "Failed to generate cashflow")
		return
	}

	rows, err := h.reportingService.Cashflow(c.Request.Context(), relation, filter)
	if err != nil {
		respondError(c, logger, err, "Failed to generate cashflow")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// getAccountBalances godoc
// @Summary Account balances per period
// @Description Per-code per-month balances of the permanent ledger
// @Tags reports
// @Produce json
// @Param from query string false "First period (YYYY-MM)"
// @Param to query string false "Last period (YYYY-MM)"
// @Success 200 {array} domain.AccountPeriodBalance
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/account-balances [get]
func (h *reportingHandler) getAccountBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := dto.ParseOptionalPeriod(c.Query("from"))
	if err != nil {
		respondError(c, logger, err, "Failed to generate account balances")
		return
	}
	to, err := dto.ParseOptionalPeriod(c.Query("to"))
	if err != nil {
		respondError(c, logger, err, "Failed to generate account balances")
		return
	}

	balances, err := h.reportingService.AccountBalances(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate account balances")
		return
	}
	c.JSON(http.StatusOK, balances)
}

// getTableSummary godoc
// @Summary Summarize staging and ledger
// @Tags reports
// @Produce json
// @Success 200 {array} domain.TableSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getTableSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.reportingService.TableSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to summarize tables")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getSourceFiles godoc
// @Summary List staged source files
// @Tags reports
// @Produce json
// @Success 200 {array} domain.SourceFileSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/sources [get]
func (h *reportingHandler) getSourceFiles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	files, err := h.reportingService.SourceFiles(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list source files")
		return
	}
	c.JSON(http.StatusOK, files)
}

// getFinancialStatus godoc
// @Summary Non-zero account balances by category
// @Tags reports
// @Produce json
// @Success 200 {array} domain.FinancialStatusRow
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/financial-status [get]
func (h *reportingHandler) getFinancialStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.FinancialStatus(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to generate financial status")
		return
	}
	c.JSON(http.StatusOK, rows)
}

type trendQuery struct {
	Months int `form:"months" binding:"omitempty,min=1,max=120"`
}

// getMonthlyTrend godoc
// @Summary Income and expense per month
// @Tags reports
// @Produce json
// @Param months query int false "Number of months" default(12)
// @Success 200 {array} domain.MonthlyTrendRow
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/monthly-trend [get]
func (h *reportingHandler) getMonthlyTrend(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q trendQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rows, err := h.reportingService.MonthlyTrend(c.Request.Context(), q.Months)
	if err != nil {
		respondError(c, logger, err, "Failed to generate monthly trend")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// getClosingStatus godoc
// @Summary Closed and unclosed months
// @Tags reports
// @Produce json
// @Success 200 {object} domain.ClosingStatus
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/closing-status [get]
func (h *reportingHandler) getClosingStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, err := h.reportingService.ClosingStatus(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to generate closing status")
		return
	}
	c.JSON(http.StatusOK, status)
}

type recentQuery struct {
	Days int `form:"days" binding:"omitempty,min=1,max=366"`
}

// getRecentConfirmations godoc
// @Summary Confirmations per day
// @Tags reports
// @Produce json
// @Param days query int false "Look-back window in days" default(7)
// @Success 200 {array} domain.ConfirmationDay
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/recent-confirmations [get]
func (h *reportingHandler) getRecentConfirmations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q recentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	days, err := h.reportingService.RecentConfirmations(c.Request.Context(), q.Days)
	if err != nil {
		respondError(c, logger, err, "Failed to list recent confirmations")
		return
	}
	c.JSON(http.StatusOK, days)
}
