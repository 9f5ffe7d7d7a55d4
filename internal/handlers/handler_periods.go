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

// periodHandler handles HTTP requests for monthly closing
type periodHandler struct {
	periodCloseService portssvc.PeriodCloseSvc
}

// newPeriodHandler creates a new periodHandler
func newPeriodHandler(ps portssvc.PeriodCloseSvc) *periodHandler {
	return &periodHandler{periodCloseService: ps}
}

// registerPeriodRoutes registers routes related to period close
func registerPeriodRoutes(rg *gin.RouterGroup, ps portssvc.PeriodCloseSvc) {
	h := newPeriodHandler(ps)

	periods := rg.Group("/periods/:period")
	{
		periods.GET("", h.getState)
		periods.POST("/close", h.close)
	}
}

type closeQuery struct {
	Reclose bool `form:"reclose"`
}

// getState godoc
// @Summary Get period state
// @Description Reports whether a month is OPEN or CLOSED
// @Tags periods
// @Produce json
// @Param period path string true "Period (YYYY-MM)"
// @Success 200 {object} dto.PeriodStateResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to read period state"
// @Security BearerAuth
// @Router /periods/{period} [get]
func (h *periodHandler) getState(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := domain.ParsePeriod(c.Param("period"))
	if err != nil {
		respondError(c, logger, err, "Failed to read period state")
		return
	}

	state, err := h.periodCloseService.State(c.Request.Context(), period)
	if err != nil {
		respondError(c, logger, err, "Failed to read period state")
		return
	}
	c.JSON(http.StatusOK, dto.PeriodStateResponse{Period: period.String(), State: state})
}

// close godoc
// @Summary Close a period
// @Description Zeroes the month's income and expense accounts into retained earnings.
// @Description A closed month is left alone unless reclose is set.
// @Tags periods
// @Produce json
// @Param period path string true "Period (YYYY-MM)"
// @Param reclose query bool false "Replace existing closing legs"
// @Success 200 {object} domain.CloseResult
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to close period"
// @Security BearerAuth
// @Router /periods/{period}/close [post]
func (h *periodHandler) close(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := domain.ParsePeriod(c.Param("period"))
	if err != nil {
		respondError(c, logger, err, "Failed to close period")
		return
	}
	var q closeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("period", period.String()), slog.Bool("reclose", q.Reclose))
	logger.Info("Received request to close period")

	result, err := h.periodCloseService.Close(c.Request.Context(), period, q.Reclose)
	if err != nil {
		respondError(c, logger, err, "Failed to close period")
		return
	}
	c.JSON(http.StatusOK, result)
}
