package handlers

import (
	"net/http"

	"github.com/SscSPs/ledger_ingest/internal/middleware"
	"github.com/gin-gonic/gin"
)

// getHealth godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func getHealth(ctx *gin.Context) {
	ctx.String(http.StatusOK, "OK")
}

// getWhoAmI godoc
// @Summary Show the authenticated operator.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /whoami [get]
func getWhoAmI(ctx *gin.Context) {
	subject, _ := middleware.GetSubjectFromContext(ctx)
	ctx.JSON(http.StatusOK, gin.H{"subject": subject})
}
