package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_ingest/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/dto"
	"github.com/SscSPs/ledger_ingest/internal/importer"
	"github.com/SscSPs/ledger_ingest/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxUploadBytes bounds a staged CSV upload.
const maxUploadBytes = 32 << 20

// stagingHandler handles HTTP requests for the staging area
type stagingHandler struct {
	stagingService    portssvc.StagingSvc
	validationService portssvc.ValidationSvc
	uploads           portsrepo.UploadStore
}

// newStagingHandler creates a new stagingHandler
func newStagingHandler(ss portssvc.StagingSvc, vs portssvc.ValidationSvc, uploads portsrepo.UploadStore) *stagingHandler {
	return &stagingHandler{
		stagingService:    ss,
		validationService: vs,
		uploads:           uploads,
	}
}

// registerStagingRoutes registers routes related to the staging area
func registerStagingRoutes(rg *gin.RouterGroup, ss portssvc.StagingSvc, vs portssvc.ValidationSvc, uploads portsrepo.UploadStore) {
	h := newStagingHandler(ss, vs, uploads)

	staging := rg.Group("/staging")
	{
		staging.POST("", h.stage)
		staging.DELETE("", h.clear)
		staging.GET("/validation", h.validate)
	}
}

type stageQuery struct {
	Clear bool `form:"clear"`
	Force bool `form:"force"`
}

// stage godoc
// @Summary Stage entries
// @Description Appends entries to the staging area, either from a multipart CSV upload (field "file") or a JSON body
// @Tags staging
// @Accept multipart/form-data,json
// @Produce json
// @Param file formData file false "Staging CSV"
// @Param clear query bool false "Empty staging first"
// @Param force query bool false "Replace rows previously staged from the same file"
// @Param request body dto.StageRequest false "JSON staging request"
// @Success 201 {object} dto.StageResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "File already staged"
// @Failure 500 {object} map[string]string "Failed to stage entries"
// @Security BearerAuth
// @Router /staging [post]
func (h *stagingHandler) stage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var (
		req  domain.StageRequest
		data []byte
		err  error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var q stageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
			return
		}
		req, data, err = h.readUpload(c)
		if err != nil {
			respondError(c, logger, err, "Failed to read upload")
			return
		}
		req.Clear, req.Force = q.Clear, q.Force
	} else {
		var body dto.StageRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			logger.Warn("Invalid staging request body", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
		if req, err = body.ToDomain(); err != nil {
			respondError(c, logger, err, "Failed to stage entries")
			return
		}
	}

	logger = logger.With(slog.String("source_file", req.SourceFile), slog.Int("rows", len(req.Entries)))
	logger.Info("Received request to stage entries")

	result, err := h.stagingService.Stage(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to stage entries")
		return
	}

	resp := dto.StageResponse{StageResult: *result}
	if data != nil && h.uploads != nil {
		if _, err := h.uploads.Save(req.SourceFile, bytes.NewReader(data)); err != nil {
			logger.Warn("Upload copy not kept", slog.String("error", err.Error()))
			resp.Warning = err.Error()
		}
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *stagingHandler) readUpload(c *gin.Context) (domain.StageRequest, []byte, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return domain.StageRequest{}, nil, fmt.Errorf("%w: multipart field \"file\" required", apperrors.ErrValidation)
	}
	if header.Size > maxUploadBytes {
		return domain.StageRequest{}, nil, fmt.Errorf("%w: upload exceeds %d bytes", apperrors.ErrValidation, maxUploadBytes)
	}
	f, err := header.Open()
	if err != nil {
		return domain.StageRequest{}, nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.StageRequest{}, nil, fmt.Errorf("reading upload: %w", err)
	}
	name := filepath.Base(header.Filename)
	entries, err := importer.ParseStagingCSV(bytes.NewReader(data), name)
	if err != nil {
		return domain.StageRequest{}, nil, err
	}
	return domain.StageRequest{SourceFile: name, Entries: entries}, data, nil
}

// clear godoc
// @Summary Clear staging
// @Description Deletes every staged row
// @Tags staging
// @Produce json
// @Success 200 {object} dto.ClearStagingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to clear staging"
// @Security BearerAuth
// @Router /staging [delete]
func (h *stagingHandler) clear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	n, err := h.stagingService.Clear(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to clear staging")
		return
	}
	logger.Info("Staging cleared", slog.Int64("deleted", n))
	c.JSON(http.StatusOK, dto.ClearStagingResponse{Deleted: n})
}

// validate godoc
// @Summary Validate staging
// @Description Checks that every staged transaction set sums to zero
// @Tags staging
// @Produce json
// @Success 200 {object} domain.ValidationReport
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to validate staging"
// @Security BearerAuth
// @Router /staging/validation [get]
func (h *stagingHandler) validate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.validationService.ValidateStaging(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to validate staging")
		return
	}
	c.JSON(http.StatusOK, report)
}
