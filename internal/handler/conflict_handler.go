package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	"github.com/noah-isme/plan-conflicts-api/internal/middleware"
	"github.com/noah-isme/plan-conflicts-api/internal/service"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
	"github.com/noah-isme/plan-conflicts-api/pkg/response"
)

type conflictService interface {
	ConflictList(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictListResponse, bool, error)
	Matrix(ctx context.Context, query dto.ConflictQuery) (*dto.MatrixResponse, bool, error)
	InvalidateCache(ctx context.Context) error
}

type conflictExporter interface {
	Export(ctx context.Context, query dto.ExportQuery) (*service.ExportFile, error)
}

// ConflictHandler serves conflict reports.
type ConflictHandler struct {
	service  conflictService
	exporter conflictExporter
}

// NewConflictHandler constructs the handler.
func NewConflictHandler(service conflictService, exporter conflictExporter) *ConflictHandler {
	return &ConflictHandler{service: service, exporter: exporter}
}

// List godoc
// @Summary Ranked course conflicts for a semester
// @Tags Conflicts
// @Produce json
// @Param semester query string true "Semester token, e.g. sp2026"
// @Param offered_only query bool false "Drop courses not offered in the semester"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /conflicts [get]
func (h *ConflictHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.ConflictQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	start := time.Now()
	report, cacheHit, err := h.service.ConflictList(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "semester", report.Semester)
	response.JSON(c, http.StatusOK, report, middleware.ResponseMeta(c, start))
}

// Matrix godoc
// @Summary Conflict matrix over offered courses
// @Tags Conflicts
// @Produce json
// @Param semester query string true "Semester token, e.g. sp2026"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /conflicts/matrix [get]
func (h *ConflictHandler) Matrix(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.ConflictQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	start := time.Now()
	report, cacheHit, err := h.service.Matrix(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "semester", report.Semester)
	response.JSON(c, http.StatusOK, report, middleware.ResponseMeta(c, start))
}

// Export godoc
// @Summary Download the conflict list as CSV or PDF
// @Tags Conflicts
// @Produce text/csv
// @Produce application/pdf
// @Param semester query string true "Semester token, e.g. sp2026"
// @Param format query string false "csv (default) or pdf"
// @Param offered_only query bool false "Drop courses not offered in the semester"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /conflicts/export [get]
func (h *ConflictHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Payload)
}

// InvalidateCache godoc
// @Summary Drop cached reports and the offering table
// @Tags Conflicts
// @Success 204
// @Router /conflicts/cache [delete]
func (h *ConflictHandler) InvalidateCache(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if err := h.service.InvalidateCache(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
