package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
	"github.com/noah-isme/plan-conflicts-api/pkg/response"
)

type standingService interface {
	Standing(ctx context.Context, studentID string, query dto.StandingQuery) (*dto.StandingResponse, error)
}

// StudentHandler exposes per-student classification.
type StudentHandler struct {
	service standingService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service standingService) *StudentHandler {
	return &StudentHandler{service: service}
}

// Standing godoc
// @Summary Student standing for a semester
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query string true "Semester token, e.g. sp2026"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/standing [get]
func (h *StudentHandler) Standing(c *gin.Context) {
	var query dto.StandingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	result, err := h.service.Standing(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
