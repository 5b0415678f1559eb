package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
	"github.com/noah-isme/plan-conflicts-api/pkg/response"
)

type offeringService interface {
	Offering(ctx context.Context, courseID string, query dto.OfferingQuery) (*dto.OfferingResponse, error)
	NextOffering(ctx context.Context, courseID string, query dto.NextOfferingQuery) (*dto.NextOfferingResponse, error)
}

// CourseHandler answers offering questions for a course.
type CourseHandler struct {
	service offeringService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service offeringService) *CourseHandler {
	return &CourseHandler{service: service}
}

// Offering godoc
// @Summary Whether a course is offered in a semester
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Param semester query string true "Semester token, e.g. fa2025"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/offering [get]
func (h *CourseHandler) Offering(c *gin.Context) {
	var query dto.OfferingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	result, err := h.service.Offering(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// NextOffering godoc
// @Summary Next semester a course is offered
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Param from_year query int false "Search from Spring of this year; defaults to the current year"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/next-offering [get]
func (h *CourseHandler) NextOffering(c *gin.Context) {
	var query dto.NextOfferingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from_year must be a number"))
		return
	}
	result, err := h.service.NextOffering(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
