package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

type courseLister interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
}

// OfferingService answers offering questions for single courses.
type OfferingService struct {
	resolver  *OfferingResolver
	courses   courseLister
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewOfferingService constructs an OfferingService. courses is optional and only used for labels.
func NewOfferingService(resolver *OfferingResolver, courses courseLister, v *validator.Validate, logger *zap.Logger) *OfferingService {
	if v == nil {
		v = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferingService{resolver: resolver, courses: courses, validator: v, logger: logger, now: time.Now}
}

// Offering reports whether courseID runs in the queried semester.
func (s *OfferingService) Offering(ctx context.Context, courseID string, query dto.OfferingQuery) (*dto.OfferingResponse, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if err := validateRequest(s.validator, &query); err != nil {
		return nil, err
	}
	target, err := parseTarget(query.Semester)
	if err != nil {
		return nil, err
	}
	code, err := s.resolver.Code(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &dto.OfferingResponse{
		CourseID: courseID,
		Code:     string(code),
		Pattern:  code.Description(),
		Semester: target.Token(),
		Offered:  code.OfferedIn(target),
	}, nil
}

// NextOffering finds the first semester at or after Spring of the queried year in which courseID runs.
// The current year is used when FromYear is zero.
func (s *OfferingService) NextOffering(ctx context.Context, courseID string, query dto.NextOfferingQuery) (*dto.NextOfferingResponse, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if err := validateRequest(s.validator, &query); err != nil {
		return nil, err
	}
	fromYear := query.FromYear
	if fromYear == 0 {
		fromYear = s.now().Year()
	}
	next, code, err := s.resolver.NextOffering(ctx, courseID, fromYear)
	if err != nil {
		return nil, err
	}
	explanation, err := s.resolver.ExplainNextOffering(ctx, courseID, s.label(ctx, courseID), fromYear)
	if err != nil {
		return nil, err
	}
	return &dto.NextOfferingResponse{
		CourseID:    courseID,
		Code:        string(code),
		Pattern:     code.Description(),
		Next:        next.Token(),
		Explanation: explanation,
	}, nil
}

func (s *OfferingService) label(ctx context.Context, courseID string) string {
	if s.courses == nil {
		return courseID
	}
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		s.logger.Warn("course lookup failed", zap.String("course_id", courseID), zap.Error(err))
		return courseID
	}
	for _, course := range courses {
		if course.CourseID == courseID {
			return course.Code()
		}
	}
	return courseID
}
