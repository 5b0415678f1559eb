package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

type studentFinder interface {
	FindStudent(ctx context.Context, id string) (*models.Student, error)
}

// StandingService classifies a single student against a target semester.
type StandingService struct {
	students  studentFinder
	validator *validator.Validate
}

// NewStandingService constructs a StandingService.
func NewStandingService(students studentFinder, v *validator.Validate) *StandingService {
	if v == nil {
		v = NewValidator()
	}
	return &StandingService{students: students, validator: v}
}

// Standing returns the student's classification, seniority weight and graduating-senior flag.
func (s *StandingService) Standing(ctx context.Context, studentID string, query dto.StandingQuery) (*dto.StandingResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if err := validateRequest(s.validator, &query); err != nil {
		return nil, err
	}
	target, err := parseTarget(query.Semester)
	if err != nil {
		return nil, err
	}
	student, err := s.students.FindStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	profile := student.Profile()
	standing := ClassifyStanding(profile, target)
	resp := &dto.StandingResponse{
		StudentID:        student.ID,
		Name:             student.Name,
		Semester:         target.Token(),
		Standing:         string(standing),
		SeniorityWeight:  standing.SeniorityWeight(),
		GraduatingSenior: IsGraduatingSenior(profile, target),
	}
	if grad, ok := profile.GraduationSemester(); ok {
		resp.Graduation = grad.Token()
	}
	if years, ok := YearsUntilGraduation(profile, target); ok {
		resp.YearsUntilGraduation = &years
	}
	return resp, nil
}
