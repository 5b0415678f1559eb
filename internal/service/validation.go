package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

// NewValidator returns a validator with the semester_token rule registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("semester_token", func(fl validator.FieldLevel) bool {
		_, err := models.ParseSemester(fl.Field().String())
		return err == nil
	})
	return v
}

// validateRequest maps validator failures onto typed errors. A malformed semester is reported
// as ErrInvalidSemester; anything else is a generic validation error.
func validateRequest(v *validator.Validate, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request")
	}
	first := fieldErrs[0]
	switch first.Tag() {
	case "semester_token":
		return appErrors.Clone(appErrors.ErrInvalidSemester, fmt.Sprintf("semester %q must look like fa2025 or sp2026", first.Value()))
	case "required":
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s query parameter is required", lowerFirst(first.Field())))
	case "oneof":
		if first.Field() == "Format" {
			return appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("format must be one of: %s", first.Param()))
		}
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid %s", lowerFirst(first.Field())))
}

// parseTarget validates an already-checked token into a Semester.
func parseTarget(token string) (models.Semester, error) {
	sem, err := models.ParseSemester(token)
	if err != nil {
		return models.Semester{}, appErrors.Wrap(err, appErrors.ErrInvalidSemester.Code, appErrors.ErrInvalidSemester.Status, appErrors.ErrInvalidSemester.Message)
	}
	return sem, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
