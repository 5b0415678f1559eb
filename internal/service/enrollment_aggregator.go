package service

import (
	"github.com/noah-isme/plan-conflicts-api/internal/models"
)

// AggregateOptions tunes roster construction.
type AggregateOptions struct {
	// DedupePlanned skips a repeated planned entry for the same student and course.
	DedupePlanned bool
}

// BuildEnrollments groups the planned courses of every student in the target semester into
// per-course rosters. Rosters and students keep first-seen order. Catalog rows, when present,
// supply course metadata; plan entries fill in courses missing from the catalog.
func BuildEnrollments(students []models.Student, target models.Semester, catalog map[string]models.Course, opts AggregateOptions) *models.EnrollmentSet {
	set := models.NewEnrollmentSet()
	token := target.Token()

	for _, student := range students {
		plan, ok := student.Plan[token]
		if !ok {
			continue
		}
		profile := student.Profile()
		for _, entry := range plan.Courses {
			if entry.Status != models.PlanStatusPlanned || entry.CourseID == "" {
				continue
			}
			roster, exists := set.ByCourse[entry.CourseID]
			if !exists {
				roster = &models.CourseEnrollment{Course: courseFor(entry, catalog)}
				set.ByCourse[entry.CourseID] = roster
				set.Order = append(set.Order, entry.CourseID)
			}
			if opts.DedupePlanned && roster.Has(student.ID) {
				continue
			}
			roster.Students = append(roster.Students, profile)
		}
	}
	return set
}

func courseFor(entry models.PlannedCourse, catalog map[string]models.Course) models.Course {
	if course, ok := catalog[entry.CourseID]; ok {
		return course
	}
	return models.Course{
		CourseID:   entry.CourseID,
		Department: entry.Department,
		Number:     entry.Number,
		Title:      entry.Title,
		MinCredits: entry.Credits,
		MaxCredits: entry.Credits,
	}
}
