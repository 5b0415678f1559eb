package models

import "strings"

// PlanStatus tracks where a course sits in a student's four-year plan.
type PlanStatus string

const (
	PlanStatusTaken      PlanStatus = "taken"
	PlanStatusInProgress PlanStatus = "in_progress"
	PlanStatusPlanned    PlanStatus = "planned"
)

// ParsePlanStatus accepts the spellings produced by the plan editor ("In Progress", "in-progress").
func ParsePlanStatus(raw string) (PlanStatus, bool) {
	normalised := strings.ToLower(strings.TrimSpace(raw))
	normalised = strings.NewReplacer(" ", "_", "-", "_").Replace(normalised)
	switch PlanStatus(normalised) {
	case PlanStatusTaken, PlanStatusInProgress, PlanStatusPlanned:
		return PlanStatus(normalised), true
	}
	return "", false
}

// PlannedCourse is one course entry in a semester of a student's plan.
type PlannedCourse struct {
	CourseID   string     `db:"course_id" json:"course_id"`
	Department string     `db:"department" json:"department"`
	Number     string     `db:"number" json:"number"`
	Title      string     `db:"title" json:"title"`
	Credits    float64    `db:"credits" json:"credits"`
	Status     PlanStatus `db:"status" json:"status"`
}

// SemesterPlan lists the courses a student has in one semester.
type SemesterPlan struct {
	Courses []PlannedCourse `json:"courses"`
}

// Student is an advisee with a four-year plan keyed by semester token.
type Student struct {
	ID                 string                  `db:"id" json:"id"`
	Name               string                  `db:"name" json:"name"`
	GradYear           int                     `db:"grad_year" json:"gradYear"`
	ExpectedGraduation string                  `db:"expected_graduation" json:"expectedGraduation"`
	Plan               map[string]SemesterPlan `db:"-" json:"plan"`
}

// Profile strips the plan, leaving the identity carried on rosters.
func (s Student) Profile() StudentProfile {
	return StudentProfile{
		ID:                 s.ID,
		Name:               s.Name,
		GradYear:           s.GradYear,
		ExpectedGraduation: s.ExpectedGraduation,
	}
}

// StudentProfile identifies a student on a course roster.
type StudentProfile struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	GradYear           int    `json:"gradYear"`
	ExpectedGraduation string `json:"expectedGraduation"`
}

// GraduationSemester resolves the expected graduation term. A parseable ExpectedGraduation wins;
// otherwise the student is assumed to graduate in the spring of GradYear.
func (p StudentProfile) GraduationSemester() (Semester, bool) {
	if p.ExpectedGraduation != "" {
		if sem, err := ParseSemesterLabel(p.ExpectedGraduation); err == nil {
			return sem, true
		}
	}
	if p.GradYear > 0 {
		return Semester{Season: SeasonSpring, Year: p.GradYear}, true
	}
	return Semester{}, false
}
