package models

// CourseEnrollment is the roster of students planning one course in a semester.
// It is derived per request and never persisted.
type CourseEnrollment struct {
	Course   Course           `json:"course"`
	Students []StudentProfile `json:"students"`
}

// StudentIDs returns the set of roster ids.
func (e *CourseEnrollment) StudentIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(e.Students))
	for _, student := range e.Students {
		ids[student.ID] = struct{}{}
	}
	return ids
}

// Has reports whether the student is already on the roster.
func (e *CourseEnrollment) Has(studentID string) bool {
	for _, student := range e.Students {
		if student.ID == studentID {
			return true
		}
	}
	return false
}

// EnrollmentSet keeps rosters keyed by course_id in first-seen order.
type EnrollmentSet struct {
	Order    []string
	ByCourse map[string]*CourseEnrollment
}

// NewEnrollmentSet returns an empty set.
func NewEnrollmentSet() *EnrollmentSet {
	return &EnrollmentSet{ByCourse: make(map[string]*CourseEnrollment)}
}

// Len returns the number of distinct planned courses.
func (s *EnrollmentSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Order)
}

// List returns rosters in first-seen order.
func (s *EnrollmentSet) List() []*CourseEnrollment {
	if s == nil {
		return nil
	}
	out := make([]*CourseEnrollment, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.ByCourse[id])
	}
	return out
}
