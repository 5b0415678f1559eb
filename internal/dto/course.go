package dto

// OfferingQuery asks whether a course runs in a semester.
type OfferingQuery struct {
	Semester string `form:"semester" json:"semester" validate:"required,semester_token"`
}

// NextOfferingQuery asks for the first offering at or after Spring of FromYear.
type NextOfferingQuery struct {
	FromYear int `form:"from_year" json:"fromYear" validate:"omitempty,min=1900,max=9999"`
}

// OfferingResponse describes a course's recurrence rule against a semester.
type OfferingResponse struct {
	CourseID string `json:"courseId"`
	Code     string `json:"code"`
	Pattern  string `json:"pattern"`
	Semester string `json:"semester"`
	Offered  bool   `json:"offered"`
}

// NextOfferingResponse carries the next offering and a sentence for advisors.
type NextOfferingResponse struct {
	CourseID    string `json:"courseId"`
	Code        string `json:"code"`
	Pattern     string `json:"pattern"`
	Next        string `json:"next"`
	Explanation string `json:"explanation"`
}

// StandingQuery selects the target semester of a standing lookup.
type StandingQuery struct {
	Semester string `form:"semester" json:"semester" validate:"required,semester_token"`
}

// StandingResponse reports a student's classification for a semester.
type StandingResponse struct {
	StudentID            string   `json:"studentId"`
	Name                 string   `json:"name"`
	Semester             string   `json:"semester"`
	Graduation           string   `json:"graduation,omitempty"`
	YearsUntilGraduation *float64 `json:"yearsUntilGraduation,omitempty"`
	Standing             string   `json:"standing"`
	SeniorityWeight      float64  `json:"seniorityWeight"`
	GraduatingSenior     bool     `json:"graduatingSenior"`
}
