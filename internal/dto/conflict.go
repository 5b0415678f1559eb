package dto

// ConflictQuery selects the semester of a conflict report.
type ConflictQuery struct {
	Semester    string `form:"semester" json:"semester" validate:"required,semester_token"`
	OfferedOnly bool   `form:"offered_only" json:"offeredOnly"`
}

// ExportQuery selects the semester and file format of a conflict export.
type ExportQuery struct {
	Semester    string `form:"semester" json:"semester" validate:"required,semester_token"`
	Format      string `form:"format" json:"format" validate:"omitempty,oneof=csv pdf"`
	OfferedOnly bool   `form:"offered_only" json:"offeredOnly"`
}

// CourseSummary identifies a course in report payloads.
type CourseSummary struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Number     string `json:"number"`
}

// ConflictItem is one scored course pair.
type ConflictItem struct {
	CourseA         string   `json:"courseA"`
	CourseB         string   `json:"courseB"`
	CourseAID       string   `json:"courseAId"`
	CourseBID       string   `json:"courseBId"`
	CourseATitle    string   `json:"courseATitle"`
	CourseBTitle    string   `json:"courseBTitle"`
	Overlap         int      `json:"overlap"`
	ConflictScore   float64  `json:"conflictScore"`
	ConflictLevel   string   `json:"conflictLevel"`
	RarityImpact    string   `json:"rarityImpact"`
	SeniorityImpact string   `json:"seniorityImpact"`
	Explanation     string   `json:"explanation"`
	StudentIDs      []string `json:"studentIds"`
}

// ConflictListResponse is the ranked conflict list for a semester.
type ConflictListResponse struct {
	Semester  string         `json:"semester"`
	Conflicts []ConflictItem `json:"conflicts"`
	Message   string         `json:"message,omitempty"`
}

// MatrixResponse is the symmetric conflict matrix over offered courses.
type MatrixResponse struct {
	Semester     string          `json:"semester"`
	Courses      []CourseSummary `json:"courses"`
	Matrix       [][]float64     `json:"matrix"`
	Conflicts    []ConflictItem  `json:"conflicts"`
	TotalOffered int             `json:"totalOffered"`
	TotalPlanned int             `json:"totalPlanned"`
	Message      string          `json:"message,omitempty"`
}
