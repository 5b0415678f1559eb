package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
)

type offeringChecker interface {
	IsOffered(ctx context.Context, courseID string, semester models.Semester) (bool, error)
}

// PlanningData is the read-only input of one report build.
type PlanningData struct {
	Students []models.Student
	Catalog  map[string]models.Course
	Sections models.SectionCounts
}

// BuildOptions selects which report variant the engine produces.
type BuildOptions struct {
	// FilterOffered drops planned courses whose offering rule excludes the semester.
	FilterOffered bool
	// IncludeMatrix fills ConflictAnalysis.Matrix.
	IncludeMatrix bool
}

// ConflictAnalysis is the engine output shared by the list, matrix and export reports.
type ConflictAnalysis struct {
	Semester     models.Semester
	Courses      []models.Course
	Matrix       [][]float64
	Conflicts    []models.ConflictRecord
	TotalOffered int
	TotalPlanned int
}

// ConflictEngine aggregates rosters, filters by offering and scores every co-planned pair.
type ConflictEngine struct {
	offerings offeringChecker
	formula   ScoringFormula
	aggregate AggregateOptions
	logger    *zap.Logger
}

// NewConflictEngine wires the engine. A nil formula uses ProductFormula with the default divisor.
func NewConflictEngine(offerings offeringChecker, formula ScoringFormula, aggregate AggregateOptions, logger *zap.Logger) *ConflictEngine {
	if formula == nil {
		formula = NewProductFormula(DefaultScaleDivisor)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictEngine{offerings: offerings, formula: formula, aggregate: aggregate, logger: logger}
}

// Analyze builds the conflict analysis for target. It never returns a partial result.
func (e *ConflictEngine) Analyze(ctx context.Context, data PlanningData, target models.Semester, opts BuildOptions) (*ConflictAnalysis, error) {
	enrollments := BuildEnrollments(data.Students, target, data.Catalog, e.aggregate)
	rosters := enrollments.List()

	if opts.FilterOffered {
		filtered := rosters[:0:0]
		for _, roster := range rosters {
			offered := false
			if e.offerings != nil {
				var err error
				offered, err = e.offerings.IsOffered(ctx, roster.Course.CourseID, target)
				if err != nil {
					return nil, err
				}
			}
			if offered {
				filtered = append(filtered, roster)
			} else {
				e.logger.Debug("course planned but not offered",
					zap.String("course_id", roster.Course.CourseID),
					zap.String("semester", target.Token()))
			}
		}
		rosters = filtered
	}

	sortRosters(rosters)

	courses := make([]models.Course, len(rosters))
	for i, roster := range rosters {
		courses[i] = roster.Course
	}

	var matrix [][]float64
	if opts.IncludeMatrix {
		matrix = make([][]float64, len(rosters))
		for i := range matrix {
			matrix[i] = make([]float64, len(rosters))
		}
	}

	scorer := NewConflictScorer(e.formula, data.Sections)
	conflicts := make([]models.ConflictRecord, 0)
	for i := 0; i < len(rosters); i++ {
		for j := i + 1; j < len(rosters); j++ {
			record := scorer.Score(rosters[i], rosters[j], target)
			if record == nil {
				continue
			}
			if matrix != nil {
				matrix[i][j] = record.ConflictScore
				matrix[j][i] = record.ConflictScore
			}
			conflicts = append(conflicts, *record)
		}
	}
	sort.SliceStable(conflicts, func(a, b int) bool {
		return conflicts[a].ConflictScore > conflicts[b].ConflictScore
	})

	return &ConflictAnalysis{
		Semester:     target,
		Courses:      courses,
		Matrix:       matrix,
		Conflicts:    conflicts,
		TotalOffered: len(courses),
		TotalPlanned: enrollments.Len(),
	}, nil
}

// sortRosters orders by department then numeric course number; ties keep first-seen order.
func sortRosters(rosters []*models.CourseEnrollment) {
	sort.SliceStable(rosters, func(i, j int) bool {
		return courseLess(rosters[i].Course, rosters[j].Course)
	})
}

func courseLess(a, b models.Course) bool {
	if a.Department != b.Department {
		return a.Department < b.Department
	}
	na, okA := a.NumericNumber()
	nb, okB := b.NumericNumber()
	switch {
	case okA && okB && na != nb:
		return na < nb
	case okA != okB:
		return okA
	case !okA && !okB:
		return strings.Compare(a.Number, b.Number) < 0
	}
	return false
}
