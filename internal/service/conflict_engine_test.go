package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
)

func newTestResolver(table map[string]string) *OfferingResolver {
	return NewOfferingResolver(NewOfferingCache(&offeringSourceStub{table: table}, zap.NewNop()))
}

func TestAnalyzeScoresScenarioPair(t *testing.T) {
	engine := NewConflictEngine(nil, nil, AggregateOptions{DedupePlanned: true}, zap.NewNop())

	analysis, err := engine.Analyze(context.Background(), scenarioData(), sp2026, BuildOptions{})
	require.NoError(t, err)
	require.Len(t, analysis.Conflicts, 1)

	record := analysis.Conflicts[0]
	assert.Equal(t, courseCS301.CourseID, record.CourseA.CourseID)
	assert.Equal(t, courseMath310.CourseID, record.CourseB.CourseID)
	assert.Equal(t, 4, record.OverlapCount)
	assert.InDelta(t, 8.0, record.RawScore, 1e-9)
	assert.Equal(t, 0.8, record.ConflictScore)
	assert.Equal(t, models.ConflictLevelHigh, record.Level())
	assert.Equal(t, models.RarityOneSingleSectionUpper, record.RarityImpact)
	assert.Equal(t, "2 graduating senior(s) affected", record.SeniorityImpact)
	assert.Equal(t, "4 students plan both courses; one is single-section upper-level; 2 graduating senior(s) affected", record.Explanation)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4"}, record.StudentIDs)
	assert.Equal(t, 2, analysis.TotalPlanned)
}

func TestConflictScorerIsSymmetric(t *testing.T) {
	data := scenarioData()
	set := BuildEnrollments(data.Students, sp2026, data.Catalog, AggregateOptions{})
	a := set.ByCourse[courseCS301.CourseID]
	b := set.ByCourse[courseMath310.CourseID]
	scorer := NewConflictScorer(nil, data.Sections)

	ab := scorer.Score(a, b, sp2026)
	ba := scorer.Score(b, a, sp2026)
	require.NotNil(t, ab)
	require.NotNil(t, ba)
	assert.Equal(t, ab.ConflictScore, ba.ConflictScore)
	assert.Equal(t, ab.OverlapCount, ba.OverlapCount)
	assert.Equal(t, ab.RarityImpact, ba.RarityImpact)
	assert.Equal(t, ab.SeniorityImpact, ba.SeniorityImpact)
	assert.Equal(t, ab.StudentIDs, ba.StudentIDs)
}

func TestConflictScorerSameCourseAndNoOverlap(t *testing.T) {
	a := &models.CourseEnrollment{Course: courseCS301, Students: []models.StudentProfile{{ID: "s1", GradYear: 2026}}}
	b := &models.CourseEnrollment{Course: courseMath310, Students: []models.StudentProfile{{ID: "s2", GradYear: 2026}}}
	scorer := NewConflictScorer(nil, nil)

	assert.Nil(t, scorer.Score(a, a, sp2026))
	assert.Nil(t, scorer.Score(a, b, sp2026))
	assert.Nil(t, scorer.Score(nil, b, sp2026))
}

func TestConflictScoreClampsToOne(t *testing.T) {
	var students []models.Student
	plan := plannedIn("sp2026", courseCS301.CourseID, courseMath310.CourseID)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		students = append(students, student(id, 2026, plan))
	}
	data := PlanningData{
		Students: students,
		Catalog:  catalogOf(courseCS301, courseMath310),
		Sections: models.SectionCounts{courseCS301.CourseID: 1, courseMath310.CourseID: 1},
	}
	engine := NewConflictEngine(nil, nil, AggregateOptions{}, nil)

	analysis, err := engine.Analyze(context.Background(), data, sp2026, BuildOptions{})
	require.NoError(t, err)
	require.Len(t, analysis.Conflicts, 1)
	assert.Equal(t, 1.0, analysis.Conflicts[0].ConflictScore)
	assert.InDelta(t, 40.0, analysis.Conflicts[0].RawScore, 1e-9)
	assert.Equal(t, models.RarityBothSingleSectionUpper, analysis.Conflicts[0].RarityImpact)
}

func TestConflictScoreFallsAsSectionsGrow(t *testing.T) {
	plan := plannedIn("sp2026", courseCS301.CourseID, courseMath310.CourseID)
	students := []models.Student{student("s1", 2028, plan)}
	engine := NewConflictEngine(nil, nil, AggregateOptions{}, nil)

	score := func(sectionsB int) float64 {
		data := PlanningData{
			Students: students,
			Catalog:  catalogOf(courseCS301, courseMath310),
			Sections: models.SectionCounts{courseCS301.CourseID: 2, courseMath310.CourseID: sectionsB},
		}
		analysis, err := engine.Analyze(context.Background(), data, sp2026, BuildOptions{})
		require.NoError(t, err)
		require.Len(t, analysis.Conflicts, 1)
		return analysis.Conflicts[0].ConflictScore
	}

	assert.Greater(t, score(2), score(4))
	assert.Equal(t, 0.1, score(2))
}

func TestConflictScoreWithoutSections(t *testing.T) {
	plan := plannedIn("sp2026", courseCS301.CourseID, courseMath310.CourseID)
	data := PlanningData{
		Students: []models.Student{student("s1", 2028, plan)},
		Catalog:  catalogOf(courseCS301, courseMath310),
	}
	engine := NewConflictEngine(nil, nil, AggregateOptions{}, nil)

	analysis, err := engine.Analyze(context.Background(), data, sp2026, BuildOptions{})
	require.NoError(t, err)
	require.Len(t, analysis.Conflicts, 1)
	record := analysis.Conflicts[0]
	assert.Equal(t, 0.2, record.ConflictScore)
	assert.Equal(t, models.RarityBothUpperLevel, record.RarityImpact)
	assert.Equal(t, "No graduating seniors affected", record.SeniorityImpact)
	assert.Equal(t, "1 student plans both courses; both are upper-level courses; no graduating seniors affected", record.Explanation)
}

func TestAnalyzeEmptySemester(t *testing.T) {
	data := scenarioData()
	engine := NewConflictEngine(newTestResolver(nil), nil, AggregateOptions{}, nil)

	analysis, err := engine.Analyze(context.Background(), data, models.Semester{Season: models.SeasonFall, Year: 2030}, BuildOptions{FilterOffered: true, IncludeMatrix: true})
	require.NoError(t, err)
	assert.NotNil(t, analysis.Conflicts)
	assert.Empty(t, analysis.Conflicts)
	assert.Empty(t, analysis.Courses)
	assert.NotNil(t, analysis.Matrix)
	assert.Empty(t, analysis.Matrix)
	assert.Zero(t, analysis.TotalPlanned)
}

func TestAnalyzeSortsCoursesAndConflicts(t *testing.T) {
	data := PlanningData{
		Students: []models.Student{
			student("s1", 2026, plannedIn("sp2026", courseMath310.CourseID, courseCS301.CourseID, courseCS101.CourseID)),
			student("s2", 2028, plannedIn("sp2026", courseCS301.CourseID, courseMath310.CourseID)),
		},
		Catalog: catalogOf(courseCS301, courseMath310, courseCS101),
		Sections: models.SectionCounts{
			courseCS301.CourseID:   1,
			courseMath310.CourseID: 3,
			courseCS101.CourseID:   5,
		},
	}
	engine := NewConflictEngine(nil, nil, AggregateOptions{}, nil)

	analysis, err := engine.Analyze(context.Background(), data, sp2026, BuildOptions{IncludeMatrix: true})
	require.NoError(t, err)

	require.Len(t, analysis.Courses, 3)
	assert.Equal(t, []string{"CS 101", "CS 301", "MATH 310"}, []string{
		analysis.Courses[0].Code(), analysis.Courses[1].Code(), analysis.Courses[2].Code(),
	})

	require.Len(t, analysis.Conflicts, 3)
	assert.Equal(t, 0.4, analysis.Conflicts[0].ConflictScore)
	assert.Equal(t, 0.24, analysis.Conflicts[1].ConflictScore)
	assert.Equal(t, 0.11, analysis.Conflicts[2].ConflictScore)
	for i := 1; i < len(analysis.Conflicts); i++ {
		assert.GreaterOrEqual(t, analysis.Conflicts[i-1].ConflictScore, analysis.Conflicts[i].ConflictScore)
	}

	for i := range analysis.Matrix {
		assert.Zero(t, analysis.Matrix[i][i])
		for j := range analysis.Matrix {
			assert.Equal(t, analysis.Matrix[i][j], analysis.Matrix[j][i])
		}
	}
	assert.Equal(t, 0.24, analysis.Matrix[0][1])
	assert.Equal(t, 0.4, analysis.Matrix[1][2])
}

func TestAnalyzeBreaksScoreTiesByPairOrder(t *testing.T) {
	data := PlanningData{
		Students: []models.Student{
			student("s1", 2028, plannedIn("sp2026", courseMath310.CourseID, courseCS301.CourseID, courseCS101.CourseID, courseCS20.CourseID)),
			student("s2", 2026, plannedIn("sp2026", courseCS301.CourseID, courseMath310.CourseID)),
		},
		Catalog: catalogOf(courseCS301, courseMath310, courseCS101, courseCS20),
		Sections: models.SectionCounts{
			courseCS301.CourseID:   1,
			courseMath310.CourseID: 1,
			courseCS101.CourseID:   1,
			courseCS20.CourseID:    1,
		},
	}
	engine := NewConflictEngine(nil, nil, AggregateOptions{}, nil)

	pairs := func(analysis *ConflictAnalysis) [][2]string {
		out := make([][2]string, 0, len(analysis.Conflicts))
		for _, record := range analysis.Conflicts {
			out = append(out, [2]string{record.CourseA.Code(), record.CourseB.Code()})
		}
		return out
	}

	first, err := engine.Analyze(context.Background(), data, sp2026, BuildOptions{})
	require.NoError(t, err)
	require.Len(t, first.Conflicts, 6)
	assert.Equal(t, 0.6, first.Conflicts[0].ConflictScore)
	for _, record := range first.Conflicts[1:] {
		assert.Equal(t, 0.2, record.ConflictScore)
	}
	assert.Equal(t, [][2]string{
		{"CS 301", "MATH 310"},
		{"CS 20", "CS 101"},
		{"CS 20", "CS 301"},
		{"CS 20", "MATH 310"},
		{"CS 101", "CS 301"},
		{"CS 101", "MATH 310"},
	}, pairs(first))

	for i := 0; i < 5; i++ {
		again, err := engine.Analyze(context.Background(), data, sp2026, BuildOptions{})
		require.NoError(t, err)
		assert.Equal(t, pairs(first), pairs(again))
	}
}

func TestAnalyzeFiltersByOffering(t *testing.T) {
	data := scenarioData()
	resolver := newTestResolver(map[string]string{
		courseCS301.CourseID:   "e",
		courseMath310.CourseID: "ef",
	})
	engine := NewConflictEngine(resolver, nil, AggregateOptions{}, nil)

	analysis, err := engine.Analyze(context.Background(), data, sp2026, BuildOptions{FilterOffered: true, IncludeMatrix: true})
	require.NoError(t, err)
	require.Len(t, analysis.Courses, 1)
	assert.Equal(t, courseCS301.CourseID, analysis.Courses[0].CourseID)
	assert.Empty(t, analysis.Conflicts)
	assert.Equal(t, 1, analysis.TotalOffered)
	assert.Equal(t, 2, analysis.TotalPlanned)
	assert.Equal(t, [][]float64{{0}}, analysis.Matrix)
}

func TestAnalyzeNumericCourseOrdering(t *testing.T) {
	plan := plannedIn("sp2026", courseCS301.CourseID, courseCS20.CourseID, courseCS101.CourseID)
	data := PlanningData{
		Students: []models.Student{student("s1", 2027, plan)},
		Catalog:  catalogOf(courseCS301, courseCS20, courseCS101),
	}
	engine := NewConflictEngine(nil, nil, AggregateOptions{}, nil)

	analysis, err := engine.Analyze(context.Background(), data, sp2026, BuildOptions{})
	require.NoError(t, err)
	require.Len(t, analysis.Courses, 3)
	assert.Equal(t, "20", analysis.Courses[0].Number)
	assert.Equal(t, "101", analysis.Courses[1].Number)
	assert.Equal(t, "301", analysis.Courses[2].Number)
}

func TestBuildEnrollmentsPlannedOnlyAndDedupe(t *testing.T) {
	plan := map[string]models.SemesterPlan{
		"sp2026": {Courses: []models.PlannedCourse{
			{CourseID: courseCS301.CourseID, Status: models.PlanStatusPlanned},
			{CourseID: courseCS301.CourseID, Status: models.PlanStatusPlanned},
			{CourseID: courseCS101.CourseID, Status: models.PlanStatusTaken},
			{CourseID: "c-new", Department: "ART", Number: "110", Title: "Drawing", Status: models.PlanStatusPlanned},
		}},
		"fa2025": {Courses: []models.PlannedCourse{
			{CourseID: courseMath310.CourseID, Status: models.PlanStatusPlanned},
		}},
	}
	students := []models.Student{student("s1", 2027, plan)}
	catalog := catalogOf(courseCS301)

	deduped := BuildEnrollments(students, sp2026, catalog, AggregateOptions{DedupePlanned: true})
	require.Equal(t, 2, deduped.Len())
	assert.Equal(t, []string{courseCS301.CourseID, "c-new"}, deduped.Order)
	assert.Len(t, deduped.ByCourse[courseCS301.CourseID].Students, 1)
	assert.Equal(t, "Algorithms", deduped.ByCourse[courseCS301.CourseID].Course.Title)
	assert.Equal(t, "ART 110", deduped.ByCourse["c-new"].Course.Code())

	raw := BuildEnrollments(students, sp2026, catalog, AggregateOptions{})
	assert.Len(t, raw.ByCourse[courseCS301.CourseID].Students, 2)
}

func TestProductFormula(t *testing.T) {
	formula := NewProductFormula(0)
	assert.Equal(t, DefaultScaleDivisor, formula.ScaleDivisor)

	raw, score := NewProductFormula(20).Score(PairInputs{Overlap: 4, RarityWeightA: 1, RarityWeightB: 1, AvgSeniorityWeight: 1.5})
	assert.Equal(t, 12.0, raw)
	assert.Equal(t, 0.6, score)

	_, zero := formula.Score(PairInputs{})
	assert.Zero(t, zero)
}
