package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

var sp2026 = models.Semester{Season: models.SeasonSpring, Year: 2026}

func plannedIn(token string, courseIDs ...string) map[string]models.SemesterPlan {
	entries := make([]models.PlannedCourse, 0, len(courseIDs))
	for _, id := range courseIDs {
		entries = append(entries, models.PlannedCourse{CourseID: id, Status: models.PlanStatusPlanned})
	}
	return map[string]models.SemesterPlan{token: {Courses: entries}}
}

func student(id string, gradYear int, plan map[string]models.SemesterPlan) models.Student {
	return models.Student{ID: id, Name: "Student " + id, GradYear: gradYear, Plan: plan}
}

func catalogOf(courses ...models.Course) map[string]models.Course {
	out := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		out[course.CourseID] = course
	}
	return out
}

var (
	courseCS301   = models.Course{CourseID: "c-cs301", Department: "CS", Number: "301", Title: "Algorithms"}
	courseMath310 = models.Course{CourseID: "c-math310", Department: "MATH", Number: "310", Title: "Linear Algebra"}
	courseCS101   = models.Course{CourseID: "c-cs101", Department: "CS", Number: "101", Title: "Intro to Programming"}
	courseCS20    = models.Course{CourseID: "c-cs20", Department: "CS", Number: "20", Title: "Seminar"}
)

// scenarioData is two courses, one single-section and one with three sections, shared by
// two graduating seniors and two sophomores in sp2026.
func scenarioData() PlanningData {
	plan := plannedIn("sp2026", courseCS301.CourseID, courseMath310.CourseID)
	return PlanningData{
		Students: []models.Student{
			student("s1", 2026, plan),
			student("s2", 2026, plan),
			student("s3", 2028, plan),
			student("s4", 2028, plan),
		},
		Catalog:  catalogOf(courseCS301, courseMath310),
		Sections: models.SectionCounts{courseCS301.CourseID: 1, courseMath310.CourseID: 3},
	}
}

type offeringSourceStub struct {
	table map[string]string
	err   error
	mu    sync.Mutex
	calls int
}

func (s *offeringSourceStub) ListOfferings(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.table, nil
}

type planningRepoStub struct {
	data        PlanningData
	studentsErr error
	mu          sync.Mutex
	calls       int
}

func (r *planningRepoStub) ListStudentPlans(ctx context.Context, semester models.Semester) ([]models.Student, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.studentsErr != nil {
		return nil, r.studentsErr
	}
	return r.data.Students, nil
}

func (r *planningRepoStub) ListCourses(ctx context.Context) ([]models.Course, error) {
	out := make([]models.Course, 0, len(r.data.Catalog))
	for _, course := range r.data.Catalog {
		out = append(out, course)
	}
	return out, nil
}

func (r *planningRepoStub) CountSections(ctx context.Context, semester models.Semester) (models.SectionCounts, error) {
	return r.data.Sections, nil
}

func (r *planningRepoStub) FindStudent(ctx context.Context, id string) (*models.Student, error) {
	for _, s := range r.data.Students {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string]interface{}
	deleted []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string]interface{}{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	value, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	for key := range m.entries {
		delete(m.entries, key)
	}
	return nil
}
