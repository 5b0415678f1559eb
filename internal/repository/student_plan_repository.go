package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

const studentColumns = "id, name, COALESCE(grad_year, 0) AS grad_year, COALESCE(expected_graduation, '') AS expected_graduation"

type planEntryRow struct {
	StudentID string `db:"student_id"`
	Semester  string `db:"semester"`
	models.PlannedCourse
	RawStatus string `db:"raw_status"`
}

// StudentPlanRepository reads students and their plan entries.
type StudentPlanRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStudentPlanRepository constructs a StudentPlanRepository.
func NewStudentPlanRepository(db *sqlx.DB, logger *zap.Logger) *StudentPlanRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentPlanRepository{db: db, logger: logger}
}

// ListStudentPlans returns every student with the plan entries of the given semester attached.
func (r *StudentPlanRepository) ListStudentPlans(ctx context.Context, semester models.Semester) ([]models.Student, error) {
	var students []models.Student
	query := r.db.Rebind("SELECT " + studentColumns + " FROM students ORDER BY id")
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	var entries []planEntryRow
	query = r.db.Rebind(`SELECT student_id, semester, course_id, COALESCE(department, '') AS department,
        COALESCE(number, '') AS number, COALESCE(title, '') AS title, COALESCE(credits, 0) AS credits, status AS raw_status
        FROM student_plan_entries WHERE semester = ? ORDER BY student_id, position`)
	if err := r.db.SelectContext(ctx, &entries, query, semester.Token()); err != nil {
		return nil, fmt.Errorf("list plan entries: %w", err)
	}

	attachPlans(students, entries, r.logger)
	return students, nil
}

// FindStudent fetches one student with the full plan.
func (r *StudentPlanRepository) FindStudent(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	query := r.db.Rebind("SELECT " + studentColumns + " FROM students WHERE id = ?")
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", id))
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	var entries []planEntryRow
	query = r.db.Rebind(`SELECT student_id, semester, course_id, COALESCE(department, '') AS department,
        COALESCE(number, '') AS number, COALESCE(title, '') AS title, COALESCE(credits, 0) AS credits, status AS raw_status
        FROM student_plan_entries WHERE student_id = ? ORDER BY semester, position`)
	if err := r.db.SelectContext(ctx, &entries, query, id); err != nil {
		return nil, fmt.Errorf("list plan entries: %w", err)
	}

	students := []models.Student{student}
	attachPlans(students, entries, r.logger)
	return &students[0], nil
}

func attachPlans(students []models.Student, entries []planEntryRow, logger *zap.Logger) {
	index := make(map[string]int, len(students))
	for i := range students {
		index[students[i].ID] = i
		students[i].Plan = make(map[string]models.SemesterPlan)
	}
	for _, entry := range entries {
		i, ok := index[entry.StudentID]
		if !ok {
			continue
		}
		status, ok := models.ParsePlanStatus(entry.RawStatus)
		if !ok {
			logger.Warn("skipping plan entry with unknown status",
				zap.String("student_id", entry.StudentID),
				zap.String("course_id", entry.CourseID),
				zap.String("status", entry.RawStatus))
			continue
		}
		course := entry.PlannedCourse
		course.Status = status
		plan := students[i].Plan[entry.Semester]
		plan.Courses = append(plan.Courses, course)
		students[i].Plan[entry.Semester] = plan
	}
}
