package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
)

// CourseRepository reads the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListCourses returns every catalog row ordered by department and number.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	query := `SELECT course_id, department, number, COALESCE(title, '') AS title,
        COALESCE(min_credits, 0) AS min_credits, COALESCE(max_credits, 0) AS max_credits
        FROM courses ORDER BY department, number`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, r.db.Rebind(query)); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}
