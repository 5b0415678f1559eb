package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
)

// SectionRepository reads scheduled sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// CountSections tallies sections per course for the semester.
func (r *SectionRepository) CountSections(ctx context.Context, semester models.Semester) (models.SectionCounts, error) {
	query := r.db.Rebind(`SELECT course_id, COUNT(*) AS section_count FROM sections
        WHERE LOWER(semester) = ? GROUP BY course_id`)
	var rows []struct {
		CourseID string `db:"course_id"`
		Count    int    `db:"section_count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, strings.ToLower(semester.Token())); err != nil {
		return nil, fmt.Errorf("count sections: %w", err)
	}
	counts := make(models.SectionCounts, len(rows))
	for _, row := range rows {
		counts[row.CourseID] = row.Count
	}
	return counts, nil
}
