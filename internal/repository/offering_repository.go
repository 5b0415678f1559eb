package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// OfferingRepository reads the course_id to offering code table.
type OfferingRepository struct {
	db *sqlx.DB
}

// NewOfferingRepository constructs an OfferingRepository.
func NewOfferingRepository(db *sqlx.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

// ListOfferings returns raw codes keyed by course id. Codes are validated by the offering cache.
func (r *OfferingRepository) ListOfferings(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		CourseID string `db:"course_id"`
		Code     string `db:"offering_code"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind("SELECT course_id, offering_code FROM course_offerings")); err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	table := make(map[string]string, len(rows))
	for _, row := range rows {
		table[row.CourseID] = row.Code
	}
	return table, nil
}
