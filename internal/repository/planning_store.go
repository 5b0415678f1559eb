package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SQLPlanningStore bundles the SQL repositories into one planning data source.
type SQLPlanningStore struct {
	*StudentPlanRepository
	*CourseRepository
	*SectionRepository
	*OfferingRepository

	db *sqlx.DB
}

// NewSQLPlanningStore wires every SQL repository over db. Works with the postgres and sqlite3 drivers.
func NewSQLPlanningStore(db *sqlx.DB, logger *zap.Logger) *SQLPlanningStore {
	return &SQLPlanningStore{
		StudentPlanRepository: NewStudentPlanRepository(db, logger),
		CourseRepository:      NewCourseRepository(db),
		SectionRepository:     NewSectionRepository(db),
		OfferingRepository:    NewOfferingRepository(db),
		db:                    db,
	}
}

// Ping checks database connectivity for readiness probes.
func (s *SQLPlanningStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
