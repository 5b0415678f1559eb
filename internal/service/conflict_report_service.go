package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	"github.com/noah-isme/plan-conflicts-api/internal/models"
	"github.com/noah-isme/plan-conflicts-api/pkg/cache"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

// Report kinds used in cache keys and metrics labels.
const (
	ReportKindList   = "list"
	ReportKindMatrix = "matrix"
)

// PlanningRepository reads the planning data a report is built from.
type PlanningRepository interface {
	ListStudentPlans(ctx context.Context, semester models.Semester) ([]models.Student, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	CountSections(ctx context.Context, semester models.Semester) (models.SectionCounts, error)
}

// ConflictReportConfig tunes report building.
type ConflictReportConfig struct {
	ScaleDivisor  float64
	DedupePlanned bool
	CacheTTL      time.Duration
}

// ConflictReportService builds conflict lists and matrices for a semester.
type ConflictReportService struct {
	repo      PlanningRepository
	offerings *OfferingResolver
	engine    *ConflictEngine
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ConflictReportConfig
}

// NewConflictReportService wires the report service. cache and metrics may be nil.
func NewConflictReportService(repo PlanningRepository, offerings *OfferingResolver, cacheSvc *CacheService, metrics *MetricsService, v *validator.Validate, logger *zap.Logger, cfg ConflictReportConfig) *ConflictReportService {
	if v == nil {
		v = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	var checker offeringChecker
	if offerings != nil {
		checker = offerings
	}
	engine := NewConflictEngine(checker, NewProductFormula(cfg.ScaleDivisor), AggregateOptions{DedupePlanned: cfg.DedupePlanned}, logger)
	return &ConflictReportService{
		repo:      repo,
		offerings: offerings,
		engine:    engine,
		cache:     cacheSvc,
		metrics:   metrics,
		validator: v,
		logger:    logger,
		cfg:       cfg,
	}
}

// ConflictList returns every co-planned pair ranked by score. The bool reports a cache hit.
func (s *ConflictReportService) ConflictList(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictListResponse, bool, error) {
	if err := validateRequest(s.validator, &query); err != nil {
		return nil, false, err
	}
	target, err := parseTarget(query.Semester)
	if err != nil {
		return nil, false, err
	}

	key := reportCacheKey(ReportKindList, target, query.OfferedOnly)
	var cached dto.ConflictListResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	analysis, err := s.build(ctx, ReportKindList, target, BuildOptions{FilterOffered: query.OfferedOnly})
	if err != nil {
		return nil, false, err
	}
	resp := &dto.ConflictListResponse{
		Semester:  target.Token(),
		Conflicts: ToConflictItems(analysis.Conflicts),
	}
	if len(resp.Conflicts) == 0 {
		resp.Message = emptyMessage(target)
	}
	s.persist(ctx, key, resp)
	return resp, false, nil
}

// Matrix returns the symmetric score matrix over planned courses offered in the semester.
func (s *ConflictReportService) Matrix(ctx context.Context, query dto.ConflictQuery) (*dto.MatrixResponse, bool, error) {
	if err := validateRequest(s.validator, &query); err != nil {
		return nil, false, err
	}
	target, err := parseTarget(query.Semester)
	if err != nil {
		return nil, false, err
	}

	key := reportCacheKey(ReportKindMatrix, target, true)
	var cached dto.MatrixResponse
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	analysis, err := s.build(ctx, ReportKindMatrix, target, BuildOptions{FilterOffered: true, IncludeMatrix: true})
	if err != nil {
		return nil, false, err
	}
	resp := &dto.MatrixResponse{
		Semester:     target.Token(),
		Courses:      ToCourseSummaries(analysis.Courses),
		Matrix:       analysis.Matrix,
		Conflicts:    ToConflictItems(analysis.Conflicts),
		TotalOffered: analysis.TotalOffered,
		TotalPlanned: analysis.TotalPlanned,
	}
	if len(resp.Conflicts) == 0 {
		resp.Message = emptyMessage(target)
	}
	s.persist(ctx, key, resp)
	return resp, false, nil
}

// Analysis runs the engine without touching the report cache.
func (s *ConflictReportService) Analysis(ctx context.Context, semester string, opts BuildOptions) (*ConflictAnalysis, error) {
	if err := validateRequest(s.validator, &dto.ConflictQuery{Semester: semester}); err != nil {
		return nil, err
	}
	target, err := parseTarget(semester)
	if err != nil {
		return nil, err
	}
	kind := ReportKindList
	if opts.IncludeMatrix {
		kind = ReportKindMatrix
	}
	return s.build(ctx, kind, target, opts)
}

// InvalidateCache drops cached reports and the in-memory offering table.
func (s *ConflictReportService) InvalidateCache(ctx context.Context) error {
	if s.offerings != nil && s.offerings.Cache() != nil {
		s.offerings.Cache().Invalidate()
	}
	if err := s.cache.Invalidate(ctx, cache.Key("conflicts", "*")); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate report cache")
	}
	s.logger.Info("conflict report cache invalidated")
	return nil
}

func (s *ConflictReportService) build(ctx context.Context, kind string, target models.Semester, opts BuildOptions) (*ConflictAnalysis, error) {
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrDataSource, "planning repository not configured")
	}
	start := time.Now()
	data, err := s.load(ctx, target, opts.FilterOffered)
	if err != nil {
		return nil, err
	}
	analysis, err := s.engine.Analyze(ctx, data, target, opts)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveReport(kind, target.Token(), len(analysis.Courses), len(analysis.Conflicts), time.Since(start))
	s.logger.Debug("conflict report built",
		zap.String("kind", kind),
		zap.String("semester", target.Token()),
		zap.Int("courses", len(analysis.Courses)),
		zap.Int("conflicts", len(analysis.Conflicts)),
		zap.Duration("duration", time.Since(start)))
	return analysis, nil
}

// load reads plans, catalog and section counts concurrently. The offering table joins the load
// when the report filters by offering and the table is not cached yet.
func (s *ConflictReportService) load(ctx context.Context, target models.Semester, withOfferings bool) (PlanningData, error) {
	var (
		students []models.Student
		courses  []models.Course
		sections models.SectionCounts
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		start := time.Now()
		defer func() { s.metrics.ObserveDataLoad("students", time.Since(start)) }()
		var err error
		students, err = s.repo.ListStudentPlans(gctx, target)
		if err != nil {
			return fmt.Errorf("list student plans: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		start := time.Now()
		defer func() { s.metrics.ObserveDataLoad("courses", time.Since(start)) }()
		var err error
		courses, err = s.repo.ListCourses(gctx)
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		start := time.Now()
		defer func() { s.metrics.ObserveDataLoad("sections", time.Since(start)) }()
		var err error
		sections, err = s.repo.CountSections(gctx, target)
		if err != nil {
			return fmt.Errorf("count sections: %w", err)
		}
		return nil
	})
	if withOfferings && s.offerings != nil {
		if loaded, _ := s.offerings.Cache().Loaded(); !loaded {
			group.Go(func() error {
				start := time.Now()
				defer func() { s.metrics.ObserveDataLoad("offerings", time.Since(start)) }()
				return s.offerings.Cache().Init(gctx)
			})
		}
	}
	if err := group.Wait(); err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrDataSource.Code {
			return PlanningData{}, appErr
		}
		s.logger.Error("planning data load failed", zap.String("semester", target.Token()), zap.Error(err))
		return PlanningData{}, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, appErrors.ErrDataSource.Message)
	}

	catalog := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		catalog[course.CourseID] = course
	}
	return PlanningData{Students: students, Catalog: catalog, Sections: sections}, nil
}

func (s *ConflictReportService) persist(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("conflict report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func reportCacheKey(kind string, target models.Semester, offeredOnly bool) string {
	if offeredOnly {
		return cache.Key("conflicts", kind, target.Token(), "offered")
	}
	return cache.Key("conflicts", kind, target.Token())
}

func emptyMessage(target models.Semester) string {
	return fmt.Sprintf("No conflicts found for %s", target)
}

// ToConflictItems converts engine records into response items, preserving order.
func ToConflictItems(records []models.ConflictRecord) []dto.ConflictItem {
	items := make([]dto.ConflictItem, 0, len(records))
	for _, record := range records {
		ids := record.StudentIDs
		if ids == nil {
			ids = []string{}
		}
		items = append(items, dto.ConflictItem{
			CourseA:         record.CourseA.Code(),
			CourseB:         record.CourseB.Code(),
			CourseAID:       record.CourseA.CourseID,
			CourseBID:       record.CourseB.CourseID,
			CourseATitle:    record.CourseA.Title,
			CourseBTitle:    record.CourseB.Title,
			Overlap:         record.OverlapCount,
			ConflictScore:   record.ConflictScore,
			ConflictLevel:   string(record.Level()),
			RarityImpact:    record.RarityImpact,
			SeniorityImpact: record.SeniorityImpact,
			Explanation:     record.Explanation,
			StudentIDs:      ids,
		})
	}
	return items
}

// ToCourseSummaries converts matrix axis courses.
func ToCourseSummaries(courses []models.Course) []dto.CourseSummary {
	out := make([]dto.CourseSummary, 0, len(courses))
	for _, course := range courses {
		out = append(out, dto.CourseSummary{
			ID:         course.CourseID,
			Code:       course.Code(),
			Title:      course.Title,
			Department: course.Department,
			Number:     course.Number,
		})
	}
	return out
}
