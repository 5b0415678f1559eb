package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	"github.com/noah-isme/plan-conflicts-api/internal/models"
	"github.com/noah-isme/plan-conflicts-api/pkg/jobs"
)

var warmKinds = []string{ReportKindList, ReportKindMatrix}

type reportBuilder interface {
	ConflictList(ctx context.Context, query dto.ConflictQuery) (*dto.ConflictListResponse, bool, error)
	Matrix(ctx context.Context, query dto.ConflictQuery) (*dto.MatrixResponse, bool, error)
}

// WarmTask names one report to pre-build.
type WarmTask struct {
	Semester string
	Kind     string
}

// ReportWarmer pre-builds reports on a worker pool so they land in the report cache.
type ReportWarmer struct {
	reports   reportBuilder
	queue     *jobs.Queue[WarmTask]
	semesters []string
	logger    *zap.Logger
}

// NewReportWarmer validates the semester list and prepares the worker pool.
// Malformed tokens are logged and skipped.
func NewReportWarmer(reports reportBuilder, semesters []string, workers int, logger *zap.Logger) *ReportWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	valid := make([]string, 0, len(semesters))
	for _, raw := range semesters {
		token := strings.ToLower(strings.TrimSpace(raw))
		if _, err := models.ParseSemester(token); err != nil {
			logger.Warn("skipping warm semester", zap.String("semester", raw), zap.Error(err))
			continue
		}
		valid = append(valid, token)
	}
	w := &ReportWarmer{reports: reports, semesters: valid, logger: logger}
	// every task fits in the buffer so Start never waits on a busy worker
	w.queue = jobs.NewQueue[WarmTask]("report-warmer", w.handle, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: len(warmKinds) * len(valid),
		MaxRetries: 2,
		Logger:     logger,
	})
	return w
}

// Semesters returns the validated semester tokens.
func (w *ReportWarmer) Semesters() []string {
	return w.semesters
}

// Start launches the workers and enqueues a list and a matrix build per semester.
// It returns without waiting for any build.
func (w *ReportWarmer) Start(ctx context.Context) error {
	if len(w.semesters) == 0 {
		return nil
	}
	w.queue.Start(ctx)
	for _, token := range w.semesters {
		for _, kind := range warmKinds {
			task := jobs.Task[WarmTask]{Key: kind + ":" + token, Payload: WarmTask{Semester: token, Kind: kind}}
			if err := w.queue.Enqueue(task); err != nil {
				return err
			}
		}
	}
	return nil
}

// Wait blocks until every warm task has finished or ctx ends.
func (w *ReportWarmer) Wait(ctx context.Context) error {
	return w.queue.Drain(ctx)
}

// Stop shuts the worker pool down.
func (w *ReportWarmer) Stop() {
	w.queue.Stop()
}

func (w *ReportWarmer) handle(ctx context.Context, task jobs.Task[WarmTask]) error {
	query := dto.ConflictQuery{Semester: task.Payload.Semester}
	var err error
	switch task.Payload.Kind {
	case ReportKindMatrix:
		_, _, err = w.reports.Matrix(ctx, query)
	default:
		_, _, err = w.reports.ConflictList(ctx, query)
	}
	if err != nil {
		return err
	}
	w.logger.Info("report warmed", zap.String("semester", task.Payload.Semester), zap.String("kind", task.Payload.Kind))
	return nil
}
