package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
	"github.com/noah-isme/plan-conflicts-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type conflictAnalyzer interface {
	Analysis(ctx context.Context, semester string, opts BuildOptions) (*ConflictAnalysis, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered conflict report ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders conflict reports as CSV or PDF documents.
type ExportService struct {
	reports   conflictAnalyzer
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(reports conflictAnalyzer, v *validator.Validate, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if v == nil {
		v = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{reports: reports, csv: csv, pdf: pdf, validator: v, logger: logger, now: time.Now}
}

// Export renders the ranked conflict list for the queried semester. Format defaults to csv.
func (s *ExportService) Export(ctx context.Context, query dto.ExportQuery) (*ExportFile, error) {
	query.Format = strings.ToLower(strings.TrimSpace(query.Format))
	if query.Format == "" {
		query.Format = FormatCSV
	}
	if err := validateRequest(s.validator, &query); err != nil {
		return nil, err
	}
	analysis, err := s.reports.Analysis(ctx, query.Semester, BuildOptions{FilterOffered: query.OfferedOnly})
	if err != nil {
		return nil, err
	}
	return s.Render(analysis, query.Format)
}

// Render encodes an analysis in the requested format.
func (s *ExportService) Render(analysis *ConflictAnalysis, format string) (*ExportFile, error) {
	dataset := ConflictDataset(analysis)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case FormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case FormatPDF:
		payload, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		s.logger.Error("render conflict export failed", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	timestamp := s.now().UTC().Format("20060102_150405")
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return &ExportFile{
		Filename:    fmt.Sprintf("conflicts_%s_%s_%s.%s", analysis.Semester.Token(), timestamp, suffix, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

// ConflictDataset flattens an analysis into export rows in ranking order.
func ConflictDataset(analysis *ConflictAnalysis) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Course A", "Course B", "Overlap", "Score", "Level", "Rarity Impact", "Seniority Impact", "Explanation"},
	}
	if analysis == nil {
		return dataset
	}
	dataset.Title = fmt.Sprintf("Course Conflicts - %s", analysis.Semester)
	for _, record := range analysis.Conflicts {
		dataset.Rows = append(dataset.Rows, conflictRow(record))
	}
	return dataset
}

func conflictRow(record models.ConflictRecord) []string {
	return []string{
		record.CourseA.Code(),
		record.CourseB.Code(),
		strconv.Itoa(record.OverlapCount),
		strconv.FormatFloat(record.ConflictScore, 'f', 2, 64),
		string(record.Level()),
		record.RarityImpact,
		record.SeniorityImpact,
		record.Explanation,
	}
}
