package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

func newExportServiceForTest(t *testing.T) *ExportService {
	t.Helper()
	reports := NewConflictReportService(&planningRepoStub{data: scenarioData()}, nil, nil, nil, nil, zap.NewNop(), ConflictReportConfig{DedupePlanned: true})
	svc := NewExportService(reports, nil, zap.NewNop(), nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC) }
	return svc
}

func TestExportServiceCSV(t *testing.T) {
	svc := newExportServiceForTest(t)

	file, err := svc.Export(context.Background(), dto.ExportQuery{Semester: "sp2026"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Filename, "conflicts_sp2026_20260102_150405_"), file.Filename)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"), file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Course A", records[0][0])
	assert.Equal(t, []string{"CS 301", "MATH 310", "4", "0.80", "high"}, records[1][:5])
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportServiceForTest(t)

	file, err := svc.Export(context.Background(), dto.ExportQuery{Semester: "sp2026", Format: "PDF"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportServiceForTest(t)

	_, err := svc.Export(context.Background(), dto.ExportQuery{Semester: "sp2026", Format: "xlsx"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedFormat))

	_, err = svc.Render(&ConflictAnalysis{}, "xml")
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedFormat))
}

func TestConflictDatasetEmpty(t *testing.T) {
	dataset := ConflictDataset(&ConflictAnalysis{Semester: sp2026})
	assert.Equal(t, "Course Conflicts - Spring 2026", dataset.Title)
	assert.Len(t, dataset.Headers, 8)
	assert.Empty(t, dataset.Rows)
}
