package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/dto"
	"github.com/noah-isme/plan-conflicts-api/internal/repository"
	"github.com/noah-isme/plan-conflicts-api/internal/service"
	"github.com/noah-isme/plan-conflicts-api/pkg/config"
	"github.com/noah-isme/plan-conflicts-api/pkg/export"
	"github.com/noah-isme/plan-conflicts-api/pkg/logger"
)

type options struct {
	dataDir     string
	semester    string
	matrix      bool
	offeredOnly bool
	format      string
	out         string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "conflict-report",
		Short:        "Score course conflicts for a semester from planning data files",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding students.json, courses.csv, sections.csv and offerings.yaml (defaults to DATA_DIR)")
	flags.StringVar(&opts.semester, "semester", "", "target semester token, e.g. sp2026")
	flags.BoolVar(&opts.matrix, "matrix", false, "build the conflict matrix instead of the ranked list")
	flags.BoolVar(&opts.offeredOnly, "offered-only", false, "drop courses not offered in the semester")
	flags.StringVar(&opts.format, "format", "json", "output format: json, csv or pdf")
	flags.StringVar(&opts.out, "out", "", "write to this file instead of stdout")
	_ = cmd.MarkFlagRequired("semester")
	return cmd
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	paths := repository.FilePaths{
		Students:  cfg.Data.StudentsFile,
		Courses:   cfg.Data.CoursesFile,
		Sections:  cfg.Data.SectionsFile,
		Offerings: cfg.Data.OfferingsFile,
	}
	if opts.dataDir != "" {
		paths = repository.FilePaths{
			Students:  rebase(opts.dataDir, paths.Students),
			Courses:   rebase(opts.dataDir, paths.Courses),
			Sections:  rebase(opts.dataDir, paths.Sections),
			Offerings: rebase(opts.dataDir, paths.Offerings),
		}
	}
	store := repository.NewFileStore(paths, logr)
	resolver := service.NewOfferingResolver(service.NewOfferingCache(store, logr))
	reports := service.NewConflictReportService(store, resolver, nil, nil, nil, logr, service.ConflictReportConfig{
		ScaleDivisor:  cfg.Conflicts.ScaleDivisor,
		DedupePlanned: cfg.Conflicts.DedupePlanned,
	})

	payload, err := render(ctx, reports, logr, opts)
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err = stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(opts.out, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	logr.Info("conflict report written", zap.String("path", opts.out), zap.Int("bytes", len(payload)))
	return nil
}

func render(ctx context.Context, reports *service.ConflictReportService, logr *zap.Logger, opts *options) ([]byte, error) {
	semester := strings.ToLower(strings.TrimSpace(opts.semester))
	format := strings.ToLower(strings.TrimSpace(opts.format))
	switch format {
	case "json", "":
		query := dto.ConflictQuery{Semester: semester, OfferedOnly: opts.offeredOnly}
		var (
			report interface{}
			err    error
		)
		if opts.matrix {
			report, _, err = reports.Matrix(ctx, query)
		} else {
			report, _, err = reports.ConflictList(ctx, query)
		}
		if err != nil {
			return nil, err
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		exporter := service.NewExportService(reports, nil, logr, export.NewCSVExporter(), export.NewPDFExporter())
		analysis, err := reports.Analysis(ctx, semester, service.BuildOptions{
			FilterOffered: opts.offeredOnly || opts.matrix,
			IncludeMatrix: opts.matrix,
		})
		if err != nil {
			return nil, err
		}
		file, err := exporter.Render(analysis, format)
		if err != nil {
			return nil, err
		}
		return file.Payload, nil
	}
}

// rebase keeps the configured file names but moves them under dir.
func rebase(dir, path string) string {
	if path == "" {
		return path
	}
	return filepath.Join(dir, filepath.Base(path))
}
