package repository

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

// FilePaths locates the planning data files.
type FilePaths struct {
	Students  string
	Courses   string
	Sections  string
	Offerings string
}

// FileStore reads planning data from JSON, CSV and YAML files on every call.
type FileStore struct {
	paths  FilePaths
	logger *zap.Logger
}

// NewFileStore constructs a FileStore.
func NewFileStore(paths FilePaths, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{paths: paths, logger: logger}
}

// ListStudentPlans decodes the student roster. Plans for every semester are kept;
// entries with an unknown status are dropped.
func (s *FileStore) ListStudentPlans(ctx context.Context, semester models.Semester) ([]models.Student, error) {
	return s.readStudents(ctx)
}

// FindStudent returns the student with the given id.
func (s *FileStore) FindStudent(ctx context.Context, id string) (*models.Student, error) {
	students, err := s.readStudents(ctx)
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].ID == id {
			return &students[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", id))
}

// ListCourses reads the course catalog CSV.
func (s *FileStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := readCSV(s.paths.Courses, []string{"course_id", "department", "number"})
	if err != nil {
		return nil, fmt.Errorf("read courses: %w", err)
	}
	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		course := models.Course{
			CourseID:   row.get("course_id"),
			Department: row.get("department"),
			Number:     row.get("number"),
			Title:      row.get("title"),
		}
		if course.CourseID == "" {
			s.logger.Warn("skipping course row without course_id", zap.Int("line", row.line))
			continue
		}
		var parseErr error
		if course.MinCredits, parseErr = parseCredits(row.get("min_credits")); parseErr == nil {
			course.MaxCredits, parseErr = parseCredits(row.get("max_credits"))
		}
		if parseErr != nil {
			s.logger.Warn("skipping course row with invalid credits",
				zap.Int("line", row.line), zap.String("course_id", course.CourseID), zap.Error(parseErr))
			continue
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// CountSections tallies section rows for the semester.
func (s *FileStore) CountSections(ctx context.Context, semester models.Semester) (models.SectionCounts, error) {
	rows, err := readCSV(s.paths.Sections, []string{"course_id"})
	if err != nil {
		return nil, fmt.Errorf("read sections: %w", err)
	}
	sections := make([]models.Section, 0, len(rows))
	for _, row := range rows {
		token := row.get("semester")
		if token == "" {
			token = row.get("semester_token")
		}
		if row.get("course_id") == "" || token == "" {
			s.logger.Warn("skipping incomplete section row", zap.Int("line", row.line))
			continue
		}
		sections = append(sections, models.Section{
			CourseID:      row.get("course_id"),
			Semester:      token,
			SectionNumber: row.get("section_number"),
		})
	}
	return models.CountSections(sections, semester), nil
}

// ListOfferings reads the offering table from YAML (course_id: code) or CSV (course_id,offering_code).
func (s *FileStore) ListOfferings(ctx context.Context) (map[string]string, error) {
	switch strings.ToLower(filepath.Ext(s.paths.Offerings)) {
	case ".yaml", ".yml":
		raw, err := os.ReadFile(s.paths.Offerings)
		if err != nil {
			return nil, fmt.Errorf("read offerings: %w", err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("decode offerings: %w", err)
		}
		return table, nil
	default:
		rows, err := readCSV(s.paths.Offerings, []string{"course_id", "offering_code"})
		if err != nil {
			return nil, fmt.Errorf("read offerings: %w", err)
		}
		table := make(map[string]string, len(rows))
		for _, row := range rows {
			if row.get("course_id") == "" {
				s.logger.Warn("skipping offering row without course_id", zap.Int("line", row.line))
				continue
			}
			table[row.get("course_id")] = row.get("offering_code")
		}
		return table, nil
	}
}

// Ping checks that every configured file is readable.
func (s *FileStore) Ping(ctx context.Context) error {
	for _, path := range []string{s.paths.Students, s.paths.Courses, s.paths.Sections, s.paths.Offerings} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return nil
}

func (s *FileStore) readStudents(ctx context.Context) ([]models.Student, error) {
	file, err := os.Open(s.paths.Students)
	if err != nil {
		return nil, fmt.Errorf("open students: %w", err)
	}
	defer file.Close()

	var students []models.Student
	if err := json.NewDecoder(file).Decode(&students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := students[:0]
	for _, student := range students {
		if student.ID == "" {
			s.logger.Warn("skipping student without id", zap.String("name", student.Name))
			continue
		}
		for token, plan := range student.Plan {
			kept := plan.Courses[:0]
			for _, course := range plan.Courses {
				status, ok := models.ParsePlanStatus(string(course.Status))
				if !ok {
					s.logger.Warn("skipping plan entry with unknown status",
						zap.String("student_id", student.ID),
						zap.String("course_id", course.CourseID),
						zap.String("status", string(course.Status)))
					continue
				}
				course.Status = status
				kept = append(kept, course)
			}
			plan.Courses = kept
			student.Plan[token] = plan
		}
		out = append(out, student)
	}
	return out, nil
}

type csvRow struct {
	line   int
	index  map[string]int
	values []string
}

func (r csvRow) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// readCSV reads a headed CSV file. Missing required columns make the whole file invalid.
func readCSV(path string, required []string) ([]csvRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: missing header", filepath.Base(path))
		}
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, column := range header {
		index[strings.ToLower(strings.TrimSpace(column))] = i
	}
	for _, column := range required {
		if _, ok := index[column]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", filepath.Base(path), column)
		}
	}

	var rows []csvRow
	line := 1
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), line, err)
		}
		rows = append(rows, csvRow{line: line, index: index, values: values})
	}
	return rows, nil
}

func parseCredits(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("credits %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("credits %q: negative", raw)
	}
	return value, nil
}
