package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/plan-conflicts-api/internal/models"
	appErrors "github.com/noah-isme/plan-conflicts-api/pkg/errors"
)

const studentsFixture = `[
  {
    "id": "s1",
    "name": "Ada",
    "gradYear": 2026,
    "expectedGraduation": "",
    "plan": {
      "sp2026": {"courses": [
        {"course_id": "c-cs301", "department": "CS", "number": "301", "title": "Algorithms", "credits": 3, "status": "planned"},
        {"course_id": "c-cs101", "department": "CS", "number": "101", "title": "Intro", "credits": 4, "status": "In Progress"},
        {"course_id": "c-art", "department": "ART", "number": "110", "title": "Drawing", "credits": 3, "status": "wishlist"}
      ]}
    }
  },
  {"id": "", "name": "Nobody"},
  {"id": "s2", "name": "Grace", "gradYear": 2028, "expectedGraduation": "Fall 2027", "plan": {}}
]`

const coursesFixture = `course_id,department,number,title,min_credits,max_credits
c-cs301,CS,301,Algorithms,3,3
c-math310,MATH,310,"Linear Algebra, Applied",3,4
c-bad,CS,999,Broken,three,3
,CS,100,Orphan,1,1
`

const sectionsFixture = `course_id,semester,section_number
c-cs301,sp2026,01
c-math310,sp2026,01
c-math310,SP2026,02
c-math310,sp2026,03
c-math310,fa2025,01
,sp2026,09
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newFileStoreForTest(t *testing.T, offeringsName, offeringsContent string) *FileStore {
	t.Helper()
	dir := t.TempDir()
	return NewFileStore(FilePaths{
		Students:  writeFixture(t, dir, "students.json", studentsFixture),
		Courses:   writeFixture(t, dir, "courses.csv", coursesFixture),
		Sections:  writeFixture(t, dir, "sections.csv", sectionsFixture),
		Offerings: writeFixture(t, dir, offeringsName, offeringsContent),
	}, zap.NewNop())
}

func TestFileStoreStudents(t *testing.T) {
	store := newFileStoreForTest(t, "offerings.yaml", "c-cs301: fo\n")
	ctx := context.Background()

	students, err := store.ListStudentPlans(ctx, sp2026)
	require.NoError(t, err)
	require.Len(t, students, 2)

	courses := students[0].Plan["sp2026"].Courses
	require.Len(t, courses, 2)
	assert.Equal(t, models.PlanStatusPlanned, courses[0].Status)
	assert.Equal(t, models.PlanStatusInProgress, courses[1].Status)
	assert.Equal(t, 3.0, courses[0].Credits)

	student, err := store.FindStudent(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "Fall 2027", student.ExpectedGraduation)

	_, err = store.FindStudent(ctx, "nope")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestFileStoreCourses(t *testing.T) {
	store := newFileStoreForTest(t, "offerings.yaml", "c-cs301: fo\n")

	courses, err := store.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Linear Algebra, Applied", courses[1].Title)
	assert.Equal(t, 4.0, courses[1].MaxCredits)
}

func TestFileStoreCountSections(t *testing.T) {
	store := newFileStoreForTest(t, "offerings.yaml", "c-cs301: fo\n")

	counts, err := store.CountSections(context.Background(), sp2026)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Count("c-cs301"))
	assert.Equal(t, 3, counts.Count("c-math310"))
}

func TestFileStoreOfferingsYAML(t *testing.T) {
	store := newFileStoreForTest(t, "offerings.yml", "c-cs301: fo\nc-math310: e\n")

	table, err := store.ListOfferings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c-cs301": "fo", "c-math310": "e"}, table)
}

func TestFileStoreOfferingsCSV(t *testing.T) {
	store := newFileStoreForTest(t, "offerings.csv", "course_id,offering_code\nc-cs301,fo\n,e\nc-math310,se\n")

	table, err := store.ListOfferings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c-cs301": "fo", "c-math310": "se"}, table)
}

func TestFileStoreStructuralErrors(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(FilePaths{
		Students:  writeFixture(t, dir, "students.json", `{"not": "a list"}`),
		Courses:   writeFixture(t, dir, "courses.csv", "id,title\nc1,Missing columns\n"),
		Sections:  filepath.Join(dir, "missing.csv"),
		Offerings: writeFixture(t, dir, "offerings.yaml", "- not\n- a map\n"),
	}, nil)
	ctx := context.Background()

	_, err := store.ListStudentPlans(ctx, sp2026)
	assert.ErrorContains(t, err, "decode students")

	_, err = store.ListCourses(ctx)
	assert.ErrorContains(t, err, `missing column "course_id"`)

	_, err = store.CountSections(ctx, sp2026)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = store.ListOfferings(ctx)
	assert.ErrorContains(t, err, "decode offerings")

	assert.Error(t, store.Ping(ctx))
}
