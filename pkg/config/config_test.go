package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DataSourceFile, cfg.Data.Source)
	assert.Equal(t, filepath.Join("data", "students.json"), cfg.Data.StudentsFile)
	assert.Equal(t, filepath.Join("data", "offerings.yaml"), cfg.Data.OfferingsFile)
	assert.Equal(t, 10.0, cfg.Conflicts.ScaleDivisor)
	assert.True(t, cfg.Conflicts.DedupePlanned)
	assert.False(t, cfg.Conflicts.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Conflicts.CacheTTL)
	assert.Empty(t, cfg.Conflicts.WarmSemesters)
	assert.Equal(t, 2, cfg.Conflicts.WarmWorkers)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATA_SOURCE", "SQLite")
	t.Setenv("DATA_DIR", "/srv/plans")
	t.Setenv("CONFLICT_SCALE_DIVISOR", "-3")
	t.Setenv("REPORT_CACHE_TTL", "bogus")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REPORT_WARM_SEMESTERS", "sp2026,fa2026")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DataSourceSQLite, cfg.Data.Source)
	assert.Equal(t, "/srv/plans/courses.csv", cfg.Data.CoursesFile)
	assert.Equal(t, 10.0, cfg.Conflicts.ScaleDivisor)
	assert.Equal(t, 5*time.Minute, cfg.Conflicts.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"sp2026", "fa2026"}, cfg.Conflicts.WarmSemesters)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
