package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported planning data sources.
const (
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"
	DataSourceSQLite   = "sqlite"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Data      DataConfig
	Database  DatabaseConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Conflicts ConflictsConfig
	Metrics   MetricsConfig
	Docs      DocsConfig
}

// DataConfig selects where student plans and reference data are read from.
type DataConfig struct {
	Source        string
	Dir           string
	StudentsFile  string
	CoursesFile   string
	SectionsFile  string
	OfferingsFile string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ConflictsConfig tunes the conflict engine and report caching.
type ConflictsConfig struct {
	ScaleDivisor  float64
	DedupePlanned bool
	CacheEnabled  bool
	CacheTTL      time.Duration
	// WarmSemesters are built in the background at startup so the first request hits the cache.
	WarmSemesters []string
	WarmWorkers   int
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// DocsConfig toggles the swagger UI outside production.
type DocsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	dataDir := v.GetString("DATA_DIR")
	cfg.Data = DataConfig{
		Source:        strings.ToLower(v.GetString("DATA_SOURCE")),
		Dir:           dataDir,
		StudentsFile:  resolvePath(dataDir, v.GetString("DATA_STUDENTS_FILE")),
		CoursesFile:   resolvePath(dataDir, v.GetString("DATA_COURSES_FILE")),
		SectionsFile:  resolvePath(dataDir, v.GetString("DATA_SECTIONS_FILE")),
		OfferingsFile: resolvePath(dataDir, v.GetString("DATA_OFFERINGS_FILE")),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.SQLite = SQLiteConfig{Path: v.GetString("SQLITE_PATH")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	divisor := v.GetFloat64("CONFLICT_SCALE_DIVISOR")
	if divisor <= 0 {
		divisor = 10
	}
	cfg.Conflicts = ConflictsConfig{
		ScaleDivisor:  divisor,
		DedupePlanned: v.GetBool("CONFLICT_DEDUPE_PLANNED"),
		CacheEnabled:  v.GetBool("ENABLE_REPORT_CACHE"),
		CacheTTL:      parseDuration(v.GetString("REPORT_CACHE_TTL"), 5*time.Minute),
		WarmSemesters: splitAndTrim(v.GetString("REPORT_WARM_SEMESTERS")),
		WarmWorkers:   v.GetInt("REPORT_WARM_WORKERS"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}
	cfg.Docs = DocsConfig{Enabled: v.GetBool("ENABLE_DOCS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DATA_SOURCE", DataSourceFile)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DATA_STUDENTS_FILE", "students.json")
	v.SetDefault("DATA_COURSES_FILE", "courses.csv")
	v.SetDefault("DATA_SECTIONS_FILE", "sections.csv")
	v.SetDefault("DATA_OFFERINGS_FILE", "offerings.yaml")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "four_year_plans")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("SQLITE_PATH", "./data/plans.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CONFLICT_SCALE_DIVISOR", 10)
	v.SetDefault("CONFLICT_DEDUPE_PLANNED", true)
	v.SetDefault("ENABLE_REPORT_CACHE", false)
	v.SetDefault("REPORT_CACHE_TTL", "5m")
	v.SetDefault("REPORT_WARM_SEMESTERS", "")
	v.SetDefault("REPORT_WARM_WORKERS", 2)

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_DOCS", true)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// resolvePath joins relative data file names onto the data directory.
func resolvePath(dir, name string) string {
	if name == "" || filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
