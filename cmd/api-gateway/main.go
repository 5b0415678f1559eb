package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/plan-conflicts-api/api/swagger"
	"github.com/noah-isme/plan-conflicts-api/internal/handler"
	internalmiddleware "github.com/noah-isme/plan-conflicts-api/internal/middleware"
	"github.com/noah-isme/plan-conflicts-api/internal/models"
	"github.com/noah-isme/plan-conflicts-api/internal/repository"
	"github.com/noah-isme/plan-conflicts-api/internal/service"
	"github.com/noah-isme/plan-conflicts-api/pkg/cache"
	"github.com/noah-isme/plan-conflicts-api/pkg/config"
	"github.com/noah-isme/plan-conflicts-api/pkg/database"
	"github.com/noah-isme/plan-conflicts-api/pkg/export"
	"github.com/noah-isme/plan-conflicts-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/plan-conflicts-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/plan-conflicts-api/pkg/middleware/requestid"
)

// @title Plan Conflicts API
// @version 1.0.0
// @description Course conflict scoring over student four-year plans
// @BasePath /
// @schemes http

type planningStore interface {
	service.PlanningRepository
	service.OfferingSource
	FindStudent(ctx context.Context, id string) (*models.Student, error)
	Ping(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := openPlanningStore(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open planning data source", "source", cfg.Data.Source, "error", err)
	}
	defer closeStore()

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Conflicts.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Conflicts.CacheTTL, logr, true)
	}

	validate := service.NewValidator()
	offeringCache := service.NewOfferingCache(store, logr)
	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	if err := offeringCache.Init(initCtx); err != nil {
		logr.Sugar().Warnw("offering table not loaded at startup; will retry on first request", "error", err)
	}
	cancelInit()
	resolver := service.NewOfferingResolver(offeringCache)

	reportSvc := service.NewConflictReportService(store, resolver, cacheSvc, metricsSvc, validate, logr, service.ConflictReportConfig{
		ScaleDivisor:  cfg.Conflicts.ScaleDivisor,
		DedupePlanned: cfg.Conflicts.DedupePlanned,
		CacheTTL:      cfg.Conflicts.CacheTTL,
	})
	exportSvc := service.NewExportService(reportSvc, validate, logr, export.NewCSVExporter(), export.NewPDFExporter())
	offeringSvc := service.NewOfferingService(resolver, store, validate, logr)
	standingSvc := service.NewStandingService(store, validate)

	checks := map[string]handler.Pinger{"planning_data": store}
	if cacheRepo != nil {
		checks["redis"] = cacheRepo
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins, r.Routes))
	r.Use(internalmiddleware.WithResponseMeta())
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(metricsSvc))
	}

	handler.RegisterOps(r, metricsHandler, cfg.Metrics.Enabled)
	handler.Register(r.Group(cfg.APIPrefix), handler.Handlers{
		Conflicts: handler.NewConflictHandler(reportSvc, exportSvc),
		Courses:   handler.NewCourseHandler(offeringSvc),
		Students:  handler.NewStudentHandler(standingSvc),
	})

	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cacheSvc.Enabled() && len(cfg.Conflicts.WarmSemesters) > 0 {
		warmer := service.NewReportWarmer(reportSvc, cfg.Conflicts.WarmSemesters, cfg.Conflicts.WarmWorkers, logr)
		if err := warmer.Start(ctx); err != nil {
			logr.Sugar().Warnw("report warm-up not started", "error", err)
		}
		defer warmer.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "data_source", cfg.Data.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openPlanningStore selects the planning data backend named by DATA_SOURCE.
func openPlanningStore(cfg *config.Config, logr *zap.Logger) (planningStore, func(), error) {
	switch cfg.Data.Source {
	case config.DataSourceFile, "":
		store := repository.NewFileStore(repository.FilePaths{
			Students:  cfg.Data.StudentsFile,
			Courses:   cfg.Data.CoursesFile,
			Sections:  cfg.Data.SectionsFile,
			Offerings: cfg.Data.OfferingsFile,
		}, logr)
		return store, func() {}, nil
	case config.DataSourcePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLPlanningStore(db, logr), func() { _ = db.Close() }, nil
	case config.DataSourceSQLite:
		db, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLPlanningStore(db, logr), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}
