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
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/class-schedule-api/api/swagger"
	"github.com/noah-isme/class-schedule-api/internal/handler"
	"github.com/noah-isme/class-schedule-api/internal/repository"
	"github.com/noah-isme/class-schedule-api/internal/service"
	"github.com/noah-isme/class-schedule-api/pkg/cache"
	"github.com/noah-isme/class-schedule-api/pkg/config"
	"github.com/noah-isme/class-schedule-api/pkg/database"
	"github.com/noah-isme/class-schedule-api/pkg/jobs"
	"github.com/noah-isme/class-schedule-api/pkg/logger"
	"github.com/noah-isme/class-schedule-api/pkg/storage"
)

// @title Class Schedule API
// @version 1.0.0
// @description Weekly class timetable: courses, upcoming classes, statistics and exports.
// @BasePath /api
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Stats.CacheEnabled {
		rdb, err = cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	metrics := service.NewMetricsService()
	courseRepo := repository.NewCourseRepository(db)
	cacheRepo := repository.NewCacheRepository(rdb, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, rdb != nil)

	loc := cfg.Schedule.Location()
	courseSvc := service.NewCourseService(courseRepo, validator.New(), cacheSvc, metrics, logr, service.CourseServiceConfig{
		Location:      loc,
		UpcomingLimit: cfg.Schedule.UpcomingLimit,
	})
	statsSvc := service.NewStatisticsService(courseRepo, cacheSvc, cfg.Stats.CacheTTL, logr)
	viewSvc := service.NewViewService(courseRepo, statsSvc, nil, logr)

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	exportSvc := service.NewExportService(courseRepo, nil, store,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		metrics, logr, service.ExportConfig{
			Enabled:   cfg.Exports.Enabled,
			APIPrefix: cfg.APIPrefix,
			Retention: cfg.Exports.Retention,
			Location:  loc,
		})

	checks := map[string]handler.Pinger{"postgres": courseRepo}
	if rdb != nil {
		checks["redis"] = cacheRepo
	}

	engine := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, handler.Handlers{
		Courses:    handler.NewCourseHandler(courseSvc),
		Statistics: handler.NewStatisticsHandler(statsSvc),
		Views:      handler.NewViewHandler(viewSvc),
		Exports:    handler.NewExportHandler(exportSvc),
		Metrics:    handler.NewMetricsHandler(metrics, checks),
	}, metrics, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if exportSvc.Enabled() {
		cleanup := jobs.NewPeriodic("export-cleanup", exportSvc.Cleanup, jobs.PeriodicConfig{
			Interval:       cfg.Exports.CleanupInterval,
			RunImmediately: true,
			Logger:         logr,
		})
		cleanup.Start(ctx)
		defer cleanup.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
