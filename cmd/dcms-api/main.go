package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unikl-dcms/dcms-api/api/swagger"
	"github.com/unikl-dcms/dcms-api/internal/handler"
	"github.com/unikl-dcms/dcms-api/internal/middleware"
	"github.com/unikl-dcms/dcms-api/internal/service"
	"github.com/unikl-dcms/dcms-api/internal/store"
	"github.com/unikl-dcms/dcms-api/pkg/cache"
	"github.com/unikl-dcms/dcms-api/pkg/config"
	"github.com/unikl-dcms/dcms-api/pkg/database"
	"github.com/unikl-dcms/dcms-api/pkg/jobs"
	"github.com/unikl-dcms/dcms-api/pkg/logger"
	corsmiddleware "github.com/unikl-dcms/dcms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unikl-dcms/dcms-api/pkg/middleware/requestid"
	"github.com/unikl-dcms/dcms-api/pkg/storage"
)

// @title UniKL DCMS API
// @version 1.0.0
// @description Digital Course Management System for UniKL campuses
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	collections := store.NewCollectionStore(db, cfg.Seed.Enabled, logr)
	if err := collections.EnsureSchema(ctx); err != nil {
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
			redisClient = nil
		}
	}
	dashboardCache := store.NewDashboardCache(redisClient)

	reportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	activitySvc := service.NewActivityService(collections, logr)
	contentSvc := service.NewContentService(collections, activitySvc, dashboardCache, validate, logr)
	authSvc := service.NewAuthService(collections, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(collections, activitySvc, validate, logr)
	dashboardSvc := service.NewDashboardService(contentSvc, dashboardCache, metricsSvc, cfg.Dashboard.CacheTTL, logr)
	wizardSvc := service.NewWizardService(contentSvc, userSvc, logr)
	formGuard := service.NewFormGuard()

	// The queue handler closes over the report service, which in turn
	// enqueues onto the queue; declare first, bind after.
	var reportSvc *service.ReportService
	reportQueue := jobs.NewQueue("reports", func(ctx context.Context, job jobs.Job) error {
		return reportSvc.Process(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportSvc = service.NewReportService(contentSvc, reportQueue, reportStore, signer, logr)
	reportQueue.Start(ctx)
	defer reportQueue.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, authSvc, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Content:   handler.NewContentHandler(contentSvc),
		Tree:      handler.NewTreeHandler(contentSvc),
		Users:     handler.NewUserHandler(userSvc),
		Activity:  handler.NewActivityHandler(activitySvc, contentSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Reports:   handler.NewReportHandler(reportSvc),
		Wizard:    handler.NewWizardHandler(wizardSvc),
		FormState: handler.NewFormStateHandler(formGuard),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	if err := dashboardCache.Close(); err != nil {
		logr.Sugar().Warnw("failed to close redis", "error", err)
	}
}
