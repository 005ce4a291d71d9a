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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/event-tracker-api/api/swagger"
	"github.com/noah-isme/event-tracker-api/internal/eventquery"
	"github.com/noah-isme/event-tracker-api/internal/handler"
	internalmiddleware "github.com/noah-isme/event-tracker-api/internal/middleware"
	"github.com/noah-isme/event-tracker-api/internal/repository"
	"github.com/noah-isme/event-tracker-api/internal/scheduler"
	"github.com/noah-isme/event-tracker-api/internal/service"
	"github.com/noah-isme/event-tracker-api/pkg/cache"
	"github.com/noah-isme/event-tracker-api/pkg/config"
	"github.com/noah-isme/event-tracker-api/pkg/database"
	"github.com/noah-isme/event-tracker-api/pkg/export"
	"github.com/noah-isme/event-tracker-api/pkg/jobs"
	"github.com/noah-isme/event-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/event-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/event-tracker-api/pkg/middleware/requestid"
)

// @title Event Tracker API
// @version 1.0.0
// @description Public event listing with per-user completion tracking
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	logr.Info("database ready", zap.String("driver", cfg.Database.Driver))

	eventRepo := repository.NewEventRepository(db)
	completionRepo := repository.NewCompletionRepository(db)
	userRepo := repository.NewUserRepository(db)

	if cfg.Events.SeedFile != "" {
		seeded, err := service.NewSeedService(eventRepo, logr).SeedFromFile(ctx, cfg.Events.SeedFile)
		if err != nil {
			return fmt.Errorf("seed events: %w", err)
		}
		if seeded > 0 {
			logr.Info("events seeded", zap.Int("count", seeded), zap.String("file", cfg.Events.SeedFile))
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		// The listing works without a cache; keep serving from storage.
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, "event-tracker:", logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Events.CacheTTL, logr, cacheRepo.Enabled())

	validate := validator.New()
	engine := eventquery.NewEngine(eventquery.NewCursorCodec(cfg.Events.CursorSecret), time.Now)
	if !engine.Codec().Signed() {
		logr.Info("cursor signing disabled, set CURSOR_SECRET to enable")
	}

	eventSvc := service.NewEventService(eventRepo, completionRepo, engine, cacheSvc, metrics, logr)
	adminSvc := service.NewAdminEventService(eventRepo, eventSvc, validate, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, metrics, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	exportSvc := service.NewExportService(eventSvc, logr, export.NewCSVExporter(), export.NewPDFExporter(), export.NewICSExporter("-//event-tracker-api//events//EN"))

	queue := jobs.NewQueue("maintenance", jobs.QueueConfig{
		Workers:    1,
		MaxRetries: cfg.Sessions.CleanupRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	})
	queue.Handle(scheduler.JobPurgeSessions, scheduler.PurgeSessionsHandler(authSvc))
	queue.Start(ctx)
	defer queue.Stop()

	cronScheduler := scheduler.New(queue, logr)
	if cfg.Sessions.CleanupSchedule != "" {
		if err := cronScheduler.Schedule(cfg.Sessions.CleanupSchedule, scheduler.JobPurgeSessions); err != nil {
			return err
		}
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, handler.Handlers{
		Events:  handler.NewEventHandler(eventSvc),
		Admin:   handler.NewAdminEventHandler(adminSvc),
		Auth:    handler.NewAuthHandler(authSvc),
		Export:  handler.NewExportHandler(exportSvc),
		Metrics: handler.NewMetricsHandler(metrics, db),
	}, authSvc, handler.RouteOptions{
		APIPrefix:      cfg.APIPrefix,
		ExposeMetrics:  cfg.Metrics.Enabled,
		ExportsEnabled: cfg.Exports.Enabled,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
