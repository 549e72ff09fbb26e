package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/constructerp/attendance-api/api/swagger"
	"github.com/constructerp/attendance-api/internal/handler"
	"github.com/constructerp/attendance-api/internal/middleware"
	"github.com/constructerp/attendance-api/internal/models"
	"github.com/constructerp/attendance-api/internal/repository"
	"github.com/constructerp/attendance-api/internal/service"
	"github.com/constructerp/attendance-api/pkg/cache"
	"github.com/constructerp/attendance-api/pkg/config"
	"github.com/constructerp/attendance-api/pkg/database"
	"github.com/constructerp/attendance-api/pkg/export"
	"github.com/constructerp/attendance-api/pkg/jobs"
	"github.com/constructerp/attendance-api/pkg/logger"
	corsmiddleware "github.com/constructerp/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/constructerp/attendance-api/pkg/middleware/requestid"
	"github.com/constructerp/attendance-api/pkg/storage"
)

// @title ConstructERP Attendance API
// @version 1.0.0
// @description Construction-site attendance tracking with a three-tier approval workflow
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Cross-cutting services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)

	// Domain services.
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "attendance-api",
	})
	userSvc := service.NewUserService(userRepo, siteRepo, validate, logr)
	siteSvc := service.NewSiteService(siteRepo, userRepo, validate, logr)
	workerSvc := service.NewWorkerService(workerRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, workerRepo, siteRepo, cacheRepo, validate, logr, service.AttendanceConfig{
		DraftTTL: cfg.Drafts.TTL,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Attendance: attendanceRepo,
		Sites:      siteRepo,
		Workers:    workerRepo,
		Cache:      cacheSvc,
		Logger:     logr,
		Config:     service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})

	// Export pipeline: local file storage, signed download URLs, an
	// in-memory worker queue and the job orchestrator on top.
	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	urlSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(attendanceRepo, fileStore, urlSigner,
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.SignedURLTTL},
		logr, export.NewCSVExporter(), export.NewPDFExporter())

	exportWorker := service.NewExportWorker(exportJobRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
	exportQueue := jobs.NewQueue("exports", exportWorker.Handle, jobs.Options{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportJobSvc := service.NewExportJobService(exportJobRepo, exportQueue, exportSvc, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exportQueue.Start(ctx)
	defer exportQueue.Stop()
	exportJobSvc.RecoverPendingJobs(ctx)
	exportJobSvc.StartCleanup(ctx)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	siteHandler := handler.NewSiteHandler(siteSvc)
	workerHandler := handler.NewWorkerHandler(workerSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	// Signed token carries its own authorization.
	api.GET("/export/:token", exportHandler.Download)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.GET("/auth/user", authHandler.Me)
	authed.POST("/auth/change-password", authHandler.ChangePassword)
	authed.GET("/dashboard/stats", dashboardHandler.Stats)

	attendance := authed.Group("/attendance")
	attendance.GET("/recent", attendanceHandler.Recent)
	attendance.GET("/check/:date", attendanceHandler.CheckSubmitted)
	attendance.POST("/submit", middleware.RequireRoles(models.RoleForeman), attendanceHandler.Submit)
	attendance.POST("/save-draft", middleware.RequireRoles(models.RoleForeman), attendanceHandler.SaveDraft)
	attendance.GET("/draft/:date", middleware.RequireRoles(models.RoleForeman), attendanceHandler.GetDraft)
	attendance.GET("/pending-review", middleware.RequireRoles(models.RoleSiteIncharge), attendanceHandler.PendingReview)
	attendance.POST("/review/:id", middleware.RequireRoles(models.RoleSiteIncharge), attendanceHandler.Review)
	attendance.GET("/pending-admin", middleware.RequireRoles(models.RoleAdmin), attendanceHandler.PendingAdmin)
	attendance.POST("/admin-approve/:id", middleware.RequireRoles(models.RoleAdmin), attendanceHandler.AdminDecide)
	attendance.GET("/approved", middleware.RequireRoles(models.RoleAdmin), attendanceHandler.Approved)
	attendance.GET("/foreman/:foremanId", middleware.RequireRoles(models.RoleAdmin), attendanceHandler.ByForeman)
	attendance.POST("/export", middleware.RequireRoles(models.RoleAdmin), exportHandler.CreateExport)
	attendance.GET("/export/:id", middleware.RequireRoles(models.RoleAdmin), exportHandler.Status)

	admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/users", userHandler.Create)
	admin.GET("/users", userHandler.List)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.GET("/system-metrics", metricsHandler.SystemMetrics)

	authed.GET("/sites", siteHandler.List)
	authed.POST("/sites", middleware.RequireRoles(models.RoleAdmin), siteHandler.Create)
	authed.PUT("/sites/:id", middleware.RequireRoles(models.RoleAdmin), siteHandler.Update)

	workers := authed.Group("/workers")
	workers.GET("/site/:siteId", workerHandler.ListBySite)
	workers.POST("", middleware.RequireRoles(models.RoleForeman), workerHandler.Create)
	workers.PUT("/:id", middleware.RequireRoles(models.RoleForeman, models.RoleAdmin), workerHandler.Update)
	workers.DELETE("/:id", middleware.RequireRoles(models.RoleForeman, models.RoleAdmin), workerHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
