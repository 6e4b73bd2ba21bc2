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

	_ "github.com/noah-isme/bulletin-api/api/swagger"
	"github.com/noah-isme/bulletin-api/internal/handler"
	internalmiddleware "github.com/noah-isme/bulletin-api/internal/middleware"
	"github.com/noah-isme/bulletin-api/internal/repository"
	"github.com/noah-isme/bulletin-api/internal/service"
	"github.com/noah-isme/bulletin-api/pkg/cache"
	"github.com/noah-isme/bulletin-api/pkg/config"
	"github.com/noah-isme/bulletin-api/pkg/database"
	"github.com/noah-isme/bulletin-api/pkg/jobs"
	"github.com/noah-isme/bulletin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/bulletin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/bulletin-api/pkg/middleware/requestid"
	"github.com/noah-isme/bulletin-api/pkg/storage"
)

// @title Bulletin API
// @version 1.0.0
// @description Student grades, report cards and bulletin exports
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report card cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)

	settingsSvc := service.NewSettingsService(settingsRepo, service.DefaultSettings(cfg.Institute), cacheSvc, validate, logr)
	bulletinSvc := service.NewBulletinService(service.BulletinSources{
		Students: studentRepo,
		Teachers: teacherRepo,
		Courses:  courseRepo,
		Grades:   gradeRepo,
		Settings: settingsSvc,
	}, cacheSvc, metricsSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, cacheSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, teacherRepo, cacheSvc, validate, logr)
	gradeSvc := service.NewGradeService(gradeRepo, studentRepo, courseRepo, cacheSvc, validate, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(bulletinSvc, cacheSvc, logr)

	exportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(bulletinSvc, exportStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr)

	worker := service.NewReportWorker(reportRepo, exportSvc, metricsSvc, logr)
	queue := jobs.NewQueue("bulletin-exports", worker.Handle, jobs.QueueConfig{
		Workers:     cfg.Reports.WorkerConcurrency,
		BufferSize:  32,
		MaxRetries:  cfg.Reports.WorkerRetries,
		RetryDelay:  2 * time.Second,
		Logger:      logr,
		OnExhausted: worker.Exhausted,
	})
	queue.Start(ctx)
	defer queue.Stop()

	reportSvc := service.NewReportService(reportRepo, queue, exportSvc, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	bulletinHandler := handler.NewBulletinHandler(bulletinSvc, exportSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/export/:token", reportHandler.Download)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))
	admin := internalmiddleware.AdminOnly()

	secured.GET("/auth/me", authHandler.Me)
	secured.PUT("/auth/me", userHandler.UpdateMe)
	secured.POST("/users", admin, userHandler.Create)

	students := secured.Group("/students")
	students.GET("", studentHandler.List)
	students.GET("/:id", studentHandler.Get)
	students.POST("", admin, studentHandler.Create)
	students.PUT("/:id", admin, studentHandler.Update)
	students.DELETE("/:id", admin, studentHandler.Delete)

	teachers := secured.Group("/teachers")
	teachers.GET("", teacherHandler.List)
	teachers.GET("/:id", teacherHandler.Get)
	teachers.POST("", admin, teacherHandler.Create)
	teachers.PUT("/:id", admin, teacherHandler.Update)
	teachers.DELETE("/:id", admin, teacherHandler.Delete)

	courses := secured.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", admin, courseHandler.Create)
	courses.PUT("/:id", admin, courseHandler.Update)
	courses.DELETE("/:id", admin, courseHandler.Delete)

	grades := secured.Group("/grades")
	grades.GET("", gradeHandler.List)
	grades.GET("/:id", gradeHandler.Get)
	grades.POST("", admin, gradeHandler.Create)
	grades.PUT("/:id", admin, gradeHandler.Update)
	grades.DELETE("/:id", admin, gradeHandler.Delete)

	bulletins := secured.Group("/bulletins")
	bulletins.GET("/students/:id", bulletinHandler.StudentReportCard)
	bulletins.GET("/students/:id/annual", bulletinHandler.StudentAnnualReport)
	bulletins.GET("/students/:id/export", bulletinHandler.ExportStudent)
	bulletins.GET("/classes/:class", bulletinHandler.ClassReportCards)
	bulletins.GET("/classes/:class/summary", bulletinHandler.ClassSummary)

	reports := secured.Group("/reports")
	reports.POST("/bulletins", reportHandler.CreateClassExport)
	reports.GET("", reportHandler.List)
	reports.GET("/:id", reportHandler.Status)

	secured.GET("/dashboard", dashboardHandler.Get)
	secured.GET("/settings", settingsHandler.Get)
	secured.PUT("/settings", admin, settingsHandler.Update)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
