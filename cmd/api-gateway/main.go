package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-timetable-api/internal/handler"
	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/events"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close() //nolint:errcheck

	week, err := buildWeek(cfg.Timetable)
	if err != nil {
		logr.Sugar().Fatalw("invalid timetable configuration", "error", err)
	}

	validate := validator.New()

	runRepo := repository.NewTimetableRunRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	fixedRepo := repository.NewFixedScheduleRepository(db)
	requestRepo := repository.NewClassRequestRepository(db)

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, result cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	var publisher *events.Publisher
	if cfg.Events.Enabled {
		publisher = events.NewPublisher(cfg.Events.URL, cfg.Events.Queue, logr)
	}

	metricsSvc := service.NewMetricsService()

	var resultCache service.ResultCache
	if cacheRepo != nil {
		resultCache = cacheRepo
	}
	var runPublisher service.RunEventPublisher
	if publisher != nil {
		runPublisher = publisher
	}

	runSvc := service.NewRunService(
		runRepo,
		roomRepo,
		fixedRepo,
		requestRepo,
		resultCache,
		runPublisher,
		db,
		metricsSvc,
		validate,
		logr,
		service.RunServiceConfig{
			Week:         week,
			MaxBatchSize: cfg.Runs.MaxBatchSize,
			Workers:      cfg.Runs.WorkerConcurrency,
			QueueBuffer:  cfg.Runs.QueueBuffer,
			CacheEnabled: cfg.Cache.Enabled,
			ResultTTL:    cfg.Cache.ResultTTL,
		},
	)
	catalogSvc := service.NewCatalogService(roomRepo, departmentRepo, fixedRepo, validate, logr)
	requestSvc := service.NewClassRequestService(requestRepo, departmentRepo, validate, logr, week)

	timetableHandler := handler.NewTimetableHandler(runSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	requestHandler := handler.NewClassRequestHandler(requestSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runSvc.StartWorkers(rootCtx)
	defer runSvc.StopWorkers()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	{
		runs := api.Group("/timetable/runs")
		runs.POST("", timetableHandler.Start)
		runs.GET("", timetableHandler.List)
		runs.GET("/:id", timetableHandler.Get)
		runs.GET("/:id/progress", timetableHandler.Progress)
		runs.GET("/:id/export", timetableHandler.Export)
		runs.POST("/:id/cancel", timetableHandler.Cancel)
		runs.DELETE("/:id", timetableHandler.Delete)

		rooms := api.Group("/rooms")
		rooms.GET("", catalogHandler.ListRooms)
		rooms.POST("", catalogHandler.CreateRoom)
		rooms.POST("/import", catalogHandler.ImportRooms)
		rooms.GET("/:id", catalogHandler.GetRoom)
		rooms.PUT("/:id", catalogHandler.UpdateRoom)
		rooms.DELETE("/:id", catalogHandler.DeleteRoom)

		departments := api.Group("/departments")
		departments.GET("", catalogHandler.ListDepartments)
		departments.POST("", catalogHandler.CreateDepartment)
		departments.DELETE("/:id", catalogHandler.DeleteDepartment)

		fixed := api.Group("/fixed-schedules")
		fixed.GET("", catalogHandler.ListFixedSchedules)
		fixed.POST("", catalogHandler.CreateFixedSchedule)
		fixed.POST("/import", catalogHandler.ImportFixedSchedules)
		fixed.DELETE("/:id", catalogHandler.DeleteFixedSchedule)

		requests := api.Group("/class-requests")
		requests.GET("", requestHandler.List)
		requests.POST("", requestHandler.Create)
		requests.GET("/:id", requestHandler.Get)
		requests.DELETE("/:id", requestHandler.Delete)
		requests.DELETE("", requestHandler.Clear)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

func buildWeek(cfg config.TimetableConfig) (timetable.Week, error) {
	start, err := timetable.ParseClock(cfg.DayStart)
	if err != nil {
		return timetable.Week{}, fmt.Errorf("parse day start: %w", err)
	}
	end, err := timetable.ParseClock(cfg.DayEnd)
	if err != nil {
		return timetable.Week{}, fmt.Errorf("parse day end: %w", err)
	}
	if end <= start {
		return timetable.Week{}, fmt.Errorf("day end %s must be after day start %s", cfg.DayEnd, cfg.DayStart)
	}
	week := timetable.Week{
		Days:        cfg.Days,
		DayStart:    start,
		DayEnd:      end,
		SlotMinutes: cfg.SlotMinutes,
	}
	if len(week.Days) == 0 || week.SlotMinutes <= 0 {
		return timetable.DefaultWeek(), nil
	}
	return week, nil
}
