package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edustack/uni-schedule-api/internal/handler"
	internalmiddleware "github.com/edustack/uni-schedule-api/internal/middleware"
	"github.com/edustack/uni-schedule-api/internal/repository"
	"github.com/edustack/uni-schedule-api/internal/service"
	"github.com/edustack/uni-schedule-api/internal/solver"
	"github.com/edustack/uni-schedule-api/pkg/cache"
	"github.com/edustack/uni-schedule-api/pkg/config"
	"github.com/edustack/uni-schedule-api/pkg/database"
	"github.com/edustack/uni-schedule-api/pkg/lock"
	"github.com/edustack/uni-schedule-api/pkg/logger"
	corsmiddleware "github.com/edustack/uni-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edustack/uni-schedule-api/pkg/middleware/requestid"
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	// Redis only backs the generation lock; a missing instance degrades to
	// unserialised generation instead of refusing to start.
	var locker lock.Mutex
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, generation runs are not serialised", zap.Error(err))
		} else {
			defer redisClient.Close()
			locker = lock.NewRedisMutex(redisClient)
		}
	}

	teacherRepo := repository.NewTeacherRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	timeslotRepo := repository.NewTimeslotRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	groupCourseRepo := repository.NewGroupCourseRepository(db)
	teacherCourseRepo := repository.NewTeacherCourseRepository(db)
	availabilityRepo := repository.NewTeacherAvailabilityRepository(db)
	unavailabilityRepo := repository.NewGroupUnavailabilityRepository(db)
	preferenceRepo := repository.NewTeacherPreferenceRepository(db)
	subgroupRepo := repository.NewSubgroupConstraintRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	metricsSvc := service.NewMetricsService()
	builderSvc := service.NewInstanceBuilderService(
		teacherRepo, groupRepo, courseRepo, roomRepo, timeslotRepo,
		groupCourseRepo, teacherCourseRepo, availabilityRepo, unavailabilityRepo, preferenceRepo,
		logr,
	)
	solverClient := solver.NewClient(cfg.Solver, logr)
	generationSvc := service.NewGenerationService(
		builderSvc, solverClient, scheduleRepo, assignmentRepo,
		courseRepo, timeslotRepo, subgroupRepo, db,
		locker, nil, logr, metricsSvc,
		service.GenerationConfig{LockTTL: cfg.Generation.LockTTL},
	)
	catalogSvc := service.NewCatalogService(teacherRepo, groupRepo, courseRepo, roomRepo, timeslotRepo, lessonRepo)
	timetableSvc := service.NewTimetableService(scheduleRepo, assignmentRepo)
	preferenceSvc := service.NewPreferenceService(teacherRepo, preferenceRepo)

	generationHandler := handler.NewGenerationHandler(generationSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	preferenceHandler := handler.NewPreferenceHandler(preferenceSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/teachers", catalogHandler.ListTeachers)
		api.GET("/groups", catalogHandler.ListGroups)
		api.GET("/courses", catalogHandler.ListCourses)
		api.GET("/rooms", catalogHandler.ListRooms)
		api.GET("/timeslots", catalogHandler.ListTimeslots)
		api.GET("/lessons", catalogHandler.ListLessons)

		api.GET("/teachers/:id/preferences", preferenceHandler.Get)
		api.PUT("/teachers/:id/preferences", preferenceHandler.Update)

		api.GET("/schedules", timetableHandler.List)
		api.GET("/schedules/:id", timetableHandler.Get)
		api.GET("/schedules/:id/assignments", timetableHandler.Assignments)
		if cfg.Generation.Enabled {
			api.POST("/schedules/generate", generationHandler.Generate)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
