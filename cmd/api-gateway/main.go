package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	internalhandler "github.com/ukfootprint/class-timetabler/internal/handler"
	"github.com/ukfootprint/class-timetabler/internal/engine"
	"github.com/ukfootprint/class-timetabler/internal/metrics"
	"github.com/ukfootprint/class-timetabler/internal/orchestration"
	"github.com/ukfootprint/class-timetabler/pkg/cache"
	"github.com/ukfootprint/class-timetabler/pkg/config"
	"github.com/ukfootprint/class-timetabler/pkg/logger"
	corsmiddleware "github.com/ukfootprint/class-timetabler/pkg/middleware/cors"
	metricsmiddleware "github.com/ukfootprint/class-timetabler/pkg/middleware/metrics"
	reqidmiddleware "github.com/ukfootprint/class-timetabler/pkg/middleware/requestid"
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

	m := metrics.New()

	var solutionCache orchestration.SolutionCache
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Cache)
		if err != nil {
			logr.Sugar().Warnw("solution cache disabled", "error", err)
		} else {
			defer client.Close()
			solutionCache = cache.NewSolutionStore(client)
		}
	}

	defaultWeights := engine.Weights{
		TeacherGaps:     cfg.Solver.WeightTeacherGaps,
		RoomConsistency: cfg.Solver.WeightRoomConsistency,
		SubjectSpread:   cfg.Solver.WeightSubjectSpread,
		DailyBalance:    cfg.Solver.WeightDailyBalance,
	}
	defaultOpts := engine.Options{
		MaxTime:    cfg.Solver.MaxTime,
		NumWorkers: cfg.Solver.NumWorkers,
	}

	generator := orchestration.New(defaultWeights, defaultOpts, solutionCache, cfg.Cache.TTL, m, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metricsmiddleware.Middleware(m))

	healthHandler := internalhandler.NewHealthHandler(m)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", healthHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.GET("/", healthHandler.Root)
	api.GET("/health", healthHandler.APIHealth)

	scheduleHandler := internalhandler.NewScheduleHandler(generator)
	api.POST("/schedule/generate", scheduleHandler.Generate)

	moveHandler := internalhandler.NewMoveHandler()
	api.POST("/check-move", moveHandler.CheckMove)
	api.POST("/move-lesson", moveHandler.MoveLesson)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
