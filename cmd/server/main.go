package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/princeprakhar/hostelwise-backend/internal/api/routes"
	"github.com/princeprakhar/hostelwise-backend/internal/cache"
	"github.com/princeprakhar/hostelwise-backend/internal/config"
	"github.com/princeprakhar/hostelwise-backend/internal/database"
	"github.com/princeprakhar/hostelwise-backend/internal/jobs"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger.Init()

	cfg := config.Load()

	db, err := database.Init(cfg.DatabaseURL, cfg.IsProduction())
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}

	var queryCache cache.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warnf("Redis unavailable, running without cache: %v", err)
		} else {
			queryCache = redisCache
			logger.Info("Redis cache connected")
		}
	}
	defer queryCache.Close()

	store, err := services.NewS3Service(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object storage: ", err)
	}

	var notifier services.Notifier
	if n := services.NewEmailNotifier(cfg); n != nil {
		notifier = n
	} else {
		logger.Warn("SMTP not configured, moderation emails disabled")
	}

	svc := routes.NewServices(db, cfg, queryCache, notifier, store)

	scheduler := jobs.NewScheduler(jobs.Schedules{
		RatingReconcile: cfg.RatingReconcileSchedule,
		TokenPurge:      cfg.TokenPurgeSchedule,
	}, svc.Hostels, svc.Auth)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start cron jobs: ", err)
	}
	defer scheduler.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routes.SetupRoutes(router, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting on port " + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: ", err)
	}
}
