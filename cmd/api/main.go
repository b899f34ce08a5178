package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edusales/leads-api/api/swagger"
	"github.com/edusales/leads-api/internal/handler"
	"github.com/edusales/leads-api/internal/middleware"
	"github.com/edusales/leads-api/internal/repository"
	"github.com/edusales/leads-api/internal/service"
	"github.com/edusales/leads-api/pkg/cache"
	"github.com/edusales/leads-api/pkg/config"
	"github.com/edusales/leads-api/pkg/database"
	"github.com/edusales/leads-api/pkg/logger"
	corsmiddleware "github.com/edusales/leads-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edusales/leads-api/pkg/middleware/requestid"
)

// @title Leads API
// @version 1.0.0
// @description CRUD backend for prospective-student leads and their academic enrollment history
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		logr.Sugar().Fatalw("failed to ensure schema", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Leads.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, lead cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Leads.CacheTTL, logr, true)
		}
	}

	leadSvc := service.NewLeadService(
		db,
		repository.NewLeadRepository(db),
		repository.NewCareerRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrollmentTermRepository(db),
		repository.NewRegistrationRepository(db),
		cacheSvc,
		metricsSvc,
		cfg.Leads.CacheTTL,
		validator.New(),
		logr,
	)

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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.NewLeadHandler(leadSvc, cfg.Leads.DefaultPageSize).RegisterRoutes(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
