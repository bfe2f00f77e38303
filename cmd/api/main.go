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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/painelescolar/bi-api/api/swagger"
	"github.com/painelescolar/bi-api/internal/handler"
	"github.com/painelescolar/bi-api/internal/middleware"
	"github.com/painelescolar/bi-api/internal/registry"
	"github.com/painelescolar/bi-api/internal/repository"
	"github.com/painelescolar/bi-api/internal/service"
	"github.com/painelescolar/bi-api/pkg/cache"
	"github.com/painelescolar/bi-api/pkg/config"
	"github.com/painelescolar/bi-api/pkg/database"
	"github.com/painelescolar/bi-api/pkg/logger"
	corsmiddleware "github.com/painelescolar/bi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/painelescolar/bi-api/pkg/middleware/requestid"
)

// @title Painel Escolar BI API
// @version 1.0.0
// @description Read-only aggregation API behind the school business-intelligence dashboard
// @BasePath /
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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.AnalyticsTTL, logr, cfg.Cache.Enabled)

	reg := registry.New(cfg.School.ClassCapacity)
	queryTimeout := cfg.Database.QueryTimeout

	metricSvc := service.NewMetricService(reg, repository.NewMetricRepository(db, queryTimeout), cacheSvc, metricsSvc, logr, cfg.Cache.AnalyticsTTL)
	clientsSvc := service.NewClientsService(repository.NewClientsRepository(db, queryTimeout), cacheSvc, metricsSvc, logr, cfg.Cache.SummaryTTL, cfg.School.ClassCapacity)
	examSvc := service.NewExamService(repository.NewExamRepository(db, queryTimeout), cacheSvc, metricsSvc, validator.New(), logr, cfg.Cache.ExamTTL)
	financeSvc := service.NewFinanceService(repository.NewFinanceRepository(db, queryTimeout), cacheSvc, metricsSvc, logr, cfg.Cache.SummaryTTL)
	exportSvc := service.NewExportService(metricSvc)

	analyticsHandler := handler.NewAnalyticsHandler(metricSvc)
	clientsHandler := handler.NewClientsHandler(clientsSvc)
	examHandler := handler.NewExamHandler(examSvc)
	financeHandler := handler.NewFinanceHandler(financeSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

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

	api := r.Group(cfg.APIPrefix)
	api.GET("/analytics", analyticsHandler.Query)
	api.GET("/analytics/export", exportHandler.Download)
	api.GET("/clients-summary", clientsHandler.Summary)
	api.GET("/finance-summary", financeHandler.Summary)
	api.GET("/exam-national-stats", examHandler.National)
	api.GET("/exam-city-breakdown", examHandler.CityBreakdown)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
	logr.Sugar().Infow("server stopped")
}
