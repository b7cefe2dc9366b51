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

	_ "github.com/central-adp/central-admin-api/api/swagger"
	"github.com/central-adp/central-admin-api/internal/handler"
	"github.com/central-adp/central-admin-api/internal/middleware"
	"github.com/central-adp/central-admin-api/internal/repository"
	"github.com/central-adp/central-admin-api/internal/service"
	"github.com/central-adp/central-admin-api/pkg/cache"
	"github.com/central-adp/central-admin-api/pkg/config"
	"github.com/central-adp/central-admin-api/pkg/database"
	"github.com/central-adp/central-admin-api/pkg/logger"
	corsmiddleware "github.com/central-adp/central-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/central-adp/central-admin-api/pkg/middleware/requestid"
	"github.com/central-adp/central-admin-api/pkg/storage"
)

// @title Central Admin API
// @version 1.0.0
// @description Multi-tenant admin dashboard API
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

	// A weak or missing signing key must stop the process before it ever
	// signs a token.
	signer, err := service.NewTokenSigner(cfg.JWT)
	if err != nil {
		logr.Sugar().Fatalw("invalid jwt configuration", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	authRepo := repository.NewAuthRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(authRepo, signer, validate, logr, cfg.JWT.RefreshTokenExpiry)
	userSvc := service.NewUserService(userRepo, roleRepo, validate, logr)
	inventorySvc := service.NewInventoryService(inventoryRepo, userRepo, cacheRepo, logr, cfg.StockMetrics.CacheTTL)
	orderSvc := service.NewOrderService(orderRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(userRepo, orderRepo, inventoryRepo, cacheRepo, logr, cfg.Dashboard.CacheTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Stale rotation entries are purged opportunistically on refresh; this
	// sweep catches entries whose owners never came back.
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := authRepo.PurgeExpiredEntries(ctx, time.Now().UTC())
				if err != nil {
					logr.Sugar().Warnw("refresh entry purge failed", "error", err)
					continue
				}
				if n > 0 {
					logr.Sugar().Infow("expired refresh entries purged", "count", n)
				}
			}
		}
	}()

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		urlSigner := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		reportSvc = service.NewReportService(inventorySvc, store, urlSigner, validate, logr, cfg.Reports.WorkerConcurrency, cfg.Reports.WorkerRetries, cfg.Reports.RetentionTTL)
		reportSvc.Start(ctx)
		defer reportSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc, metricsSvc)
	userHandler := handler.NewUserHandler(userSvc)
	inventoryHandler := handler.NewInventoryHandler(inventorySvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

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
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	admin := protected.Group("")
	admin.Use(middleware.RBAC("Admin"))
	admin.GET("/users", userHandler.List)
	admin.POST("/users/staff", userHandler.CreateStaff)
	admin.POST("/users/clients", userHandler.CreateClient)
	admin.GET("/roles", userHandler.Roles)
	admin.DELETE("/users/:id", userHandler.Delete)

	userScoped := protected.Group("")
	userScoped.Use(middleware.RBAC("Admin", middleware.AllowSelf))
	userScoped.GET("/users/:id", userHandler.Get)
	userScoped.PUT("/users/:id", userHandler.Update)

	backOffice := protected.Group("")
	backOffice.Use(middleware.RBAC("Admin", "Staff"))
	backOffice.GET("/inventory", inventoryHandler.List)
	backOffice.GET("/stock-metrics/overview", inventoryHandler.Overview)
	backOffice.GET("/stock-metrics/clients/:id", inventoryHandler.ClientStats)
	if cfg.Dashboard.Enabled {
		backOffice.GET("/dashboard", dashboardHandler.Summary)
	}

	protected.POST("/orders", orderHandler.Create)
	protected.GET("/orders", orderHandler.List)
	protected.GET("/orders/:id", orderHandler.Get)

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc)
		reports := protected.Group("/reports")
		reports.Use(middleware.RBAC("Admin", "Staff"))
		reports.POST("", reportHandler.Create)
		reports.GET("/:id", reportHandler.Status)
		// Download authenticates via the signed token itself.
		api.GET("/reports/download", reportHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
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
}
