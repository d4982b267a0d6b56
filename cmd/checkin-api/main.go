// @title           Terra do Sol Check-in API
// @version         1.0
// @description     Household registration intake and family review API for Comunidade Terra do Sol.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
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

	_ "github.com/terra-do-sol/checkin-api/api/swagger"
	"github.com/terra-do-sol/checkin-api/internal/handler"
	"github.com/terra-do-sol/checkin-api/internal/middleware"
	"github.com/terra-do-sol/checkin-api/internal/models"
	"github.com/terra-do-sol/checkin-api/internal/repository"
	"github.com/terra-do-sol/checkin-api/internal/service"
	"github.com/terra-do-sol/checkin-api/pkg/cache"
	"github.com/terra-do-sol/checkin-api/pkg/config"
	"github.com/terra-do-sol/checkin-api/pkg/database"
	"github.com/terra-do-sol/checkin-api/pkg/logger"
	"github.com/terra-do-sol/checkin-api/pkg/middleware/cors"
	"github.com/terra-do-sol/checkin-api/pkg/middleware/requestid"
	"github.com/terra-do-sol/checkin-api/pkg/storage"

	exportpkg "github.com/terra-do-sol/checkin-api/pkg/export"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	// The family list cache is optional; the API runs uncached when Redis
	// is unreachable or disabled.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, list cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	photoStore, err := storage.NewPhotoStore(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL)
	if err != nil {
		log.Fatal("failed to prepare uploads directory", zap.Error(err))
	}

	validate := validator.New()

	householdRepo := repository.NewHouseholdRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, log)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, cfg.JWT, validate, log)
	householdService := service.NewHouseholdService(householdRepo, cacheRepo, metricsService, log, cfg.Cache.Enabled && redisClient != nil, cfg.Cache.ListTTL)
	exportService := service.NewExportService(householdRepo, exportpkg.NewCSVExporter(), exportpkg.NewPDFExporter(), log)

	authHandler := handler.NewAuthHandler(authService)
	householdHandler := handler.NewHouseholdHandler(householdService, metricsService)
	uploadHandler := handler.NewUploadHandler(photoStore, cfg.Uploads, log)
	exportHandler := handler.NewExportHandler(exportService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(logger.GinMiddleware(log))
	router.Use(cors.New(cfg.CORS.AllowedOrigins))
	router.Use(middleware.Metrics(metricsService))

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(metricsService.Handler()))

	// Stored house photos are served straight from disk.
	router.Static("/uploads", photoStore.Dir())

	if cfg.Env != config.EnvProduction {
		router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group(cfg.APIPrefix)
	{
		// Public intake endpoints used by the registration form.
		api.POST("/checkins", householdHandler.SubmitCheckin)
		api.POST("/uploads/house-photo", uploadHandler.UploadHousePhoto)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/session", middleware.JWTAuth(authService), authHandler.Session)
		}

		families := api.Group("/families")
		families.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
		{
			families.GET("", householdHandler.ListFamilies)
			if cfg.Exports.Enabled {
				families.GET("/export", exportHandler.ExportRoster)
			}
			families.GET("/:id", householdHandler.GetFamily)
			families.GET("/:id/form", householdHandler.GetFamilyForm)
			families.PUT("/:id", householdHandler.UpdateFamily)
			families.DELETE("/:id", householdHandler.DeleteFamily)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
