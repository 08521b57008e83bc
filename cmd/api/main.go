package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"artisan-market/internal/auth"
	"artisan-market/internal/handler"
	"artisan-market/internal/regiondir"
	"artisan-market/internal/service"
	"artisan-market/internal/store"
	"artisan-market/pkg/config"
	"artisan-market/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat, "artisan-market")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := store.Migrate(ctx, db); err != nil {
			cancel()
			appLogger.Fatal("Failed to migrate database", zap.Error(err))
		}
		appLogger.Info("Database schema applied")
	}
	cancel()

	// Initialize services
	opts := service.Options{
		DeletePolicy: cfg.DeletePolicy,
		Uniqueness:   cfg.Uniqueness,
		BcryptCost:   cfg.BcryptCost,
	}
	regionService := service.NewRegionService(db, opts, appLogger)
	villageService := service.NewVillageService(db, opts, appLogger)
	vendorService := service.NewVendorService(db, opts, appLogger)
	userService := service.NewUserService(db, opts, appLogger)
	assignmentService := service.NewAssignmentService(db, opts, appLogger)
	authService := auth.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, appLogger)

	routerConfig := handler.RouterConfig{
		Regions:     regionService,
		Villages:    villageService,
		Vendors:     vendorService,
		Users:       userService,
		Assignments: assignmentService,
		Auth:        authService,
		DB:          db,
		JWTSecret:   authService.Secret(),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      appLogger,
	}

	if cfg.RegionSource == config.RegionSourceDirectory {
		routerConfig.Directory = regiondir.NewClient(regiondir.Options{
			BaseURL:    cfg.RegionDirectory.BaseURL,
			Token:      cfg.RegionDirectory.Token,
			Timeout:    cfg.RegionDirectory.Timeout,
			RetryCount: 2,
		}, appLogger)
	}

	router := handler.NewRouter(routerConfig)

	appLogger.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("delete_policy", cfg.DeletePolicy),
		zap.String("region_source", cfg.RegionSource),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		appLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
