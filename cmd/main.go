package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/marketplace/config"
	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/internal/handler"
	"github.com/Payphone-Digital/marketplace/internal/middleware"
	"github.com/Payphone-Digital/marketplace/internal/repository"
	"github.com/Payphone-Digital/marketplace/internal/router"
	"github.com/Payphone-Digital/marketplace/internal/service"
	"github.com/Payphone-Digital/marketplace/pkg/cache"
	"github.com/Payphone-Digital/marketplace/pkg/database"
	"github.com/Payphone-Digital/marketplace/pkg/health"
	"github.com/Payphone-Digital/marketplace/pkg/imagestore"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/Payphone-Digital/marketplace/pkg/redis"
	"github.com/Payphone-Digital/marketplace/pkg/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
		zap.String("image_store", config.Image.Store),
	)

	db, err := database.NewPostgresDB(config.Database)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	database.CreateOfferIndexes(db, logger.GetLogger())
	logger.GetLogger().Info("Database migrated successfully")

	if config.App.Environment != constants.EnvProduction {
		if err := database.Seed(db); err != nil {
			// seed data may already exist
			logger.GetLogger().Error("Failed to seed database", zap.Error(err))
		}
	}

	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Warn("Redis unavailable", zap.Error(err))
		redisClient = redis.NewDisabledClient()
	}
	if !redisClient.IsEnabled() && config.Redis.MemoryFallback {
		logger.GetLogger().Info("Using in-process offer list cache")
		redisClient = cache.NewCache(time.Minute)
	}
	defer redisClient.Close()

	store, err := imagestore.New(config.Image, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize image store", zap.Error(err))
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	// Repositories
	offerRepo := repository.NewOfferRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	// Services
	jwtService := service.NewJWTService(config.JWT.Secret, config.JWT.ExpirationTime)
	accountService := service.NewAccountService(accountRepo, jwtService)
	cacheService := service.NewCacheService(redisClient, config.Redis.ListCacheTTL)
	images, err := service.NewImageCoordinator(store, config.Image.FolderTemplate)
	if err != nil {
		logger.GetLogger().Fatal("Invalid image folder template", zap.Error(err))
	}
	offerService := service.NewOfferService(offerRepo, images, cacheService)

	// Health
	monitor := health.NewMonitor(30*time.Second, logger.GetLogger())
	monitor.Register("database", health.PingChecker(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, nil), true)
	monitor.Register("list_cache", health.PingChecker(redisClient.Ping, redisClient.IsEnabled), false)
	if cloud, ok := store.(*imagestore.CloudinaryStore); ok {
		monitor.Register("image_store", health.BreakerChecker(cloud.Breaker()), false)
	}
	monitor.Start()
	defer monitor.Stop()

	// Handlers
	pictureRule := validation.PictureRule(config.Image.MaxBytes, config.Image.AllowedTypes)
	offerHandler := handler.NewOfferHandler(offerService, pictureRule)
	accountHandler := handler.NewAccountHandler(accountService)
	healthHandler := handler.NewHealthHandler(monitor)

	jwtMiddleware := middleware.NewJWTMiddleware(accountService)

	var mediaDir string
	if local, ok := store.(*imagestore.LocalStore); ok {
		mediaDir = local.Dir()
	}

	r := router.NewRouter(
		offerHandler,
		accountHandler,
		healthHandler,

		jwtMiddleware,
		config,
		mediaDir,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
