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

	"flagdeck/internal/api"
	"flagdeck/internal/config"
	"flagdeck/internal/metrics"
	"flagdeck/internal/model"
	"flagdeck/internal/repository"
	"flagdeck/internal/service"
	"flagdeck/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// Initialize logger
	logger.InitLogger(cfg.Server.Environment)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("application startup failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// 2. Initialize Infrastructure
	rdb, err := initRedis(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	db, err := initDB(cfg.MySQL)
	if err != nil {
		return err
	}

	// 3. Initialize Repositories
	uow := repository.NewUnitOfWork(db)
	flagRepo := repository.NewFlagRepository(db)
	configRepo := repository.NewConfigRepository(db)
	configFlagRepo := repository.NewConfigFlagRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	botRepo := repository.NewBotConfigRepository(db)

	// 4. Initialize Services
	observer := metrics.NewPrometheusObserver()

	flagSvc := service.NewFlagService(uow, flagRepo, observer)
	configSvc := service.NewConfigService(uow, configRepo, configFlagRepo, versionRepo, observer)
	botSvc := service.NewBotConfigService(uow, botRepo, observer)
	authSvc := service.NewAuthService(rdb, cfg.Auth.SigningKey,
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL,
		cfg.Auth.AdminUser, cfg.Auth.AdminPassword)

	// 5. Setup HTTP Server
	r := api.RegisterRoutes(api.RouterParams{
		Features:   api.NewFeatureHandler(flagSvc),
		Configs:    api.NewConfigHandler(configSvc),
		BotConfigs: api.NewBotConfigHandler(botSvc),
		Auth:       api.NewAuthHandler(authSvc),
		Redis:      rdb,
		SigningKey: authSvc.SigningKey(),
		WritesRPS:  cfg.RateLimit.RequestsPerSecond,
		DevMode:    cfg.Server.Environment != "production",
	})

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	// 6. Start Server
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("env", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen failed", zap.Error(err))
		}
	}()

	// 7. Graceful Shutdown Signal Wait
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Create a deadline to wait for current requests to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited properly")
	return nil
}

// -- Infrastructure Initializers --

func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func initDB(cfg config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	// Simple auto-migrate for dev convenience
	// In production, you might want to use a proper migration tool like golang-migrate
	err = db.AutoMigrate(
		&model.FeatureFlag{},
		&model.FeatureConfig{},
		&model.FeatureConfigFlag{},
		&model.FeatureConfigVersion{},
		&model.BotConfig{},
		&model.BotConfigVersion{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
