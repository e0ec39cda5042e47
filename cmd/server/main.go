package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sklink/internal/cache"
	"sklink/internal/config"
	"sklink/internal/database"
	"sklink/internal/repositories"
	"sklink/internal/router"
	"sklink/internal/services"
	"sklink/internal/utils"

	"go.uber.org/zap"
)

func main() {
	logger, err := initLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	logger.Info("starting sklink",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	healthCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.WaitForHealthy(healthCtx, db, logger); err != nil {
		cancel()
		logger.Fatal("database did not become healthy", zap.Error(err))
	}
	cancel()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.RedisURL = cfg.Redis.URL
	cacheInstance, err := cache.New(cacheCfg, logger)
	if err != nil {
		logger.Fatal("failed to create cache", zap.Error(err))
	}
	defer cacheInstance.Close()

	// Cloudinary is optional; without it, upload endpoints report a
	// configuration error instead of failing startup.
	var storage utils.FileStorage
	if s, err := utils.NewCloudinaryStorage(cfg.Cloudinary, logger); err != nil {
		logger.Warn("file storage disabled", zap.Error(err))
	} else {
		storage = s
	}

	repos := repositories.NewCollection(db, logger)
	svc := services.NewServiceCollection(repos, cfg, storage, logger)

	handler := router.New(router.Dependencies{
		Config:   cfg,
		Services: svc,
		DB:       db,
		Cache:    cacheInstance,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:           net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}

	logger.Info("stopped")
}

func initLogger() (*zap.Logger, error) {
	if os.Getenv("GO_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
