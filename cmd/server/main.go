package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	h "github.com/veranemoloko/video-downloader/internal/api/http"
	cfgpkg "github.com/veranemoloko/video-downloader/internal/config"
	repo "github.com/veranemoloko/video-downloader/internal/repository"
	svc "github.com/veranemoloko/video-downloader/internal/service"
	"github.com/veranemoloko/video-downloader/internal/storage"
	"github.com/veranemoloko/video-downloader/internal/worker"
)

func main() {
	cfg, err := cfgpkg.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfgpkg.SetupLogger(cfg)
	logger.Info("configuration loaded successfully",
		"download_dir", cfg.DownloadDir,
		"max_concurrent_downloads", cfg.MaxConcurrentDownloads,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *cfgpkg.Config, logger *slog.Logger) error {
	fileStorage := storage.NewFileStorage(cfg.DownloadDir)
	taskStorage := repo.NewTaskStorage()

	downloadService := svc.NewDownloadService(logger, svc.NewStrategies(cfg, logger)...)
	dispatcher := worker.NewDispatcher(cfg.MaxConcurrentDownloads, logger)
	taskService := svc.NewTaskService(taskStorage, downloadService, dispatcher, fileStorage, logger)
	janitor := worker.NewJanitor(taskService, cfg.TaskRetention, cfg.JanitorInterval, logger)

	router := h.NewRouter(h.RouterConfig{
		Tasks:       taskService,
		Files:       fileStorage,
		ServiceName: cfg.ServiceName,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return janitor.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		} else {
			logger.Info("server stopped gracefully")
		}

		if err := taskService.Shutdown(shutdownCtx); err != nil {
			logger.Warn("downloads still running at shutdown", "error", err)
		}
		return nil
	})

	return g.Wait()
}
