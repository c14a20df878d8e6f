// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salesops/asinsight/internal/api"
	"github.com/salesops/asinsight/internal/cache"
	"github.com/salesops/asinsight/internal/config"
	"github.com/salesops/asinsight/internal/pipeline"
	"github.com/salesops/asinsight/internal/repository"
	"github.com/salesops/asinsight/internal/repository/postgres"
	"github.com/salesops/asinsight/internal/service"
	"github.com/salesops/asinsight/internal/storage"
	"github.com/salesops/asinsight/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Session cache: redis when enabled, in-process otherwise
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize report cache")
	}

	// Optional report archive
	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		client, err := storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize report archive")
		}
		archive = client
	}

	// Optional run-history log
	var runs *repository.RunRepository
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		runs = repository.NewRunRepository(db)
		if err := runs.EnsureSchema(context.Background()); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to prepare run-history schema")
		}
	}

	reportService := service.NewReportService(reportCache, archive, runs)

	defaults := pipeline.DefaultParams()
	defaults.LongWindowDays = cfg.Windows.LongDays
	defaults.ShortWindowDays = cfg.Windows.ShortDays

	// Initialize HTTP server
	router := api.NewRouter(reportService, defaults, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
