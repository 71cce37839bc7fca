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

	"github.com/fieldsight/survey-api/internal/api"
	"github.com/fieldsight/survey-api/internal/cache"
	"github.com/fieldsight/survey-api/internal/config"
	"github.com/fieldsight/survey-api/internal/repository/mssql"
	"github.com/fieldsight/survey-api/internal/service"
	"github.com/fieldsight/survey-api/internal/storage"
	"github.com/fieldsight/survey-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup(cfg.Server.Mode)
	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := mssql.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize object storage
	store, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create object storage client")
	}

	// Initialize pivot cache (noop when disabled)
	pivotCache, err := cache.NewPivotCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Pivot cache unavailable, continuing without it")
		pivotCache = cache.NewNoopPivotCache()
	}

	// Initialize services
	surveyRepo := mssql.NewSurveyRepository(db)
	schemaRepo := mssql.NewSchemaRepository(db)
	surveyService := service.NewSurveyService(surveyRepo, store, pivotCache, cfg.Export)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		SurveyService: surveyService,
		SchemaRepo:    schemaRepo,
	}, cfg.Server.AllowedOrigins)

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

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
