// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/fieldsight/survey-api/internal/api/handlers"
	"github.com/fieldsight/survey-api/internal/api/middleware"
	"github.com/fieldsight/survey-api/internal/repository"
	"github.com/fieldsight/survey-api/internal/service"
)

type Services struct {
	SurveyService *service.SurveyService
	SchemaRepo    repository.SchemaRepository
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins: defaultOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		// Content-Disposition must be readable so cross-origin callers can
		// recover attachment filenames.
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.SurveyService != nil {
			surveyHandler := handlers.NewSurveyHandler(services.SurveyService)
			surveyGroup := apiGroup.Group("/survey")
			{
				surveyGroup.GET("/pivot-data", surveyHandler.GetPivotData)
				surveyGroup.POST("/download-single-image", surveyHandler.DownloadSingle)
				surveyGroup.POST("/download-zip-image", surveyHandler.DownloadZip)
				surveyGroup.POST("/export-excel", surveyHandler.ExportExcel)
			}
		}

		if services.SchemaRepo != nil {
			databaseHandler := handlers.NewDatabaseHandler(services.SchemaRepo)
			databaseGroup := apiGroup.Group("/database")
			{
				databaseGroup.GET("/tables", databaseHandler.GetTables)
				databaseGroup.GET("/columns", databaseHandler.GetColumns)
				databaseGroup.GET("/procedures", databaseHandler.GetStoredProcedures)
				databaseGroup.GET("/procedures/:name", databaseHandler.GetProcedureDetails)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
