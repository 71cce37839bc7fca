// internal/api/handlers/survey_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fieldsight/survey-api/internal/domain"
	"github.com/fieldsight/survey-api/internal/export"
	"github.com/fieldsight/survey-api/internal/service"
)

type SurveyHandler struct {
	surveyService *service.SurveyService
}

func NewSurveyHandler(surveyService *service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

type downloadSingleRequest struct {
	ProjectID string `json:"projectId"`
	File      string `json:"file"`
}

type downloadZipRequest struct {
	ProjectID string   `json:"projectId"`
	Files     []string `json:"files"`
}

// GetPivotData returns the filtered pivot rows as JSON. All eight filters
// are optional; absent ones still reach the stored procedure as "no
// constraint".
func (h *SurveyHandler) GetPivotData(c *gin.Context) {
	filter := queryFilterFromParams(c)

	records, err := h.surveyService.PivotSurveyData(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// DownloadSingle streams one stored object back as an attachment.
func (h *SurveyHandler) DownloadSingle(c *gin.Context) {
	var req downloadSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId is required"})
		return
	}

	attachment, err := h.surveyService.DownloadAttachment(c.Request.Context(), req.ProjectID, req.File)
	if err != nil {
		respondError(c, err)
		return
	}
	defer attachment.Body.Close()

	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", attachment.Filename),
	}
	c.DataFromReader(http.StatusOK, attachment.Size, attachment.ContentType, attachment.Body, extraHeaders)
}

// DownloadZip streams a zip archive of the requested objects. Headers go
// out before assembly starts, so mid-stream failures can only be logged.
func (h *SurveyHandler) DownloadZip(c *gin.Context) {
	var req downloadZipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId is required"})
		return
	}
	if len(req.Files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "files array cannot be empty"})
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="images.zip"`)
	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	c.Status(http.StatusOK)

	_, err := h.surveyService.StreamImagesZip(c.Request.Context(), c.Writer, req.ProjectID, req.Files)
	if err != nil {
		log.Error().Err(err).Msg("zip archive assembly failed mid-stream")
		c.Abort()
	}
}

// ExportExcel builds the survey report workbook for the requested range.
// The workbook is fully built before any header goes out, so query and
// build failures still map onto the error taxonomy.
func (h *SurveyHandler) ExportExcel(c *gin.Context) {
	var filter domain.QueryFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(filter.FromDate) == "" || strings.TrimSpace(filter.ToDate) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate and toDate are required"})
		return
	}

	f, filename, err := h.surveyService.ExportReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", export.SpreadsheetContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Access-Control-Expose-Headers", "Content-Disposition")
	c.Status(http.StatusOK)

	if _, err := f.WriteTo(c.Writer); err != nil {
		log.Error().Err(err).Msg("report serialization failed mid-stream")
		c.Abort()
	}
}

func queryFilterFromParams(c *gin.Context) domain.QueryFilter {
	return domain.QueryFilter{
		OutletName:  c.Query("OutletNameInput"),
		FromDate:    c.Query("FromDate"),
		ToDate:      c.Query("ToDate"),
		Brand:       c.Query("Brand"),
		Location:    c.Query("Location"),
		State:       c.Query("State"),
		DefectType:  c.Query("defect_type"),
		BatchNumber: c.Query("BatchNumber"),
	}
}

// respondError maps the error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
