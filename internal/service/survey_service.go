// internal/service/survey_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/fieldsight/survey-api/internal/cache"
	"github.com/fieldsight/survey-api/internal/config"
	"github.com/fieldsight/survey-api/internal/domain"
	"github.com/fieldsight/survey-api/internal/export"
	"github.com/fieldsight/survey-api/internal/repository"
	"github.com/fieldsight/survey-api/internal/storage"
)

// DefaultContentType is used for attachments whose object metadata does
// not carry a content type.
const DefaultContentType = "application/octet-stream"

// SurveyService orchestrates the three export shapes: pivot queries,
// object downloads (single and zipped), and the xlsx report.
type SurveyService struct {
	repo      repository.SurveyRepository
	store     storage.ObjectStorage
	assembler *export.ZipAssembler
	cache     cache.PivotResultCache
	exportCfg config.ExportConfig
}

func NewSurveyService(
	repo repository.SurveyRepository,
	store storage.ObjectStorage,
	pivotCache cache.PivotResultCache,
	exportCfg config.ExportConfig,
) *SurveyService {
	return &SurveyService{
		repo:      repo,
		store:     store,
		assembler: export.NewZipAssembler(store),
		cache:     pivotCache,
		exportCfg: exportCfg,
	}
}

// PivotSurveyData runs the pivot query for the given filter, consulting
// the result cache first. From/to dates are normalized to canonical UTC
// strings before binding.
func (s *SurveyService) PivotSurveyData(ctx context.Context, filter domain.QueryFilter) ([]domain.SurveyRecord, error) {
	filter = s.normalizeFilter(filter)

	if records, ok, err := s.cache.Get(ctx, filter); err != nil {
		log.Warn().Err(err).Msg("pivot cache read failed, querying store")
	} else if ok {
		return records, nil
	}

	records, err := s.repo.PivotSurveyData(ctx, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, filter, records); err != nil {
		log.Warn().Err(err).Msg("pivot cache write failed")
	}

	return records, nil
}

// Attachment is one opened object plus the header values its response
// needs. The caller must Close the Body on every exit path.
type Attachment struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

// DownloadAttachment opens a single object for streaming. The key must be
// non-empty after trimming; validation happens before any storage call.
// projectID is accepted for contract compatibility but does not take part
// in storage addressing.
func (s *SurveyService) DownloadAttachment(ctx context.Context, projectID, fileKey string) (*Attachment, error) {
	key := strings.TrimSpace(fileKey)
	if key == "" {
		return nil, fmt.Errorf("file name is required: %w", domain.ErrValidation)
	}

	body, info, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	return &Attachment{
		Body:        body,
		Filename:    key,
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

// StreamImagesZip assembles the requested objects into one zip archive
// written directly to w. Missing members are skipped; the result reports
// them and a partial archive is logged as a PartialFailure.
func (s *SurveyService) StreamImagesZip(ctx context.Context, w io.Writer, projectID string, fileKeys []string) (export.ArchiveResult, error) {
	result, err := s.assembler.Assemble(ctx, w, fileKeys)
	if err != nil {
		return result, err
	}

	if result.Partial() {
		partial := &domain.PartialFailure{Skipped: result.Skipped}
		log.Warn().Err(partial).Strs("skipped", result.Skipped).Msg("zip archive finalized partially")
	}

	return result, nil
}

// ExportReport queries live data for the filter and builds the report
// workbook in memory. Both range dates are required. Serialization is
// left to the caller so response headers can wait until the query and
// build have succeeded; the caller must Close the returned file.
func (s *SurveyService) ExportReport(ctx context.Context, filter domain.QueryFilter) (*excelize.File, string, error) {
	if strings.TrimSpace(filter.FromDate) == "" || strings.TrimSpace(filter.ToDate) == "" {
		return nil, "", fmt.Errorf("fromDate and toDate are required: %w", domain.ErrValidation)
	}

	filename := export.ReportFilename(filter.FromDate, filter.ToDate)

	records, err := s.repo.PivotSurveyData(ctx, s.normalizeFilter(filter))
	if err != nil {
		return nil, "", err
	}

	f, err := export.BuildReport(records, export.ReportOptions{
		LegacyZeroAsNA: s.exportCfg.LegacyZeroAsNA,
	})
	if err != nil {
		return nil, "", fmt.Errorf("build report: %w", err)
	}

	return f, filename, nil
}

func (s *SurveyService) normalizeFilter(filter domain.QueryFilter) domain.QueryFilter {
	offset := s.exportCfg.FilterUTCOffsetMinutes
	filter.FromDate = export.NormalizeFilterDate(filter.FromDate, offset)
	filter.ToDate = export.NormalizeFilterDate(filter.ToDate, offset)
	return filter
}
