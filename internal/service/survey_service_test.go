package service_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsight/survey-api/internal/cache"
	"github.com/fieldsight/survey-api/internal/config"
	"github.com/fieldsight/survey-api/internal/domain"
	"github.com/fieldsight/survey-api/internal/service"
	"github.com/fieldsight/survey-api/internal/storage"
)

type fakeRepo struct {
	records    []domain.SurveyRecord
	lastFilter domain.QueryFilter
	calls      int
	err        error
}

func (r *fakeRepo) PivotSurveyData(ctx context.Context, filter domain.QueryFilter) ([]domain.SurveyRecord, error) {
	r.calls++
	r.lastFilter = filter
	return r.records, r.err
}

type fakeStore struct {
	objects      map[string][]byte
	contentTypes map[string]string
	opens        int
}

func (f *fakeStore) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	f.opens++
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: f.contentTypes[key],
	}, nil
}

func newService(repo *fakeRepo, store *fakeStore) *service.SurveyService {
	return service.NewSurveyService(repo, store, cache.NewNoopPivotCache(), config.ExportConfig{
		FilterUTCOffsetMinutes: 330,
	})
}

func TestDownloadAttachment_EmptyKey(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}}
	svc := newService(&fakeRepo{}, store)

	for _, key := range []string{"", "   "} {
		_, err := svc.DownloadAttachment(context.Background(), "proj-1", key)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Zero(t, store.opens, "validation must short-circuit before any storage call")
}

func TestDownloadAttachment_Success(t *testing.T) {
	store := &fakeStore{
		objects:      map[string][]byte{"photo.jpg": []byte("jpeg bytes")},
		contentTypes: map[string]string{"photo.jpg": "image/jpeg"},
	}
	svc := newService(&fakeRepo{}, store)

	attachment, err := svc.DownloadAttachment(context.Background(), "proj-1", "  photo.jpg ")
	require.NoError(t, err)
	defer attachment.Body.Close()

	assert.Equal(t, "photo.jpg", attachment.Filename)
	assert.Equal(t, "image/jpeg", attachment.ContentType)
	assert.Equal(t, int64(10), attachment.Size)

	body, err := io.ReadAll(attachment.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), body)
}

func TestDownloadAttachment_DefaultContentType(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{"blob": []byte("x")}}
	svc := newService(&fakeRepo{}, store)

	attachment, err := svc.DownloadAttachment(context.Background(), "proj-1", "blob")
	require.NoError(t, err)
	defer attachment.Body.Close()

	assert.Equal(t, service.DefaultContentType, attachment.ContentType)
}

func TestDownloadAttachment_NotFound(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}}
	svc := newService(&fakeRepo{}, store)

	_, err := svc.DownloadAttachment(context.Background(), "proj-1", "gone.jpg")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPivotSurveyData_NormalizesRangeDates(t *testing.T) {
	repo := &fakeRepo{records: []domain.SurveyRecord{{}}}
	svc := newService(repo, &fakeStore{})

	_, err := svc.PivotSurveyData(context.Background(), domain.QueryFilter{
		FromDate: "2025-01-01",
		ToDate:   "2025-01-31",
		Brand:    "X",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-12-31T18:30:00Z", repo.lastFilter.FromDate)
	assert.Equal(t, "2025-01-30T18:30:00Z", repo.lastFilter.ToDate)
	assert.Equal(t, "X", repo.lastFilter.Brand)
}

func TestExportReport_RequiresRangeDates(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, &fakeStore{})

	_, _, err := svc.ExportReport(context.Background(), domain.QueryFilter{FromDate: "2025-01-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.ExportReport(context.Background(), domain.QueryFilter{ToDate: "2025-01-31"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, repo.calls, "validation must short-circuit before the query")
}

func TestExportReport_Success(t *testing.T) {
	repo := &fakeRepo{records: []domain.SurveyRecord{{}, {}, {}}}
	svc := newService(repo, &fakeStore{})

	f, filename, err := svc.ExportReport(context.Background(), domain.QueryFilter{
		FromDate: "2025-01-01",
		ToDate:   "2025-01-31",
	})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "survey-data-2025-01-01-to-2025-01-31.xlsx", filename)
	assert.Equal(t, 1, repo.calls)

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len(), "workbook bytes must reach the sink")
}

func TestExportReport_QueryFailure(t *testing.T) {
	repo := &fakeRepo{err: fmt.Errorf("proc exec: %w", domain.ErrExecution)}
	svc := newService(repo, &fakeStore{})

	f, _, err := svc.ExportReport(context.Background(), domain.QueryFilter{
		FromDate: "2025-01-01",
		ToDate:   "2025-01-31",
	})
	assert.ErrorIs(t, err, domain.ErrExecution)
	assert.Nil(t, f, "no workbook may be handed out on a failed query")
}

func TestStreamImagesZip_EmptyList(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{}}
	svc := newService(&fakeRepo{}, store)

	var buf bytes.Buffer
	_, err := svc.StreamImagesZip(context.Background(), &buf, "proj-1", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, store.opens)
}

func TestStreamImagesZip_PartialResult(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{"a.jpg": []byte("a")}}
	svc := newService(&fakeRepo{}, store)

	var buf bytes.Buffer
	result, err := svc.StreamImagesZip(context.Background(), &buf, "proj-1", []string{"a.jpg", "b.jpg"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg"}, result.Appended)
	assert.Equal(t, []string{"b.jpg"}, result.Skipped)
}
