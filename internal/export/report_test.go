package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fieldsight/survey-api/internal/domain"
	"github.com/fieldsight/survey-api/internal/export"
)

var reportHeader = []string{
	"State", "Zone", "Outlet Name", "Location", "Survey Date",
	"Brand", "SKU", "Unit", "Batch No", "MfgDate", "ExpDate",
	"Sample Checked", "VisualDefects", "no_of_defect", "Defect_image",
	"defect_type", "Remarks", "Freshness", "Address",
}

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func fullRecord() domain.SurveyRecord {
	return domain.SurveyRecord{
		State:          strPtr("Karnataka"),
		Zone:           strPtr("South"),
		OutletName:     strPtr("Fresh Mart"),
		Location:       strPtr("Bengaluru"),
		SurveyDate:     strPtr("2025-03-10"),
		Brand:          strPtr("X"),
		SKU:            i64Ptr(120),
		Unit:           strPtr("ml"),
		BatchNoPart1:   strPtr("BN"),
		BatchNoPart2:   strPtr("4471"),
		RawMfgDate:     strPtr("2025032"),
		RawExpDate:     strPtr("2025212"),
		SampleChecked:  strPtr("Yes"),
		VisualDefects:  strPtr("None"),
		DefectCount:    i64Ptr(2),
		DefectImageRef: strPtr("img-001.jpg"),
		DefectType:     strPtr("packaging"),
		Remarks:        strPtr("ok"),
		Address:        strPtr("12 MG Road"),
	}
}

func renderRows(t *testing.T, records []domain.SurveyRecord, opts export.ReportOptions) [][]string {
	t.Helper()

	f, err := export.BuildReport(records, opts)
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	rf, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer rf.Close()

	rows, err := rf.GetRows("Survey Data")
	require.NoError(t, err)
	return rows
}

func TestBuildReport_HeaderAndRowCount(t *testing.T) {
	records := []domain.SurveyRecord{fullRecord(), fullRecord(), {}}

	rows := renderRows(t, records, export.ReportOptions{Now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)})
	require.Len(t, rows, 4, "header plus one row per record")
	assert.Equal(t, reportHeader, rows[0])

	for i, row := range rows[1:] {
		assert.Len(t, row, len(reportHeader), "row %d column count", i+1)
	}
}

func TestBuildReport_PopulatedRow(t *testing.T) {
	now := time.Date(2025, time.February, 11, 8, 0, 0, 0, time.Local)
	rows := renderRows(t, []domain.SurveyRecord{fullRecord()}, export.ReportOptions{Now: now})
	row := rows[1]

	assert.Equal(t, "Karnataka", row[0])
	assert.Equal(t, "Fresh Mart", row[2])
	assert.Equal(t, "120", row[6])
	assert.Equal(t, "BN4471", row[8], "batch cell joins the two fragments")
	assert.Equal(t, "01-02-2025", row[9], "mfg date renders dd-mm-yyyy")
	assert.Equal(t, "31-07-2025", row[10], "exp date renders dd-mm-yyyy")
	assert.Equal(t, "10", row[17], "freshness: Feb 1 to Feb 11")
	assert.Equal(t, "12 MG Road", row[18])
}

func TestBuildReport_MissingFieldsRenderNA(t *testing.T) {
	rows := renderRows(t, []domain.SurveyRecord{{}}, export.ReportOptions{})
	row := rows[1]

	for i, cell := range row {
		assert.Equal(t, "NA", cell, "column %q", reportHeader[i])
	}
}

func TestBuildReport_ZeroIsNotMissing(t *testing.T) {
	rec := domain.SurveyRecord{DefectCount: i64Ptr(0), SKU: i64Ptr(0)}

	rows := renderRows(t, []domain.SurveyRecord{rec}, export.ReportOptions{})
	assert.Equal(t, "0", rows[1][6], "zero SKU stays a real zero by default")
	assert.Equal(t, "0", rows[1][13], "zero defect count stays a real zero by default")
}

func TestBuildReport_LegacyZeroCoercion(t *testing.T) {
	rec := domain.SurveyRecord{DefectCount: i64Ptr(0), SKU: i64Ptr(0)}

	rows := renderRows(t, []domain.SurveyRecord{rec}, export.ReportOptions{LegacyZeroAsNA: true})
	assert.Equal(t, "NA", rows[1][6])
	assert.Equal(t, "NA", rows[1][13])
}

func TestBuildReport_SingleBatchFragment(t *testing.T) {
	rec := domain.SurveyRecord{BatchNoPart2: strPtr("4471")}

	rows := renderRows(t, []domain.SurveyRecord{rec}, export.ReportOptions{})
	assert.Equal(t, "4471", rows[1][8])
}

func TestBuildReport_InputOrderPreserved(t *testing.T) {
	records := []domain.SurveyRecord{
		{OutletName: strPtr("first")},
		{OutletName: strPtr("second")},
		{OutletName: strPtr("third")},
	}

	rows := renderRows(t, records, export.ReportOptions{})
	assert.Equal(t, "first", rows[1][2])
	assert.Equal(t, "second", rows[2][2])
	assert.Equal(t, "third", rows[3][2])
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t,
		"survey-data-2025-01-01-to-2025-01-31.xlsx",
		export.ReportFilename("2025-01-01", "2025-01-31"))
}
