// internal/export/report.go
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fieldsight/survey-api/internal/domain"
)

const (
	sentinelNA = "NA"

	reportSheet = "Survey Data"

	// SpreadsheetContentType is the xlsx MIME type sent with report
	// responses.
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// reportColumns is the fixed, stable column order of the report. The raw
// lowercase names are the pivot procedure's own column names and are kept
// verbatim for downstream consumers that match on them.
var reportColumns = []string{
	"State", "Zone", "Outlet Name", "Location", "Survey Date",
	"Brand", "SKU", "Unit", "Batch No", "MfgDate", "ExpDate",
	"Sample Checked", "VisualDefects", "no_of_defect", "Defect_image",
	"defect_type", "Remarks", "Freshness", "Address",
}

// ReportOptions tunes report rendering.
type ReportOptions struct {
	// LegacyZeroAsNA renders numeric zeros as "NA" the way the legacy
	// report did. It makes zero indistinguishable from missing.
	LegacyZeroAsNA bool

	// Now anchors freshness computation; zero means time.Now().
	Now time.Time
}

// BuildReport renders one workbook: a fixed header row followed by exactly
// one row per record, in input order. Every cell independently falls back
// to "NA" when its source field is absent. The caller owns the returned
// file and must Close it after serializing.
func BuildReport(records []domain.SurveyRecord, opts ReportOptions) (*excelize.File, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename report sheet: %w", err)
	}

	if err := f.SetSheetRow(reportSheet, "A1", &reportColumns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, rec := range records {
		row := buildRow(rec, opts, now)
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	// Mfg/Exp cells show day-month-year regardless of the stored value.
	// Styled per cell: excelize gives time cells a default format that a
	// column style would not override.
	if len(records) > 0 {
		dateFmt := "dd-mm-yyyy"
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create date style: %w", err)
		}
		if err := f.SetCellStyle(reportSheet, "J2", fmt.Sprintf("K%d", len(records)+1), style); err != nil {
			f.Close()
			return nil, fmt.Errorf("style date columns: %w", err)
		}
	}

	return f, nil
}

// ReportFilename follows the survey-data-<from>-to-<to>.xlsx pattern.
func ReportFilename(fromDate, toDate string) string {
	return fmt.Sprintf("survey-data-%s-to-%s.xlsx", fromDate, toDate)
}

func buildRow(rec domain.SurveyRecord, opts ReportOptions, now time.Time) []any {
	mfgRaw := deref(rec.RawMfgDate)

	return []any{
		textCell(rec.State),
		textCell(rec.Zone),
		textCell(rec.OutletName),
		textCell(rec.Location),
		textCell(rec.SurveyDate),
		textCell(rec.Brand),
		numCell(rec.SKU, opts.LegacyZeroAsNA),
		textCell(rec.Unit),
		batchCell(rec.BatchNoPart1, rec.BatchNoPart2),
		dateCell(rec.RawMfgDate),
		dateCell(rec.RawExpDate),
		textCell(rec.SampleChecked),
		textCell(rec.VisualDefects),
		numCell(rec.DefectCount, opts.LegacyZeroAsNA),
		textCell(rec.DefectImageRef),
		textCell(rec.DefectType),
		textCell(rec.Remarks),
		FreshnessDays(mfgRaw, now),
		textCell(rec.Address),
	}
}

func textCell(v *string) any {
	if v == nil || strings.TrimSpace(*v) == "" {
		return sentinelNA
	}
	return *v
}

func numCell(v *int64, legacyZeroAsNA bool) any {
	if v == nil {
		return sentinelNA
	}
	if legacyZeroAsNA && *v == 0 {
		return sentinelNA
	}
	return *v
}

// batchCell concatenates the two raw batch fragments; "NA" only when both
// are absent.
func batchCell(part1, part2 *string) any {
	joined := strings.TrimSpace(deref(part1)) + strings.TrimSpace(deref(part2))
	if joined == "" {
		return sentinelNA
	}
	return joined
}

// dateCell decodes the day-of-year raw value into a real date so the
// column style renders it dd-mm-yyyy; undecodable input degrades to "NA".
func dateCell(raw *string) any {
	if raw == nil {
		return sentinelNA
	}
	t, err := ParseDayOfYear(*raw)
	if err != nil {
		return sentinelNA
	}
	return t
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
