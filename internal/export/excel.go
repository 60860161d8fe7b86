package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const performanceSheet = "PERFORMANCE"

// ExcelWriter writes a report to a local .xlsx file.
type ExcelWriter struct {
	path string
}

// NewExcelWriter creates an ExcelWriter targeting the given file path.
func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{path: path}
}

// Write renders the report into a single PERFORMANCE sheet and saves
// the workbook, overwriting any existing file at the path.
func (w *ExcelWriter) Write(_ context.Context, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(performanceSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	rows := buildPerformanceRows(report)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving cell for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(performanceSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// buildPerformanceRows lays out the sheet: an as-of line, the header,
// one row per investment, and a trailing portfolio summary row.
func buildPerformanceRows(report Report) [][]any {
	data := make([][]any, 0, len(report.Rows)+3)
	data = append(data, []any{"As of", report.AsOf.Format("2006-01-02")})
	data = append(data, performanceHeader)

	for _, row := range report.Rows {
		data = append(data, performanceValues(row.Name, row.AssetType, row.Metrics))
	}

	data = append(data, performanceValues("PORTFOLIO", "", report.Portfolio))
	return data
}
