// Package report writes the per-site accessibility workbook and bundles
// finished workbooks into a downloadable archive.
package report

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/lukemcguire/pdfsweep/result"
)

// Sheet names in the generated workbook.
const (
	SheetPDFs    = "PDF Report"
	SheetSummary = "Summary"
)

// PDFHeaders is the header row of the PDF sheet.
var PDFHeaders = []string{"Source Page", "PDF URL", "Pages", "Bytes", "Has Tags", "Has Alt Text", "Status"}

// Row fills for the two failing statuses.
const (
	fillInaccessible = "FF9999"
	fillLikely       = "FFFF99"
)

// WriteWorkbook renders res into res.ReportPath, creating res.OutputDir
// first. It returns the path written.
func WriteWorkbook(res *result.ScanResult) (string, error) {
	if res.ReportPath == "" {
		return "", fmt.Errorf("no report path for %s", res.SeedURL)
	}
	if err := os.MkdirAll(res.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPDFs); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	if err := writePDFSheet(f, res); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return "", fmt.Errorf("add summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, res); err != nil {
		return "", err
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(res.ReportPath); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return res.ReportPath, nil
}

func writePDFSheet(f *excelize.File, res *result.ScanResult) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	red, err := fillStyle(f, fillInaccessible)
	if err != nil {
		return err
	}
	yellow, err := fillStyle(f, fillLikely)
	if err != nil {
		return err
	}

	header := make([]any, len(PDFHeaders))
	for i, h := range PDFHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetPDFs, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(PDFHeaders))
	if err := f.SetCellStyle(SheetPDFs, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, rec := range res.PDFs {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{rec.SourcePage, rec.URL, rec.Pages, rec.Bytes, yesNo(rec.HasTags), yesNo(rec.HasAlt), string(rec.Status)}
		if err := f.SetSheetRow(SheetPDFs, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}

		style := 0
		switch rec.Status {
		case result.StatusInaccessible:
			style = red
		case result.StatusLikelyInaccessible:
			style = yellow
		}
		if style != 0 {
			end, _ := excelize.CoordinatesToCellName(len(PDFHeaders), row)
			if err := f.SetCellStyle(SheetPDFs, cell, end, style); err != nil {
				return fmt.Errorf("style row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(SheetPDFs, "A", "B", 60); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	return f.SetColWidth(SheetPDFs, "C", lastCol, 16)
}

func writeSummarySheet(f *excelize.File, res *result.ScanResult) error {
	rows := [][]any{
		{"Pages Crawled", res.PagesCrawled},
		{"Error Pages", res.ErrorPages},
		{"Total PDFs Found", res.PDFCount},
		{"Total PDF Pages", res.TotalPDFPages},
		{"Inaccessible PDFs", res.CountInaccessible},
		{"Likely Inaccessible PDFs", res.CountLikely},
		{"Accessible PDFs", res.CountAccessible},
		{"Output Folder", res.OutputDir},
		{"Excel Report", res.ReportPath},
	}
	if res.Outcome == result.OutcomeBoundReached {
		rows = append(rows, []any{"Page Limit Reached", "Yes"})
	}
	for _, cat := range result.Categories {
		if n := res.ErrorsByCategory[cat]; n > 0 {
			rows = append(rows, []any{"Errors: " + result.FormatCategory(cat), n})
		}
	}

	for i, values := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &values); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 28)
}

func fillStyle(f *excelize.File, color string) (int, error) {
	id, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("fill style %s: %w", color, err)
	}
	return id, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
