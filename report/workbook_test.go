package report_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lukemcguire/pdfsweep/report"
	"github.com/lukemcguire/pdfsweep/result"
)

func sampleResult(t *testing.T) *result.ScanResult {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "20260101_120000_example.com")
	return &result.ScanResult{
		RunID:             "20260101_120000",
		SeedURL:           "https://example.com/",
		Host:              "example.com",
		Outcome:           result.OutcomeBoundReached,
		PagesCrawled:      12,
		ErrorPages:        2,
		ErrorsByCategory:  map[result.ErrorCategory]int{result.Category4xx: 2},
		PDFCount:          3,
		CountInaccessible: 1,
		CountLikely:       1,
		CountAccessible:   1,
		TotalPDFPages:     9,
		PDFs: []result.PDFRecord{
			{URL: "https://example.com/a.pdf", SourcePage: "https://example.com/", Pages: 2, Bytes: 1000, Status: result.StatusInaccessible},
			{URL: "https://example.com/b.pdf", SourcePage: "https://example.com/", Pages: 3, Bytes: 2000, HasTags: true, Status: result.StatusLikelyInaccessible},
			{URL: "https://example.com/c.pdf", SourcePage: "https://example.com/x", Pages: 4, Bytes: 3000, HasTags: true, HasAlt: true, Status: result.StatusAccessible},
		},
		OutputDir:  dir,
		ReportPath: filepath.Join(dir, result.ReportFileName("example.com")),
	}
}

func TestWriteWorkbook(t *testing.T) {
	res := sampleResult(t)

	path, err := report.WriteWorkbook(res)
	require.NoError(t, err)
	assert.Equal(t, res.ReportPath, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.SheetPDFs, report.SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(report.SheetPDFs)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, report.PDFHeaders, rows[0])
	assert.Equal(t, []string{"https://example.com/", "https://example.com/a.pdf", "2", "1000", "No", "No", "Inaccessible"}, rows[1])
	assert.Equal(t, []string{"https://example.com/x", "https://example.com/c.pdf", "4", "3000", "Yes", "Yes", "Accessible"}, rows[3])

	redID, err := f.GetCellStyle(report.SheetPDFs, "A2")
	require.NoError(t, err)
	yellowID, err := f.GetCellStyle(report.SheetPDFs, "G3")
	require.NoError(t, err)
	plainID, err := f.GetCellStyle(report.SheetPDFs, "A4")
	require.NoError(t, err)
	assert.NotEqual(t, redID, yellowID)
	assert.NotEqual(t, redID, plainID)
	assert.NotEqual(t, yellowID, plainID)

	summary, err := f.GetRows(report.SheetSummary)
	require.NoError(t, err)
	got := make(map[string]string, len(summary))
	for _, row := range summary {
		require.Len(t, row, 2)
		got[row[0]] = row[1]
	}
	assert.Equal(t, "12", got["Pages Crawled"])
	assert.Equal(t, "2", got["Error Pages"])
	assert.Equal(t, "3", got["Total PDFs Found"])
	assert.Equal(t, "9", got["Total PDF Pages"])
	assert.Equal(t, "1", got["Inaccessible PDFs"])
	assert.Equal(t, "1", got["Likely Inaccessible PDFs"])
	assert.Equal(t, "1", got["Accessible PDFs"])
	assert.Equal(t, res.OutputDir, got["Output Folder"])
	assert.Equal(t, res.ReportPath, got["Excel Report"])
	assert.Equal(t, "Yes", got["Page Limit Reached"])
	assert.Equal(t, "2", got["Errors: "+result.FormatCategory(result.Category4xx)])
}

func TestWriteWorkbookNoPDFs(t *testing.T) {
	res := sampleResult(t)
	res.PDFs = nil
	res.PDFCount = 0

	path, err := report.WriteWorkbook(res)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(report.SheetPDFs)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteWorkbookRequiresPath(t *testing.T) {
	_, err := report.WriteWorkbook(&result.ScanResult{SeedURL: "https://example.com/"})
	assert.Error(t, err)
}
