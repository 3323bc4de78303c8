package result

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		tags, alt bool
		want      Status
	}{
		{false, false, StatusInaccessible},
		{false, true, StatusInaccessible},
		{true, false, StatusLikelyInaccessible},
		{true, true, StatusAccessible},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.tags, tt.alt), "tags=%v alt=%v", tt.tags, tt.alt)
	}
}

func TestAggregatorFirstDiscoveryWins(t *testing.T) {
	agg := NewAggregator()

	first := PDFRecord{URL: "https://ex.com/a.pdf", SourcePage: "https://ex.com/one", Pages: 2, Status: StatusAccessible}
	second := PDFRecord{URL: "https://ex.com/a.pdf", SourcePage: "https://ex.com/two", Pages: 9, Status: StatusInaccessible}

	require.True(t, agg.AddPDF(first), "first record accepted")
	require.False(t, agg.AddPDF(second), "duplicate record rejected")
	assert.True(t, agg.HasPDF("https://ex.com/a.pdf"))

	res := agg.Finalize(Meta{RunID: "r", Host: "ex.com"}, OutcomeCompleted)
	assert.Equal(t, 1, res.PDFCount)
	require.Len(t, res.PDFs, 1)
	assert.Equal(t, "https://ex.com/one", res.PDFs[0].SourcePage)
}

func TestAggregatorFinalize(t *testing.T) {
	agg := NewAggregator()
	for range 4 {
		agg.RecordCrawled()
	}
	agg.RecordError(Category4xx)
	agg.RecordError(Category4xx)
	agg.RecordError("")

	agg.AddPDF(PDFRecord{URL: "u1", Pages: 1, Status: StatusInaccessible})
	agg.AddPDF(PDFRecord{URL: "u2", Pages: 2, Status: StatusInaccessible})
	agg.AddPDF(PDFRecord{URL: "u3", Pages: 3, Status: StatusLikelyInaccessible})
	agg.AddPDF(PDFRecord{URL: "u4", Pages: 4, Status: StatusAccessible})

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	meta := Meta{
		RunID:      "20260102_030405",
		SeedURL:    "https://ex.com/",
		Host:       "ex.com",
		OutputRoot: "scan_results",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
	}
	res := agg.Finalize(meta, OutcomeBoundReached)

	assert.Equal(t, 4, res.PagesCrawled)
	assert.Equal(t, 3, res.ErrorPages)
	assert.Equal(t, map[ErrorCategory]int{Category4xx: 2, CategoryUnknown: 1}, res.ErrorsByCategory)
	assert.Equal(t, 4, res.PDFCount)
	assert.Equal(t, 10, res.TotalPDFPages)
	assert.Equal(t, 2, res.CountInaccessible)
	assert.Equal(t, 1, res.CountLikely)
	assert.Equal(t, 1, res.CountAccessible)
	assert.Equal(t, 2, res.CountFor(StatusInaccessible))
	assert.Equal(t, OutcomeBoundReached, res.Outcome)
	assert.Equal(t, 2*time.Second, res.Duration)

	wantDir := filepath.Join("scan_results", "20260102_030405_ex.com")
	assert.Equal(t, wantDir, res.OutputDir)
	assert.Equal(t, filepath.Join(wantDir, "ex.com_pdf_report.xlsx"), res.ReportPath)
}

func TestAggregatorFinalizeIsSnapshot(t *testing.T) {
	agg := NewAggregator()
	res := agg.Finalize(Meta{}, OutcomeCompleted)
	agg.AddPDF(PDFRecord{URL: "late"})
	agg.RecordCrawled()

	assert.Zero(t, res.PDFCount)
	assert.Empty(t, res.PDFs)
	assert.Zero(t, res.PagesCrawled)
	assert.Nil(t, res.ErrorsByCategory, "no errors means no category map")
}

func TestSiteLabel(t *testing.T) {
	tests := []struct {
		seed, host string
		want       string
	}{
		{"https://ex.com/", "ex.com", "ex.com"},
		{"https://ex.com", "ex.com", "ex.com"},
		{"", "ex.com", "ex.com"},
		{"http://127.0.0.1:8080/", "127.0.0.1:8080", "127.0.0.1_8080"},
		{"https://ex.com/docs/", "ex.com", "ex.com_docs"},
		{"https://ex.com/a/b c/", "ex.com", "ex.com_a_b_c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SiteLabel(tt.seed, tt.host), tt.seed)
	}
}

func TestOutputDirSanitizesHost(t *testing.T) {
	got := OutputDir("out", "run1", SiteLabel("http://127.0.0.1:8080/", "127.0.0.1:8080"))
	assert.Equal(t, filepath.Join("out", "run1_127.0.0.1_8080"), got)
}

// TestFinalizeSameHostSeedsDoNotCollide checks that two seeds on one host
// write to separate directories and workbooks.
func TestFinalizeSameHostSeedsDoNotCollide(t *testing.T) {
	finalize := func(seed string) *ScanResult {
		return NewAggregator().Finalize(Meta{RunID: "run", SeedURL: seed, Host: "ex.com", OutputRoot: "out"}, OutcomeCompleted)
	}
	a := finalize("https://ex.com/a/")
	b := finalize("https://ex.com/b/")

	assert.NotEqual(t, a.OutputDir, b.OutputDir)
	assert.NotEqual(t, a.ReportPath, b.ReportPath)
	assert.Equal(t, filepath.Join("out", "run_ex.com_a", "ex.com_a_pdf_report.xlsx"), a.ReportPath)
}
