package result

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/lukemcguire/pdfsweep/urlutil"
)

// Aggregator accumulates page counters and PDF records for one scan run.
// It is owned by a single run and is not safe for concurrent use.
type Aggregator struct {
	pagesCrawled int
	errorPages   int
	categories   map[ErrorCategory]int
	records      map[string]PDFRecord
	order        []string
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		categories: make(map[ErrorCategory]int),
		records:    make(map[string]PDFRecord),
	}
}

// RecordCrawled counts one page taken off the frontier and fetched.
func (a *Aggregator) RecordCrawled() {
	a.pagesCrawled++
}

// RecordError counts one page whose fetch failed, under the given category.
func (a *Aggregator) RecordError(cat ErrorCategory) {
	if cat == "" {
		cat = CategoryUnknown
	}
	a.errorPages++
	a.categories[cat]++
}

// PagesCrawled returns the running page count.
func (a *Aggregator) PagesCrawled() int { return a.pagesCrawled }

// ErrorPages returns the running error-page count.
func (a *Aggregator) ErrorPages() int { return a.errorPages }

// PDFCount returns the number of distinct PDF records so far.
func (a *Aggregator) PDFCount() int { return len(a.records) }

// HasPDF reports whether a record for url already exists.
func (a *Aggregator) HasPDF(url string) bool {
	_, ok := a.records[url]
	return ok
}

// AddPDF stores rec unless a record with the same URL exists; first discovery wins.
// Returns false when the record was ignored as a duplicate.
func (a *Aggregator) AddPDF(rec PDFRecord) bool {
	if _, ok := a.records[rec.URL]; ok {
		return false
	}
	a.records[rec.URL] = rec
	a.order = append(a.order, rec.URL)
	return true
}

// Finalize builds the Scan Result from the accumulated state.
func (a *Aggregator) Finalize(meta Meta, outcome Outcome) *ScanResult {
	label := SiteLabel(meta.SeedURL, meta.Host)
	res := &ScanResult{
		RunID:        meta.RunID,
		SeedURL:      meta.SeedURL,
		Host:         meta.Host,
		Outcome:      outcome,
		PagesCrawled: a.pagesCrawled,
		ErrorPages:   a.errorPages,
		PDFCount:     len(a.records),
		PDFs:         make([]PDFRecord, 0, len(a.records)),
		OutputDir:    OutputDir(meta.OutputRoot, meta.RunID, label),
		StartedAt:    meta.StartedAt,
		FinishedAt:   meta.FinishedAt,
		Duration:     meta.FinishedAt.Sub(meta.StartedAt),
	}
	res.ReportPath = filepath.Join(res.OutputDir, ReportFileName(label))

	if len(a.categories) > 0 {
		res.ErrorsByCategory = make(map[ErrorCategory]int, len(a.categories))
		for cat, n := range a.categories {
			res.ErrorsByCategory[cat] = n
		}
	}

	for _, u := range a.order {
		rec := a.records[u]
		res.TotalPDFPages += rec.Pages
		switch rec.Status {
		case StatusInaccessible:
			res.CountInaccessible++
		case StatusLikelyInaccessible:
			res.CountLikely++
		default:
			res.CountAccessible++
		}
		res.PDFs = append(res.PDFs, rec)
	}

	return res
}

// Meta carries the run identity needed to finalize a result.
type Meta struct {
	RunID      string
	SeedURL    string
	Host       string
	OutputRoot string
	StartedAt  time.Time
	FinishedAt time.Time
}

// SiteLabel names one seed's artifacts: the sanitized host, followed by the
// sanitized seed path when the seed is below the site root. Two seeds on the
// same host with different paths get different labels.
func SiteLabel(seedURL, host string) string {
	label := urlutil.SanitizeHost(host)
	u, err := url.Parse(seedURL)
	if err != nil {
		return label
	}
	if p := strings.Trim(u.Path, "/"); p != "" {
		label += "_" + urlutil.SanitizeHost(p)
	}
	return label
}

// OutputDir derives the artifact directory for one site of a run:
// <root>/<runID>_<site label>.
func OutputDir(root, runID, label string) string {
	return filepath.Join(root, runID+"_"+label)
}

// ReportFileName is the spreadsheet file name for a site label.
func ReportFileName(label string) string {
	return label + "_pdf_report.xlsx"
}
