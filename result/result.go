// Package result holds the data model of a scan: PDF records, accessibility
// status, the Stats Aggregator, and the finalized per-site Scan Result.
package result

import "time"

// Status is the accessibility verdict derived from a PDF's structural signals.
type Status string

const (
	StatusInaccessible       Status = "Inaccessible"
	StatusLikelyInaccessible Status = "Likely Inaccessible"
	StatusAccessible         Status = "Accessible"
)

// Classify derives the status from the two structural signals.
// An untagged document is inaccessible whatever its alt-text flag says.
func Classify(tags, alt bool) Status {
	switch {
	case !tags:
		return StatusInaccessible
	case !alt:
		return StatusLikelyInaccessible
	default:
		return StatusAccessible
	}
}

// PDFRecord describes one distinct PDF discovered during a scan.
type PDFRecord struct {
	URL        string `json:"url"`
	SourcePage string `json:"source_page"` // first page that linked to the PDF
	Pages      int    `json:"pages"`
	Bytes      int64  `json:"bytes"`
	HasTags    bool   `json:"has_tags"`
	HasAlt     bool   `json:"has_alt"`
	Status     Status `json:"status"`
}

// Outcome is the terminal state of a scan that produced a result.
type Outcome string

const (
	// OutcomeCompleted means the frontier was exhausted.
	OutcomeCompleted Outcome = "completed"
	// OutcomeBoundReached means the page cap stopped the crawl with work pending.
	OutcomeBoundReached Outcome = "bound_reached"
)

// ScanResult is the finalized, read-only outcome of one site's scan.
type ScanResult struct {
	RunID   string  `json:"run_id"`
	SeedURL string  `json:"base_url"`
	Host    string  `json:"host"`
	Outcome Outcome `json:"outcome"`

	PagesCrawled     int                   `json:"pages_crawled"`
	ErrorPages       int                   `json:"error_pages"`
	ErrorsByCategory map[ErrorCategory]int `json:"errors_by_category,omitempty"`

	PDFCount          int         `json:"pdf_count"`
	CountInaccessible int         `json:"count_inaccessible"`
	CountLikely       int         `json:"count_likely"`
	CountAccessible   int         `json:"count_accessible"`
	TotalPDFPages     int         `json:"total_pdf_pages"`
	PDFs              []PDFRecord `json:"pdfs"`

	OutputDir  string `json:"output_dir"`
	ReportPath string `json:"report_path"`

	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
}

// CountFor returns the number of PDFs with the given status.
func (r *ScanResult) CountFor(status Status) int {
	switch status {
	case StatusInaccessible:
		return r.CountInaccessible
	case StatusLikelyInaccessible:
		return r.CountLikely
	case StatusAccessible:
		return r.CountAccessible
	default:
		return 0
	}
}
