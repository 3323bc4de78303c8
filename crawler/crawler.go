// Package crawler discovers the PDFs reachable from a seed address and
// classifies their accessibility. Each scan walks the site breadth-first
// inside a host and path-prefix scope, one page at a time, with depth and
// page-count bounds and cooperative cancellation.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/pdfsweep/result"
	"github.com/lukemcguire/pdfsweep/urlutil"
)

var (
	// ErrAborted is returned by Run when its context is cancelled. No partial
	// result accompanies it.
	ErrAborted = errors.New("scan aborted")
	// ErrNoTarget is returned by Run for an empty seed address.
	ErrNoTarget = errors.New("no scan target")
)

// State is the lifecycle state of one scan run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
	StateBoundReached
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	case StateBoundReached:
		return "bound_reached"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Scanner runs site scans. It holds only configuration, so one Scanner may
// serve any number of concurrent Runs; each Run owns its own frontier,
// visited set, and records.
type Scanner struct {
	cfg Config
}

// New creates a Scanner with the given configuration.
func New(cfg Config) *Scanner {
	return &Scanner{cfg: withDefaults(cfg)}
}

// Config returns the effective configuration, defaults included.
func (s *Scanner) Config() Config {
	return s.cfg
}

// Run scans the site at seed and returns its aggregated result.
//
// runID and outputRoot only name the output directory recorded in the
// result; Run does not write files. sink may be nil. Cancelling ctx stops
// the run at the next page or PDF boundary with ErrAborted.
func (s *Scanner) Run(ctx context.Context, seed, runID, outputRoot string, sink ProgressFunc) (*result.ScanResult, error) {
	seedURL := urlutil.NormalizeSeed(seed)
	if seedURL == "" {
		return nil, ErrNoTarget
	}

	scope, err := urlutil.NewScope(seedURL)
	if err != nil {
		return nil, fmt.Errorf("scope for %q: %w", seed, err)
	}

	r := &run{
		Scanner:  s,
		seed:     seedURL,
		scope:    scope,
		frontier: NewFrontier(seedURL),
		visited:  NewVisitedTracker(s.cfg.MaxPages),
		agg:      result.NewAggregator(),
		pacer:    newPacer(s.cfg.RequestDelay),
		sink:     sink,
		log: s.cfg.Logger.WithFields(logrus.Fields{
			"seed":   seedURL,
			"run_id": runID,
		}),
		meta: result.Meta{
			RunID:      runID,
			SeedURL:    seedURL,
			Host:       scope.Host,
			OutputRoot: outputRoot,
		},
	}

	return r.execute(ctx)
}

// run is the mutable state of a single scan.
type run struct {
	*Scanner

	seed     string
	scope    urlutil.Scope
	frontier *Frontier
	visited  *VisitedTracker
	agg      *result.Aggregator
	pacer    *pacer
	sink     ProgressFunc
	log      logrus.FieldLogger
	meta     result.Meta
	state    State
}

func (r *run) execute(ctx context.Context) (*result.ScanResult, error) {
	r.state = StateRunning
	r.meta.StartedAt = time.Now()
	r.log.Info("scan started")
	r.emit(EventStarted, r.seed, "", fmt.Sprintf("=== SCANNING %s ===", r.seed))

	final := StateCompleted
	for r.frontier.Len() > 0 {
		if r.agg.PagesCrawled() >= r.cfg.MaxPages {
			final = StateBoundReached
			break
		}
		if ctx.Err() != nil {
			return r.abort()
		}

		entry, _ := r.frontier.Pop()
		if entry.Depth > r.cfg.MaxDepth || r.visited.IsVisited(entry.URL) {
			continue
		}
		pageURL, err := url.Parse(entry.URL)
		if err != nil || !r.scope.Contains(pageURL) {
			continue
		}

		if err := r.pacer.Wait(ctx); err != nil {
			return r.abort()
		}

		r.visited.Visit(entry.URL)
		r.agg.RecordCrawled()
		r.emit(EventPage, entry.URL, "", "Crawling: "+entry.URL)

		page := r.fetchPage(ctx, entry.URL, r.scope.Host)
		if page.failed() {
			cat := result.ClassifyError(page.Err, page.StatusCode)
			r.agg.RecordError(cat)
			r.log.WithFields(logrus.Fields{"url": entry.URL, "status": page.StatusCode, "category": cat}).
				WithError(page.Err).Debug("page fetch failed")
			r.emit(EventPageError, entry.URL, "", fmt.Sprintf("Error: %s (%s)", entry.URL, result.FormatCategory(cat)))
			continue
		}

		links := r.inScope(page.Links)
		if !r.classifyPDFs(ctx, entry.URL, links) {
			return r.abort()
		}
		r.enqueue(entry, links)
	}

	// A signal raised during the last page's PDF downloads still aborts.
	if ctx.Err() != nil {
		return r.abort()
	}
	return r.finish(final), nil
}

// link is a resolved in-scope candidate from the current page.
type link struct {
	raw    string
	parsed *url.URL
}

func (r *run) inScope(raw []string) []link {
	links := make([]link, 0, len(raw))
	for _, l := range raw {
		parsed, err := url.Parse(l)
		if err != nil || !r.scope.Contains(parsed) {
			continue
		}
		links = append(links, link{raw: l, parsed: parsed})
	}
	return links
}

// classifyPDFs fetches every not-yet-recorded PDF linked from the page.
// Returns false if cancellation interrupted the pass.
func (r *run) classifyPDFs(ctx context.Context, sourcePage string, links []link) bool {
	for _, l := range links {
		if ctx.Err() != nil {
			return false
		}
		if !urlutil.IsPDF(l.parsed) || r.agg.HasPDF(l.raw) {
			continue
		}

		rec, err := r.fetchPDF(ctx, l.raw, sourcePage)
		if err != nil {
			r.log.WithField("url", l.raw).WithError(err).Debug("pdf skipped")
			continue
		}
		r.agg.AddPDF(rec)
		r.emit(EventPDF, l.raw, rec.Status, fmt.Sprintf("PDF: %s [%s]", l.raw, rec.Status))
	}
	return true
}

// enqueue pushes the page's non-PDF links one level deeper, within the depth bound.
func (r *run) enqueue(parent Entry, links []link) {
	depth := parent.Depth + 1
	if depth > r.cfg.MaxDepth {
		return
	}
	for _, l := range links {
		if urlutil.IsPDF(l.parsed) || r.visited.IsVisited(l.raw) {
			continue
		}
		r.frontier.Push(Entry{URL: l.raw, Depth: depth})
	}
}

func (r *run) abort() (*result.ScanResult, error) {
	r.state = StateAborted
	r.log.WithField("pages_crawled", r.agg.PagesCrawled()).Info("scan aborted")
	r.emit(EventAborted, r.seed, "", "=== STOP REQUESTED: SCAN ABORTED ===")
	return nil, ErrAborted
}

func (r *run) finish(final State) *result.ScanResult {
	r.state = final
	r.meta.FinishedAt = time.Now()

	outcome := result.OutcomeCompleted
	if final == StateBoundReached {
		outcome = result.OutcomeBoundReached
	}
	res := r.agg.Finalize(r.meta, outcome)

	r.log.WithFields(logrus.Fields{
		"pages_crawled": res.PagesCrawled,
		"error_pages":   res.ErrorPages,
		"pdfs":          res.PDFCount,
		"outcome":       res.Outcome,
	}).Info("scan finished")
	r.emit(EventFinished, r.seed, "", fmt.Sprintf("=== DONE %s: %d pages, %d errors, %d PDFs ===",
		r.seed, res.PagesCrawled, res.ErrorPages, res.PDFCount))
	return res
}

func (r *run) emit(kind EventKind, u string, status result.Status, msg string) {
	if r.sink == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.log.WithField("panic", p).Warn("progress sink failed")
		}
	}()
	r.sink(Event{
		Kind:         kind,
		State:        r.state,
		Seed:         r.seed,
		URL:          u,
		Message:      msg,
		Status:       status,
		PagesCrawled: r.agg.PagesCrawled(),
		ErrorPages:   r.agg.ErrorPages(),
		PDFs:         r.agg.PDFCount(),
	})
}
