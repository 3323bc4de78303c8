// Package tui provides the Bubble Tea terminal UI for pdfsweep, displaying
// live per-site scan progress and a styled summary of the PDFs found.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/pdfsweep/crawler"
	"github.com/lukemcguire/pdfsweep/result"
	"github.com/lukemcguire/pdfsweep/urlutil"
)

// ScanFunc runs the whole batch. It must stop promptly once ctx is cancelled.
type ScanFunc func(ctx context.Context) ([]*result.ScanResult, error)

// recentPDFs is how many discovered PDFs the progress view lists.
const recentPDFs = 5

// site is the live state of one seed's scan.
type site struct {
	seed    string
	pages   int
	errors  int
	pdfs    int
	current string
	state   crawler.State
}

// Model is the Bubble Tea model for the scan TUI.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	scan       ScanFunc
	spinner    spinner.Model
	progressCh <-chan crawler.Event

	sites    map[string]*site
	order    []string
	recent   []string
	quitting bool
	done     bool
	results  []*result.ScanResult
	err      error
	width    int
}

// NewModel creates a TUI model that runs scan and listens on progressCh.
// seeds fixes the display order of the sites; they are normalized so raw
// input such as "example.com" matches the seed carried by events.
func NewModel(ctx context.Context, cancel context.CancelFunc, scan ScanFunc, progressCh <-chan crawler.Event, seeds []string) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		ctx:        ctx,
		cancel:     cancel,
		scan:       scan,
		spinner:    spin,
		progressCh: progressCh,
		sites:      make(map[string]*site, len(seeds)),
	}
	for _, s := range seeds {
		if seed := urlutil.NormalizeSeed(s); seed != "" {
			m.siteFor(seed)
		}
	}
	return m
}

// Init starts the spinner, the scan, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startScan(), waitForProgress(m.progressCh))
}

// startScan returns a tea.Cmd that runs the batch and sends ScanDoneMsg.
func (m Model) startScan() tea.Cmd {
	return func() tea.Msg {
		results, err := m.scan(m.ctx)
		if err != nil && !errors.Is(err, crawler.ErrAborted) {
			err = fmt.Errorf("scan: %w", err)
		}
		return ScanDoneMsg{Results: results, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ScanProgressMsg:
		m.apply(msg.Event)
		return m, waitForProgress(m.progressCh)

	case ScanDoneMsg:
		m.done = true
		m.results = msg.Results
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) apply(evt crawler.Event) {
	s := m.siteFor(evt.Seed)
	s.pages = evt.PagesCrawled
	s.errors = evt.ErrorPages
	s.pdfs = evt.PDFs
	s.state = evt.State
	switch evt.Kind {
	case crawler.EventPage:
		s.current = evt.URL
	case crawler.EventPDF:
		m.recent = append(m.recent, evt.Message)
		if len(m.recent) > recentPDFs {
			m.recent = m.recent[len(m.recent)-recentPDFs:]
		}
	case crawler.EventFinished, crawler.EventAborted:
		s.current = ""
	}
}

func (m *Model) siteFor(seed string) *site {
	if s, ok := m.sites[seed]; ok {
		return s
	}
	if m.sites == nil {
		m.sites = make(map[string]*site)
	}
	s := &site{seed: seed}
	m.sites[seed] = s
	m.order = append(m.order, seed)
	return s
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done {
		switch {
		case errors.Is(m.err, crawler.ErrAborted):
			return errorStyle.Render("Scan stopped. No reports were written.") + "\n"
		case m.err != nil:
			return errorStyle.Render("Error: "+m.err.Error()) + "\n"
		default:
			return RenderSummary(m.results)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Scanning %d site(s)... press q to stop\n", m.spinner.View(), len(m.order))
	for _, seed := range m.order {
		s := m.sites[seed]
		fmt.Fprintf(&b, "  %s  pages %d  errors %d  PDFs %d", urlStyle.Render(seed), s.pages, s.errors, s.pdfs)
		if s.state == crawler.StateCompleted || s.state == crawler.StateBoundReached {
			b.WriteString(" " + successStyle.Render("done"))
		}
		b.WriteString("\n")
		if s.current != "" {
			b.WriteString(dimStyle.Render("    "+s.current) + "\n")
		}
	}
	for _, line := range m.recent {
		b.WriteString(dimStyle.Render("  "+line) + "\n")
	}
	return b.String()
}

// HasInaccessible reports whether any site has an inaccessible PDF.
func (m Model) HasInaccessible() bool {
	for _, res := range m.results {
		if res != nil && res.CountInaccessible > 0 {
			return true
		}
	}
	return false
}

// Results returns the finished scan results for output formatting.
func (m Model) Results() []*result.ScanResult {
	return m.results
}

// Err returns the error the batch ended with, if any.
func (m Model) Err() error {
	return m.err
}
