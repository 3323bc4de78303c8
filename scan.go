package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/pdfsweep/crawler"
	"github.com/lukemcguire/pdfsweep/jobs"
	"github.com/lukemcguire/pdfsweep/result"
	"github.com/lukemcguire/pdfsweep/tui"
)

// ScanCmd scans one or more sites from the terminal.
type ScanCmd struct {
	URLs []string `arg:"" name:"url" help:"Seed URLs; entries may also be separated by commas."`

	MaxDepth   int           `help:"Deepest link distance crawled (0 uses the config, negative crawls the seed only)."`
	MaxPages   int           `help:"Pages crawled per site before stopping (0 uses the config)."`
	Delay      time.Duration `help:"Delay between page fetches (0 uses the config)."`
	NoDelay    bool          `help:"Disable the delay between page fetches."`
	Timeout    time.Duration `help:"Per-request timeout (0 uses the config)."`
	Sites      int           `help:"Sites scanned concurrently (0 uses the config)."`
	OutputRoot string        `help:"Directory for reports (default from config)." type:"path"`
	Format     string        `help:"Output format." enum:"table,json,csv" default:"table"`
	Plain      bool          `help:"Print plain progress lines instead of the interactive UI."`
	Zip        bool          `help:"Bundle the reports into a ZIP archive."`
}

func (c *ScanCmd) apply(a *app) {
	crawl := &a.cfg.Crawl
	switch {
	case c.MaxDepth > 0:
		crawl.MaxDepth = c.MaxDepth
	case c.MaxDepth < 0:
		crawl.MaxDepth = 0
	}
	if c.MaxPages > 0 {
		crawl.MaxPages = c.MaxPages
	}
	if c.Delay > 0 {
		crawl.RequestDelay = c.Delay
	}
	if c.NoDelay {
		crawl.RequestDelay = 0
	}
	if c.Timeout > 0 {
		crawl.RequestTimeout = c.Timeout
	}
	if c.Sites > 0 {
		a.cfg.Server.MaxConcurrentSites = c.Sites
	}
	if c.OutputRoot != "" {
		a.cfg.Server.OutputRoot = c.OutputRoot
	}
}

// Run scans every seed, writes the reports, and prints results.
func (c *ScanCmd) Run(a *app) error {
	c.apply(a)
	seeds := jobs.ParseSeeds(strings.Join(c.URLs, " "))
	if len(seeds) == 0 {
		return jobs.ErrNoSeeds
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := !c.Plain && c.Format == "table"
	if interactive && !a.logFile {
		// Log lines would tear the interactive view.
		a.log.SetOutput(io.Discard)
	}

	runID := jobs.NewRunID(time.Now())
	batch := jobs.Batch{
		Runner:     crawler.New(a.cfg.Crawl.ScannerConfig(nil, a.log)),
		Seeds:      seeds,
		RunID:      runID,
		OutputRoot: a.cfg.Server.OutputRoot,
		Limit:      a.cfg.Server.MaxConcurrentSites,
		Logger:     a.log,
	}

	var (
		results []*result.ScanResult
		err     error
	)
	if interactive {
		results, err = runInteractive(ctx, batch)
	} else {
		batch.Sink = plainSink(os.Stderr)
		results, err = batch.Run(ctx)
	}
	if err != nil {
		return err
	}

	archive, err := jobs.Publish(results, a.cfg.Server.OutputRoot, runID, c.Zip)
	if err != nil {
		return err
	}

	if err := c.print(os.Stdout, results, interactive); err != nil {
		return err
	}
	if archive != "" {
		fmt.Fprintf(os.Stderr, "Archive: %s\n", archive)
	}

	for _, res := range results {
		if res.CountInaccessible > 0 {
			return errInaccessible
		}
	}
	return nil
}

func (c *ScanCmd) print(w io.Writer, results []*result.ScanResult, interactive bool) error {
	switch c.Format {
	case "json":
		return result.WriteJSON(w, results)
	case "csv":
		return result.WriteCSV(w, results)
	}
	if interactive {
		// The final TUI frame already shows the summary.
		return nil
	}
	for _, res := range results {
		result.PrintResults(w, res)
	}
	return nil
}

func runInteractive(ctx context.Context, batch jobs.Batch) ([]*result.ScanResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progressCh := make(chan crawler.Event, 100)
	batch.Sink = crawler.ChannelSink(ctx, progressCh)

	model := tui.NewModel(ctx, cancel, batch.Run, progressCh, batch.Seeds)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	m := final.(tui.Model)
	if m.Err() != nil {
		return nil, m.Err()
	}
	if m.Results() == nil {
		// Quit before the batch finished.
		return nil, crawler.ErrAborted
	}
	return m.Results(), nil
}

// plainSink prints progress messages, serialized across concurrent sites.
func plainSink(w io.Writer) crawler.ProgressFunc {
	var mu sync.Mutex
	return func(evt crawler.Event) {
		if evt.Message == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, evt.Message)
	}
}
