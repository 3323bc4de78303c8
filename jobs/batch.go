// Package jobs runs multi-site scan batches and tracks them as background
// jobs for the HTTP service.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/pdfsweep/crawler"
	"github.com/lukemcguire/pdfsweep/report"
	"github.com/lukemcguire/pdfsweep/result"
)

// ErrNoSeeds is returned when a batch has nothing to scan.
var ErrNoSeeds = errors.New("no seed URLs")

// Runner scans one site. *crawler.Scanner satisfies it.
type Runner interface {
	Run(ctx context.Context, seed, runID, outputRoot string, sink crawler.ProgressFunc) (*result.ScanResult, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, seed, runID, outputRoot string, sink crawler.ProgressFunc) (*result.ScanResult, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, seed, runID, outputRoot string, sink crawler.ProgressFunc) (*result.ScanResult, error) {
	return f(ctx, seed, runID, outputRoot, sink)
}

// Batch describes one multi-site run. Every seed is scanned independently
// under the same run identifier.
type Batch struct {
	Runner     Runner
	Seeds      []string
	RunID      string
	OutputRoot string
	Sink       crawler.ProgressFunc // called from several goroutines when Limit != 1
	Limit      int                  // concurrent sites; <= 0 means unbounded
	Logger     logrus.FieldLogger
}

// RunBatch scans seeds with at most limit sites in flight.
func RunBatch(ctx context.Context, runner Runner, seeds []string, runID, outputRoot string, sink crawler.ProgressFunc, limit int) ([]*result.ScanResult, error) {
	return Batch{
		Runner:     runner,
		Seeds:      seeds,
		RunID:      runID,
		OutputRoot: outputRoot,
		Sink:       sink,
		Limit:      limit,
	}.Run(ctx)
}

// Run scans every seed and returns the results in seed order. If any site
// is aborted the whole batch is, and no results are returned. A site that
// fails for another reason is logged and left out.
func (b Batch) Run(ctx context.Context) ([]*result.ScanResult, error) {
	if len(b.Seeds) == 0 {
		return nil, ErrNoSeeds
	}
	log := b.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	results := make([]*result.ScanResult, len(b.Seeds))
	var g errgroup.Group
	if b.Limit > 0 {
		g.SetLimit(b.Limit)
	}
	for i, seed := range b.Seeds {
		g.Go(func() error {
			if ctx.Err() != nil {
				return crawler.ErrAborted
			}
			res, err := b.Runner.Run(ctx, seed, b.RunID, b.OutputRoot, b.Sink)
			if errors.Is(err, crawler.ErrAborted) {
				return err
			}
			if err != nil {
				log.WithField("seed", seed).WithError(err).Warn("site scan failed")
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancellation that raced the last site still stops the batch.
	if ctx.Err() != nil {
		return nil, crawler.ErrAborted
	}

	return slices.DeleteFunc(results, func(r *result.ScanResult) bool { return r == nil }), nil
}

// Publish writes one workbook per result and, if bundle is set, packages
// them into <outputRoot>/pdf_reports_<runID>.zip. It returns the archive
// path, or "" without bundling.
func Publish(results []*result.ScanResult, outputRoot, runID string, bundle bool) (string, error) {
	for _, res := range results {
		if _, err := report.WriteWorkbook(res); err != nil {
			return "", fmt.Errorf("report for %s: %w", res.SeedURL, err)
		}
	}
	if !bundle {
		return "", nil
	}

	path := filepath.Join(outputRoot, report.ArchiveName(runID))
	if _, err := report.Archive(path, results); err != nil {
		return "", err
	}
	return path, nil
}
