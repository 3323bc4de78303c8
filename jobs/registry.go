package jobs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/pdfsweep/crawler"
	"github.com/lukemcguire/pdfsweep/result"
)

var (
	// ErrNotFound is returned for an unknown job ID.
	ErrNotFound = errors.New("job not found")
	// ErrNotFinished is returned when a job's archive is requested before it is done.
	ErrNotFinished = errors.New("job not finished")
	// ErrNoArchive is returned for a finished job whose archive was already
	// downloaded or never produced.
	ErrNoArchive = errors.New("archive not available")
)

// State is the lifecycle state of a job.
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateStopped State = "stopped"
	StateError   State = "error"
)

// Progress is the latest counter snapshot for one site of a job.
type Progress struct {
	PagesCrawled int `json:"pages_crawled"`
	ErrorPages   int `json:"error_pages"`
	PDFs         int `json:"pdfs"`
}

// Job is a point-in-time copy of a tracked batch.
type Job struct {
	ID         string               `json:"id"`
	RunID      string               `json:"run_id"`
	Seeds      []string             `json:"seeds"`
	State      State                `json:"state"`
	Error      string               `json:"error,omitempty"`
	Progress   map[string]Progress  `json:"progress"`
	Log        []string             `json:"log"`
	Results    []*result.ScanResult `json:"results,omitempty"`
	Archive    string               `json:"archive,omitempty"` // file name of the ZIP while it is downloadable
	CreatedAt  time.Time            `json:"created_at"`
	FinishedAt time.Time            `json:"finished_at,omitzero"`
}

// Options configures a Registry.
type Options struct {
	OutputRoot         string
	MaxConcurrentSites int // per job; <= 0 means unbounded
	LogTail            int // progress lines kept per job (default 200)
	Logger             logrus.FieldLogger
}

const defaultLogTail = 200

// Registry runs batches in the background and keeps their state until swept.
type Registry struct {
	runner Runner
	opts   Options
	log    logrus.FieldLogger
	now    func() time.Time

	mu   sync.Mutex
	jobs map[string]*entry
	wg   sync.WaitGroup
}

type entry struct {
	Job
	archivePath string
	cancel      context.CancelFunc
}

// NewRegistry creates a registry whose jobs scan with runner.
func NewRegistry(runner Runner, opts Options) *Registry {
	if opts.LogTail <= 0 {
		opts.LogTail = defaultLogTail
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Registry{
		runner: runner,
		opts:   opts,
		log:    log,
		now:    time.Now,
		jobs:   make(map[string]*entry),
	}
}

// Submit starts a background batch over the normalized seeds and returns its
// initial snapshot.
func (r *Registry) Submit(seeds []string) (Job, error) {
	seeds = NormalizeSeeds(seeds)
	if len(seeds) == 0 {
		return Job{}, ErrNoSeeds
	}

	id := uuid.NewString()
	created := r.now()
	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{
		Job: Job{
			ID:        id,
			RunID:     NewRunID(created) + "_" + id[:8],
			Seeds:     seeds,
			State:     StateRunning,
			Progress:  make(map[string]Progress, len(seeds)),
			CreatedAt: created,
		},
		cancel: cancel,
	}

	r.mu.Lock()
	r.jobs[id] = e
	snap := e.snapshot()
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		r.execute(ctx, e)
	}()
	return snap, nil
}

func (r *Registry) execute(ctx context.Context, e *entry) {
	log := r.log.WithFields(logrus.Fields{"job_id": e.ID, "run_id": e.RunID})
	log.WithField("seeds", len(e.Seeds)).Info("job started")

	results, err := Batch{
		Runner:     r.runner,
		Seeds:      e.Seeds,
		RunID:      e.RunID,
		OutputRoot: r.opts.OutputRoot,
		Sink:       r.sink(e),
		Limit:      r.opts.MaxConcurrentSites,
		Logger:     log,
	}.Run(ctx)

	var archive string
	if err == nil {
		archive, err = Publish(results, r.opts.OutputRoot, e.RunID, true)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e.FinishedAt = r.now()
	switch {
	case errors.Is(err, crawler.ErrAborted):
		e.State = StateStopped
		log.Info("job stopped")
	case err != nil:
		e.State = StateError
		e.Error = err.Error()
		log.WithError(err).Error("job failed")
	default:
		e.State = StateDone
		e.Results = results
		e.archivePath = archive
		log.WithField("sites", len(results)).Info("job finished")
	}
}

// sink records progress for e. Sites of one job report concurrently.
func (r *Registry) sink(e *entry) crawler.ProgressFunc {
	return func(evt crawler.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		e.Progress[evt.Seed] = Progress{
			PagesCrawled: evt.PagesCrawled,
			ErrorPages:   evt.ErrorPages,
			PDFs:         evt.PDFs,
		}
		if evt.Message == "" {
			return
		}
		e.Log = append(e.Log, evt.Message)
		if over := len(e.Log) - r.opts.LogTail; over > 0 {
			e.Log = slices.Delete(e.Log, 0, over)
		}
	}
}

// Get returns a snapshot of the job.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return e.snapshot(), nil
}

// List returns snapshots of every tracked job, oldest first.
func (r *Registry) List() []Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Job, 0, len(r.jobs))
	for _, e := range r.jobs {
		out = append(out, e.snapshot())
	}
	slices.SortFunc(out, func(a, b Job) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

// Stop requests cancellation of a job. Stopping a finished job is a no-op.
func (r *Registry) Stop(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if e.State == StateRunning {
		e.cancel()
	}
	return nil
}

// StopAll requests cancellation of every running job and returns how many
// were signalled.
func (r *Registry) StopAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.jobs {
		if e.State == StateRunning {
			e.cancel()
			n++
		}
	}
	return n
}

// ArchivePath returns the ZIP of a finished job.
func (r *Registry) ArchivePath(id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.archiveLocked(id)
}

// Consume returns the ZIP of a finished job and releases it: later calls
// report ErrNoArchive. The caller owns the file and removes it once served.
func (r *Registry) Consume(id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, err := r.archiveLocked(id)
	if err != nil {
		return "", err
	}
	r.jobs[id].archivePath = ""
	return path, nil
}

func (r *Registry) archiveLocked(id string) (string, error) {
	e, ok := r.jobs[id]
	if !ok {
		return "", ErrNotFound
	}
	if e.State == StateRunning {
		return "", ErrNotFinished
	}
	if e.archivePath == "" {
		return "", ErrNoArchive
	}
	return e.archivePath, nil
}

// Sweep forgets jobs that finished more than ttl ago, removing any archive
// they still hold. It returns the number of jobs removed.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.jobs {
		if e.State == StateRunning || e.FinishedAt.After(cutoff) {
			continue
		}
		if e.archivePath != "" {
			if err := os.Remove(e.archivePath); err != nil && !os.IsNotExist(err) {
				r.log.WithField("job_id", id).WithError(err).Warn("remove archive")
			}
		}
		delete(r.jobs, id)
		n++
	}
	return n
}

// Wait blocks until every submitted job has finished.
func (r *Registry) Wait() {
	r.wg.Wait()
}

func (e *entry) snapshot() Job {
	j := e.Job
	j.Seeds = slices.Clone(e.Seeds)
	j.Log = slices.Clone(e.Log)
	if j.Log == nil {
		j.Log = []string{}
	}
	j.Results = slices.Clone(e.Results)
	j.Progress = make(map[string]Progress, len(e.Progress))
	for k, v := range e.Progress {
		j.Progress[k] = v
	}
	if e.archivePath != "" {
		j.Archive = filepath.Base(e.archivePath)
	}
	return j
}
