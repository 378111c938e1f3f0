package extract

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/ZebulonRouseFrantzich/jvman/internal/events"
	"github.com/ZebulonRouseFrantzich/jvman/internal/fault"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
	"github.com/ZebulonRouseFrantzich/jvman/internal/runner"
)

// Options configures a Worker.
type Options struct {
	// Detector chooses the backend. Nil means NewDetector().
	Detector *Detector
	// StagingRoot is the parent of staging directories. Empty means the
	// platform temporary directory.
	StagingRoot string
	// Logger receives debug output. Nil means no logging.
	Logger logging.Logger
}

// Task describes one extraction.
type Task struct {
	SourceArchivePath string
	DestinationDir    string
}

// State is a snapshot of a run.
type State struct {
	RunID      string
	StagingDir string
	Backend    string
	// Merged lists the top-level names moved into the destination.
	Merged    []string
	Stopped   bool
	Succeeded bool
	Err       error
}

// Worker extracts one archive at a time.
type Worker struct {
	bus         events.Publisher
	detector    *Detector
	stagingRoot string
	log         logging.Logger
	run         runner.Runner

	mu         sync.Mutex
	state      State
	destDir    string
	terminated bool
}

// NewWorker creates a worker that publishes to bus.
func NewWorker(bus events.Publisher, opts Options) *Worker {
	if opts.Detector == nil {
		opts.Detector = NewDetector()
	}
	return &Worker{
		bus:         bus,
		detector:    opts.Detector,
		stagingRoot: opts.StagingRoot,
		log:         logging.OrNop(opts.Logger),
	}
}

// Start extracts sourceArchivePath into destinationDir in the background.
// It returns runner.ErrBusy if a previous run is still active.
func (w *Worker) Start(ctx context.Context, sourceArchivePath, destinationDir string) error {
	task := Task{SourceArchivePath: sourceArchivePath, DestinationDir: destinationDir}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.run.Running() {
		return runner.ErrBusy
	}

	w.state = State{RunID: xid.New().String()}
	w.destDir = destinationDir
	w.terminated = false

	return w.run.Start(ctx, func(ctx context.Context) {
		w.execute(ctx, task)
	})
}

// Stop cancels the active run and publishes EndExtract immediately. An
// in-progress backend call may keep running until it notices the canceled
// context; a merge in progress stops before the next entry.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.terminated || !w.run.Stop() {
		return
	}

	w.state.Stopped = true
	w.state.Succeeded = false
	w.state.Err = fault.New(fault.Cancelled, "stop", fault.ErrCancelled)
	w.publishLocked(events.Event{Type: events.EndExtract, Path: w.destDir, Err: w.state.Err})
}

// Wait blocks until the active run has fully returned.
func (w *Worker) Wait() {
	w.run.Wait()
}

// Running reports whether a run is active.
func (w *Worker) Running() bool {
	return w.run.Running()
}

// State returns a snapshot of the current or last run.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.state
	st.Merged = append([]string(nil), w.state.Merged...)
	return st
}

func (w *Worker) execute(ctx context.Context, task Task) {
	log := logging.With(w.log, "run", w.State().RunID, "archive", task.SourceArchivePath)

	w.emit(events.Event{Type: events.BeginExtract, Path: task.DestinationDir})

	destDir, err := filepath.Abs(task.DestinationDir)
	if err != nil {
		w.finish(log, fault.New(fault.MergeFailure, "resolve destination", err))
		return
	}

	backend, err := w.detector.Detect(task.SourceArchivePath)
	if err != nil {
		w.finish(log, fault.New(fault.ExtractionBackendFailure, "detect format", err).WithPath(task.SourceArchivePath))
		return
	}

	stagingDir, err := os.MkdirTemp(w.stagingRoot, "jvman-extract-*")
	if err != nil {
		w.finish(log, fault.New(fault.WriteFailure, "create staging dir", err))
		return
	}
	defer func() {
		if err := os.RemoveAll(stagingDir); err != nil {
			log.Warn("remove staging dir", "path", stagingDir, "error", err)
		}
	}()

	w.update(func(s *State) {
		s.StagingDir = stagingDir
		s.Backend = backend.Name()
	})
	log.Debug("extracting", "backend", backend.Name(), "staging", stagingDir)

	if err := backend.Extract(ctx, task.SourceArchivePath, stagingDir); err != nil {
		if ctx.Err() != nil {
			w.finish(log, fault.New(fault.Cancelled, "extract", ctx.Err()))
			return
		}
		w.finish(log, fault.New(fault.ExtractionBackendFailure, "extract "+backend.Name(), err).WithPath(task.SourceArchivePath))
		return
	}

	if w.run.Stopped() || ctx.Err() != nil {
		w.finish(log, fault.New(fault.Cancelled, "extract", fault.ErrCancelled))
		return
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		w.finish(log, fault.New(fault.MergeFailure, "create destination", err).WithPath(destDir))
		return
	}

	stop := func() bool { return w.run.Stopped() || ctx.Err() != nil }
	merged, err := merge(stagingDir, destDir, stop, log)
	w.update(func(s *State) { s.Merged = merged })
	if err != nil {
		if fault.Is(err, fault.MergeFailure) {
			log.Error("merge left destination partially updated", "dest", destDir, "merged", merged)
		}
		w.finish(log, err)
		return
	}

	w.finish(log, nil)
}

// finish publishes EndExtract unless Stop already did.
func (w *Worker) finish(log logging.Logger, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.terminated {
		return
	}

	w.state.Err = err
	w.state.Succeeded = err == nil
	switch {
	case err == nil:
		log.Info("extraction complete", "dest", w.destDir, "entries", len(w.state.Merged))
	case fault.Is(err, fault.Cancelled):
		w.state.Stopped = true
		log.Info("extraction stopped", "dest", w.destDir)
	default:
		log.Error("extraction failed", "error", err)
	}

	w.publishLocked(events.Event{
		Type:      events.EndExtract,
		Path:      w.destDir,
		Succeeded: w.state.Succeeded,
		Err:       err,
	})
}

func (w *Worker) update(fn func(*State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.state)
}

func (w *Worker) emit(ev events.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.terminated {
		return
	}
	w.publishLocked(ev)
}

func (w *Worker) publishLocked(ev events.Event) {
	if ev.Type.Terminal() {
		w.terminated = true
	}
	ev.RunID = w.state.RunID
	ev.Time = time.Now()
	w.bus.Publish(ev)
}
