package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/ZebulonRouseFrantzich/jvman/internal/events"
	"github.com/ZebulonRouseFrantzich/jvman/internal/fault"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
	"github.com/ZebulonRouseFrantzich/jvman/internal/runner"
)

// ErrInsecureRedirect is returned when an https download redirects to
// plain http.
var ErrInsecureRedirect = errors.New("redirect from https to http refused")

// DefaultClient returns the HTTP client used when Options.Client is nil.
// Catalog links redirect to a mirror; the client follows them but never
// downgrades an https request.
func DefaultClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			if req.URL.Scheme == "http" && via[0].URL.Scheme == "https" {
				return fmt.Errorf("%w: %s", ErrInsecureRedirect, req.URL.Redacted())
			}
			return nil
		},
	}
}

// Worker downloads one URL at a time.
type Worker struct {
	bus       events.Publisher
	client    *http.Client
	chunkSize int
	sinkMode  SinkMode
	userAgent string
	log       logging.Logger
	run       runner.Runner

	// mu guards state and terminated. Events are published while holding it,
	// which keeps a stop and the run's own progress from interleaving.
	mu         sync.Mutex
	state      State
	terminated bool
}

// NewWorker creates a worker that publishes to bus.
func NewWorker(bus events.Publisher, opts Options) *Worker {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Client == nil {
		opts.Client = DefaultClient()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	return &Worker{
		bus:       bus,
		client:    opts.Client,
		chunkSize: opts.ChunkSize,
		sinkMode:  opts.Sink,
		userAgent: opts.UserAgent,
		log:       logging.OrNop(opts.Logger),
	}
}

// Start begins downloading url into destinationDir and returns immediately.
// It returns runner.ErrBusy if a previous run is still active.
func (w *Worker) Start(ctx context.Context, url, destinationDir string) error {
	task := Task{URL: url, DestinationDir: destinationDir}

	// Hold mu across Start so a Stop racing with Start sees the new run.
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.run.Running() {
		return runner.ErrBusy
	}

	w.state = State{RunID: xid.New().String()}
	w.terminated = false

	return w.run.Start(ctx, func(ctx context.Context) {
		w.execute(ctx, task)
	})
}

// Stop cancels the active run. The terminal event is published before Stop
// returns; no progress events follow it. Stop is a no-op when nothing runs.
func (w *Worker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.terminated || !w.run.Stop() {
		return
	}

	w.state.Stopped = true
	w.state.Succeeded = false
	w.state.Err = fault.New(fault.Cancelled, "stop", fault.ErrCancelled)
	w.publishLocked(events.Event{
		Type: events.EndDownload,
		Path: w.state.FinalPath,
		Err:  w.state.Err,
	})
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
	return w.state
}

func (w *Worker) execute(ctx context.Context, task Task) {
	log := logging.With(w.log, "run", w.State().RunID, "url", task.URL)

	w.emit(events.Event{Type: events.BeginRequest})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		w.fail(log, fault.New(fault.TransportFailure, "create request", err))
		return
	}
	req.Header.Set("User-Agent", w.userAgent)
	// Transparent gzip would hide Content-Length.
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := w.client.Do(req)
	if err != nil {
		w.fail(log, classify(ctx, fault.TransportFailure, "execute request", err))
		return
	}
	defer resp.Body.Close()

	w.emit(events.Event{Type: events.EndRequest})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.fail(log, fault.Newf(fault.TransportFailure, "check status", "unexpected status code: %d", resp.StatusCode))
		return
	}

	total, filename, err := parseMetadata(resp)
	if err != nil {
		w.fail(log, err)
		return
	}

	dir, err := filepath.Abs(task.DestinationDir)
	if err != nil {
		w.fail(log, fault.New(fault.WriteFailure, "resolve destination", err))
		return
	}
	finalPath := filepath.Join(dir, filename)
	sidecarPath := finalPath + PartSuffix

	w.update(func(s *State) {
		s.Filename = filename
		s.TotalBytes = total
	})
	w.emit(events.Event{Type: events.FilenameFound, Name: filename})
	w.emit(events.Event{Type: events.FilesizeFound, Bytes: total})

	w.update(func(s *State) {
		s.FinalPath = finalPath
		s.SidecarPath = sidecarPath
	})
	w.emit(events.Event{Type: events.BeginDownload, Path: finalPath})
	log.Debug("download started", "path", finalPath, "size", total, "sink", w.sinkMode)

	out, err := openSink(w.sinkMode, sidecarPath)
	if err != nil {
		w.fail(log, fault.New(fault.WriteFailure, "open sink", err).WithPath(sidecarPath))
		return
	}

	if err := w.copyChunks(ctx, resp.Body, out); err != nil {
		if abortErr := out.Abort(); abortErr != nil {
			log.Warn("release sidecar", "path", sidecarPath, "error", abortErr)
		}
		w.fail(log, err)
		return
	}

	w.commit(log, out, finalPath)
}

// copyChunks reads body in chunkSize pieces and writes each to out.
func (w *Worker) copyChunks(ctx context.Context, body io.Reader, out sink) error {
	buf := make([]byte, w.chunkSize)

	for index := 0; ; index++ {
		n, readErr := io.ReadFull(body, buf)

		if n > 0 {
			if w.run.Stopped() || ctx.Err() != nil {
				return fault.New(fault.Cancelled, "write chunk", fault.ErrCancelled)
			}
			if _, err := out.Write(buf[:n]); err != nil {
				return fault.New(fault.WriteFailure, "write chunk", err).WithPath(w.State().SidecarPath)
			}

			var written int64
			w.update(func(s *State) {
				s.BytesWritten += int64(n)
				written = s.BytesWritten
			})
			w.emit(events.Event{Type: events.BytesChanged, Bytes: written})
			w.emit(events.Event{Type: events.ChunkWritten, Chunk: index})
		}

		switch {
		case readErr == nil:
			continue
		case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
			st := w.State()
			if st.BytesWritten != st.TotalBytes {
				return fault.Newf(fault.TransportFailure, "read chunk",
					"body ended after %d of %d bytes", st.BytesWritten, st.TotalBytes)
			}
			return nil
		default:
			return classify(ctx, fault.TransportFailure, "read chunk", readErr)
		}
	}
}

// commit promotes the sidecar to the final path unless the run was stopped.
func (w *Worker) commit(log logging.Logger, out sink, finalPath string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.terminated {
		if err := out.Abort(); err != nil {
			log.Warn("release sidecar", "error", err)
		}
		return
	}

	if err := out.Commit(finalPath); err != nil {
		w.state.Err = fault.New(fault.WriteFailure, "commit", err).WithPath(finalPath)
		log.Error("download failed", "error", w.state.Err)
		w.publishLocked(events.Event{Type: events.EndDownload, Path: finalPath, Err: w.state.Err})
		return
	}

	w.state.Succeeded = true
	log.Info("download complete", "path", finalPath, "bytes", w.state.BytesWritten)
	w.publishLocked(events.Event{Type: events.EndDownload, Path: finalPath, Succeeded: true})
}

// fail records err and publishes the terminal event, unless Stop already did.
func (w *Worker) fail(log logging.Logger, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.terminated {
		return
	}

	w.state.Err = err
	if fault.Is(err, fault.Cancelled) {
		w.state.Stopped = true
		log.Info("download stopped", "path", w.state.FinalPath)
	} else {
		log.Error("download failed", "error", err)
	}
	w.publishLocked(events.Event{Type: events.EndDownload, Path: w.state.FinalPath, Err: err})
}

func (w *Worker) update(fn func(*State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.state)
}

// emit publishes a non-terminal event unless the run already ended.
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

// classify turns err into a Cancelled fault when ctx was canceled.
func classify(ctx context.Context, kind fault.Kind, op string, err error) *fault.Error {
	if ctx.Err() != nil {
		return fault.New(fault.Cancelled, op, ctx.Err())
	}
	return fault.New(kind, op, err)
}
