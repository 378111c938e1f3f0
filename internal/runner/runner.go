// Package runner executes a worker's blocking body on its own goroutine and
// lets the caller stop it or wait for it.
//
// A Runner allows one active run at a time. Stopping is cooperative: Stop
// raises a flag and cancels the run's context, and the body is expected to
// check Stopped (or the context) between its steps. Work already blocked in a
// call that ignores the context keeps running until that call returns; Wait
// covers that case.
package runner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrBusy is returned by Start while a previous run is still active.
var ErrBusy = errors.New("runner: a run is already active")

// Runner runs one body at a time in the background.
type Runner struct {
	mu      sync.Mutex
	running bool
	done    chan struct{}
	cancel  context.CancelFunc
	stopped atomic.Bool
}

// Start launches fn on a new goroutine and returns immediately.
// The context passed to fn is derived from ctx and canceled by Stop.
func (r *Runner) Start(ctx context.Context, fn func(ctx context.Context)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return ErrBusy
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.running = true
	r.done = done
	r.cancel = cancel
	r.stopped.Store(false)

	go func() {
		defer func() {
			cancel()
			r.mu.Lock()
			r.running = false
			r.mu.Unlock()
			close(done)
		}()
		fn(runCtx)
	}()

	return nil
}

// Stop requests cancellation of the active run.
// It reports whether a run was active.
func (r *Runner) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return false
	}
	r.stopped.Store(true)
	r.cancel()
	return true
}

// Stopped reports whether Stop was called during the current (or last) run.
func (r *Runner) Stopped() bool {
	return r.stopped.Load()
}

// Running reports whether a run is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Wait blocks until the active run, if any, has returned.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()

	if done != nil {
		<-done
	}
}
