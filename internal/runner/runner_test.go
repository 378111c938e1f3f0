package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerStartReturnsImmediately(t *testing.T) {
	var r Runner
	release := make(chan struct{})
	var ran atomic.Bool

	if err := r.Start(context.Background(), func(ctx context.Context) {
		<-release
		ran.Store(true)
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if !r.Running() {
		t.Error("expected runner to report a running body")
	}
	if ran.Load() {
		t.Error("body finished before it was released")
	}

	close(release)
	r.Wait()

	if !ran.Load() {
		t.Error("Wait returned before the body finished")
	}
	if r.Running() {
		t.Error("runner still reports running after Wait")
	}
}

func TestRunnerRejectsConcurrentStart(t *testing.T) {
	var r Runner
	release := make(chan struct{})

	if err := r.Start(context.Background(), func(ctx context.Context) { <-release }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	err := r.Start(context.Background(), func(ctx context.Context) {})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(release)
	r.Wait()

	// A new run is accepted once the previous one is done.
	if err := r.Start(context.Background(), func(ctx context.Context) {}); err != nil {
		t.Errorf("Start after Wait: %v", err)
	}
	r.Wait()
}

func TestRunnerStopCancelsContext(t *testing.T) {
	var r Runner
	started := make(chan struct{})

	if err := r.Start(context.Background(), func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	<-started
	if !r.Stop() {
		t.Error("Stop reported no active run")
	}
	if !r.Stopped() {
		t.Error("Stopped should be true after Stop")
	}

	waitDone := make(chan struct{})
	go func() {
		r.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("body did not observe cancellation")
	}
}

func TestRunnerStopWithoutRun(t *testing.T) {
	var r Runner
	if r.Stop() {
		t.Error("Stop on idle runner should report false")
	}
	// Wait on an idle runner must not block.
	r.Wait()
}

func TestRunnerStoppedResetsOnStart(t *testing.T) {
	var r Runner
	if err := r.Start(context.Background(), func(ctx context.Context) { <-ctx.Done() }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Stop()
	r.Wait()

	if err := r.Start(context.Background(), func(ctx context.Context) {}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r.Stopped() {
		t.Error("Stopped should reset for a new run")
	}
	r.Wait()
}
