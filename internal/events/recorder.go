package events

import (
	"sync"
	"time"
)

// Recorder is a Handler that keeps every event it sees.
// It is used by tests and by callers that inspect a finished run.
type Recorder struct {
	mu       sync.Mutex
	events   []Event
	terminal chan struct{}
	once     sync.Once
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{terminal: make(chan struct{})}
}

// Handle records ev. Pass it to Bus.Subscribe.
func (r *Recorder) Handle(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()

	if ev.Type.Terminal() {
		r.once.Do(func() { close(r.terminal) })
	}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns the recorded events with the given type.
func (r *Recorder) OfType(t Type) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// WaitTerminal blocks until a terminal event is recorded or the timeout
// elapses. It reports whether a terminal event arrived.
func (r *Recorder) WaitTerminal(timeout time.Duration) bool {
	select {
	case <-r.terminal:
		return true
	case <-time.After(timeout):
		return false
	}
}
