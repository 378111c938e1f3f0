package events

import (
	"sync"
)

// Bus is an ordered, asynchronous publish/subscribe channel.
type Bus struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Event
	handlers []subscription
	nextID   int
	closed   bool
	done     chan struct{}
}

type subscription struct {
	id int
	fn Handler
}

// NewBus creates a bus and starts its dispatcher.
func NewBus() *Bus {
	b := &Bus{done: make(chan struct{})}
	b.cond = sync.NewCond(&b.mu)
	go b.dispatch()
	return b
}

// Subscribe registers h for every event published after the call.
// The returned function removes the subscription.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription{id: id, fn: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.handlers {
			if s.id == id {
				b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish queues ev for delivery. It never waits for handlers.
// Events published after Close are dropped.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.queue = append(b.queue, ev)
	b.cond.Signal()
}

// Close delivers every queued event, then stops the dispatcher.
// Calling Close from a handler would deadlock and is not allowed.
func (b *Bus) Close() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		b.cond.Signal()
	}
	b.mu.Unlock()
	<-b.done
}

func (b *Bus) dispatch() {
	defer close(b.done)

	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}
		if len(b.queue) == 0 && b.closed {
			b.mu.Unlock()
			return
		}
		ev := b.queue[0]
		b.queue[0] = Event{}
		b.queue = b.queue[1:]
		handlers := make([]subscription, len(b.handlers))
		copy(handlers, b.handlers)
		b.mu.Unlock()

		for _, s := range handlers {
			s.fn(ev)
		}
	}
}
