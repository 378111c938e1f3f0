// Package events provides the typed event bus that download and extraction
// workers use to report lifecycle and progress to observers.
//
// # Delivery
//
// Publish never blocks on observers. Events are queued and handed to every
// subscriber by a single dispatcher goroutine, so all subscribers see the
// events of a run in the order the worker published them. A handler may call
// back into the worker that produced the event (for example to stop it)
// without deadlocking.
//
// # Usage
//
//	bus := events.NewBus()
//	defer bus.Close()
//
//	unsubscribe := bus.Subscribe(func(ev events.Event) {
//	    if ev.Type == events.BytesChanged {
//	        fmt.Println(ev.Bytes)
//	    }
//	})
//	defer unsubscribe()
package events
