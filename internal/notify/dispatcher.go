// internal/notify/dispatcher.go

// Package notify delivers formatted call logs over the configured channels.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Handler delivers one notification over a single channel.
type Handler func(subject, body string) error

// Dispatcher fans a call log out to every registered channel. Dispatch is
// fire-and-forget: the webhook response never waits on delivery, and channel
// failures are logged, never fatal. A semaphore bounds how many deliveries
// run at once.
type Dispatcher struct {
	mu       sync.RWMutex
	channels map[string]Handler
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher allowing up to maxConcurrent deliveries
// in flight across all channels.
func NewDispatcher(maxConcurrent int64) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Dispatcher{
		channels: make(map[string]Handler),
		sem:      semaphore.NewWeighted(maxConcurrent),
	}
}

// Register adds a named delivery channel.
func (d *Dispatcher) Register(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels[name] = handler
}

// Dispatch sends the notification to every channel in the background and
// returns immediately. Each delivery carries a correlation ID so failures
// across channels can be tied back to one call log.
func (d *Dispatcher) Dispatch(subject, body string) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	dispatchID := uuid.New().String()
	for name, handler := range d.channels {
		name, handler := name, handler
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := d.sem.Acquire(context.Background(), 1); err != nil {
				return
			}
			defer d.sem.Release(1)

			if err := handler(subject, body); err != nil {
				slog.Error("notification delivery failed",
					"channel", name, "dispatch_id", dispatchID, "error", err)
				return
			}
			slog.Info("notification delivered", "channel", name, "dispatch_id", dispatchID)
		}()
	}
}

// Wait blocks until all in-flight deliveries have finished. Used on shutdown
// and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
