package engine

import (
	"context"
	"log"
	"time"
)

// Notifier batches change notifications into refresh passes. Mutations
// of base data publish a dirty signal; the run loop coalesces signals
// arriving within the debounce window into a single rebuild instead of
// rebuilding per individual mutation.
type Notifier struct {
	dirty    chan struct{}
	debounce time.Duration
	refresh  func()
}

// NewNotifier creates a notifier that invokes refresh after the last
// dirty signal in a burst.
func NewNotifier(debounce time.Duration, refresh func()) *Notifier {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Notifier{
		dirty:    make(chan struct{}, 1),
		debounce: debounce,
		refresh:  refresh,
	}
}

// MarkDirty signals that base data changed. Never blocks; a signal
// arriving while one is already pending is coalesced.
func (n *Notifier) MarkDirty() {
	select {
	case n.dirty <- struct{}{}:
	default:
	}
}

// Run consumes dirty signals until the context is cancelled. Intended
// to run on its own goroutine.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.dirty:
		}

		timer := time.NewTimer(n.debounce)
	settle:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-n.dirty:
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(n.debounce)
			case <-timer.C:
				break settle
			}
		}

		log.Printf("change notification settled, refreshing snapshots")
		n.refresh()
	}
}
