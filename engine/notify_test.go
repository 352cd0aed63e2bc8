package engine_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Jun0zo/SDS-Inventory-sub000/engine"
)

func TestNotifierCoalescesBursts(t *testing.T) {
	var refreshes int64
	n := engine.NewNotifier(30*time.Millisecond, func() {
		atomic.AddInt64(&refreshes, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go n.Run(ctx)

	// A burst of signals inside the debounce window triggers one pass.
	for i := 0; i < 10; i++ {
		n.MarkDirty()
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := atomic.LoadInt64(&refreshes); got != 1 {
		t.Errorf("refreshes = %d, want 1 coalesced pass", got)
	}

	// A later signal starts a fresh pass.
	n.MarkDirty()
	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt64(&refreshes); got != 2 {
		t.Errorf("refreshes = %d, want 2 after second burst", got)
	}
}

func TestNotifierStopsOnCancel(t *testing.T) {
	var refreshes int64
	n := engine.NewNotifier(10*time.Millisecond, func() {
		atomic.AddInt64(&refreshes, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}

	// Signals after cancellation never refresh.
	n.MarkDirty()
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&refreshes); got != 0 {
		t.Errorf("refreshes = %d, want 0 after cancel", got)
	}
}
