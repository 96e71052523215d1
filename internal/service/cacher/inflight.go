package cacher

import (
	"context"
	"sync"
)

// inflightTracker counts active downloads so ClearAll can wait for the
// directory to go quiet before wiping it.
type inflightTracker struct {
	mu   sync.Mutex
	n    int
	zero chan struct{}
}

func (t *inflightTracker) add() {
	t.mu.Lock()
	t.n++
	t.mu.Unlock()
}

func (t *inflightTracker) done() {
	t.mu.Lock()
	t.n--
	if t.n == 0 && t.zero != nil {
		close(t.zero)
		t.zero = nil
	}
	t.mu.Unlock()
}

// wait blocks until no downloads are in flight or ctx is done.
func (t *inflightTracker) wait(ctx context.Context) error {
	t.mu.Lock()
	if t.n == 0 {
		t.mu.Unlock()
		return nil
	}
	if t.zero == nil {
		t.zero = make(chan struct{})
	}
	ch := t.zero
	t.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
