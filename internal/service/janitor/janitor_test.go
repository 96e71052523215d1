package janitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeStore struct {
	reconciles atomic.Int64
	err        error
}

func (f *fakeStore) Reconcile() error {
	f.reconciles.Add(1)
	return f.err
}

type fakeFS struct {
	cleans  atomic.Int64
	lastAge time.Duration
	err     error
}

func (f *fakeFS) CleanOldTempFiles(olderThan time.Duration) (int, error) {
	f.cleans.Add(1)
	f.lastAge = olderThan
	return 2, f.err
}

func TestSweep(t *testing.T) {
	store := &fakeStore{}
	fs := &fakeFS{}
	s := New(&Config{SweepInterval: time.Hour, TempFileMaxAge: 6 * time.Hour}, store, fs, zap.NewNop())

	s.Sweep()

	if fs.cleans.Load() != 1 {
		t.Errorf("temp file cleanups = %d, want 1", fs.cleans.Load())
	}
	if fs.lastAge != 6*time.Hour {
		t.Errorf("max age = %v, want 6h", fs.lastAge)
	}
	if store.reconciles.Load() != 1 {
		t.Errorf("reconciles = %d, want 1", store.reconciles.Load())
	}
}

func TestSweep_continuesPastErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("index locked")}
	fs := &fakeFS{err: errors.New("permission denied")}
	s := New(nil, store, fs, zap.NewNop())

	// Both steps run even when each fails.
	s.Sweep()

	if fs.cleans.Load() != 1 || store.reconciles.Load() != 1 {
		t.Error("a failing step must not stop the sweep")
	}
}

func TestStartStop(t *testing.T) {
	s := New(&Config{SweepInterval: time.Hour}, &fakeStore{}, &fakeFS{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Double start must be rejected while running.
	time.Sleep(20 * time.Millisecond)
	if err := s.Start(ctx); err == nil {
		t.Error("second Start should fail")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
