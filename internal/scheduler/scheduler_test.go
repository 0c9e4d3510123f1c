package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
)

type countingSweeper struct {
	calls atomic.Int32
	block chan struct{}
}

func (c *countingSweeper) Sweep(ctx context.Context) (*driver.Report, error) {
	c.calls.Add(1)
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &driver.Report{RunID: "test"}, nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestScheduler_Interval(t *testing.T) {
	sweeper := &countingSweeper{}
	var reports atomic.Int32

	s, err := New(sweeper, Options{
		Interval: 20 * time.Millisecond,
		OnReport: func(r *driver.Report, err error) {
			if err == nil && r.RunID == "test" {
				reports.Add(1)
			}
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Start()
	waitFor(t, 2*time.Second, func() bool { return sweeper.calls.Load() >= 3 })

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if reports.Load() < 2 {
		t.Errorf("OnReport called %d times", reports.Load())
	}
}

func TestScheduler_TriggerDropsOverlap(t *testing.T) {
	sweeper := &countingSweeper{block: make(chan struct{})}
	s, err := New(sweeper, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Trigger()
	}()
	waitFor(t, time.Second, s.Running)

	if s.Trigger() {
		t.Error("Trigger() during a running sweep should be dropped")
	}
	if s.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", s.Skipped())
	}

	close(sweeper.block)
	wg.Wait()

	if !s.Trigger() {
		t.Error("Trigger() after the sweep finished should run")
	}
	if got := sweeper.calls.Load(); got != 2 {
		t.Errorf("sweeps = %d, want 2", got)
	}
}

func TestScheduler_StopCancelsSweep(t *testing.T) {
	sweeper := &countingSweeper{block: make(chan struct{})}
	s, err := New(sweeper, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Trigger()
		close(done)
	}()
	waitFor(t, time.Second, s.Running)

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("running sweep was not cancelled")
	}
	if s.Trigger() {
		t.Error("Trigger() after Stop() should not run")
	}
}

func TestNew_NegativeInterval(t *testing.T) {
	if _, err := New(&countingSweeper{}, Options{Interval: -time.Second}); err == nil {
		t.Error("New() with a negative interval should fail")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	if err := os.WriteFile(path, []byte("surfaces: []\n"), 0644); err != nil {
		t.Fatalf("Failed to write world: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var changes atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 100*time.Millisecond, func() { changes.Add(1) })
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("surfaces: []\n"), 0644); err != nil {
			t.Fatalf("Failed to rewrite world: %v", err)
		}
	}

	waitFor(t, 2*time.Second, func() bool { return changes.Load() >= 1 })
	time.Sleep(300 * time.Millisecond)
	if got := changes.Load(); got != 1 {
		t.Errorf("onChange called %d times, want 1 for one burst", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}
