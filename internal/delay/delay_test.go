package delay

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitCompletes(t *testing.T) {
	start := time.Now()
	if err := Wait(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Fatal("Wait returned early")
	}
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	err := Wait(ctx, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("cancellation did not interrupt the wait")
	}
}

func TestWaitZero(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Fatalf("Wait(0) = %v", err)
	}
}

func TestAfterRunsAndStops(t *testing.T) {
	var ran atomic.Bool
	done := make(chan struct{})
	After(context.Background(), 5*time.Millisecond, func() {
		ran.Store(true)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never ran")
	}

	var stopped atomic.Bool
	stop := After(context.Background(), time.Hour, func() { stopped.Store(true) })
	if !stop() {
		t.Fatal("stop should cancel the pending call")
	}
	if !ran.Load() || stopped.Load() {
		t.Fatalf("ran=%v stopped-callback=%v", ran.Load(), stopped.Load())
	}
}

func TestAfterCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	stop := After(ctx, 30*time.Millisecond, func() { ran.Store(true) })
	cancel()
	time.Sleep(60 * time.Millisecond)
	if ran.Load() {
		t.Fatal("callback ran after the context was cancelled")
	}
	if stop() {
		t.Fatal("timer should already be stopped")
	}
}
