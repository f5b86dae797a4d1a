package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRegistryStopCancelsLoop(t *testing.T) {
	r := NewRegistry()
	stopped := make(chan struct{})

	r.Go(context.Background(), "conversation:c1", func(ctx context.Context) {
		<-ctx.Done()
		close(stopped)
	})

	r.Stop("conversation:c1")

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after Stop")
	}
}

func TestRegistryReplacesLoopWithSameName(t *testing.T) {
	r := NewRegistry()
	firstStopped := make(chan struct{})

	r.Go(context.Background(), "poll:tickets", func(ctx context.Context) {
		<-ctx.Done()
		close(firstStopped)
	})
	r.Go(context.Background(), "poll:tickets", func(ctx context.Context) {
		<-ctx.Done()
	})

	select {
	case <-firstStopped:
	case <-time.After(2 * time.Second):
		t.Fatal("first loop not cancelled when name was reused")
	}
	r.Close()
}

func TestRegistryCloseWaitsForAllLoops(t *testing.T) {
	r := NewRegistry()
	var running atomic.Int64

	for _, name := range []string{"a", "b", "c"} {
		r.Go(context.Background(), name, func(ctx context.Context) {
			running.Add(1)
			<-ctx.Done()
			running.Add(-1)
		})
	}

	waitFor(t, func() bool { return running.Load() == 3 }, "loops did not start")
	r.Close()

	if got := running.Load(); got != 0 {
		t.Errorf("%d loops still running after Close", got)
	}
}

func TestRegistryRejectsGoAfterClose(t *testing.T) {
	r := NewRegistry()
	r.Close()

	started := make(chan struct{})
	r.Go(context.Background(), "late", func(ctx context.Context) {
		close(started)
	})

	select {
	case <-started:
		t.Fatal("loop started on a closed registry")
	case <-time.After(50 * time.Millisecond):
	}
}
