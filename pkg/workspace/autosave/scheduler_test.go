package autosave

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceCoalescesRapidEdits(t *testing.T) {
	var saves int32
	dirty := atomic.Bool{}
	dirty.Store(true)

	s := New(
		func(ctx context.Context) error {
			atomic.AddInt32(&saves, 1)
			dirty.Store(false)
			return nil
		},
		dirty.Load,
		30*time.Millisecond,
		time.Hour, // keep the interval out of the way
	)

	// Two notifications inside the debounce window: the timer re-arms and
	// only one save fires after the last edit goes quiet.
	s.Notify()
	time.Sleep(10 * time.Millisecond)
	s.Notify()

	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt32(&saves); got != 1 {
		t.Errorf("expected exactly 1 save, got %d", got)
	}
}

func TestIntervalForcesFlush(t *testing.T) {
	var saves int32
	s := New(
		func(ctx context.Context) error {
			atomic.AddInt32(&saves, 1)
			return nil
		},
		func() bool { return true },
		time.Hour, // debounce never fires on its own
		20*time.Millisecond,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	time.Sleep(70 * time.Millisecond)
	if got := atomic.LoadInt32(&saves); got < 2 {
		t.Errorf("interval flush should have fired repeatedly, got %d saves", got)
	}
}

func TestSkipsWhenNothingToSave(t *testing.T) {
	var saves int32
	s := New(
		func(ctx context.Context) error {
			atomic.AddInt32(&saves, 1)
			return nil
		},
		func() bool { return false },
		10*time.Millisecond,
		time.Hour,
	)

	s.Notify()
	time.Sleep(40 * time.Millisecond)
	if got := atomic.LoadInt32(&saves); got != 0 {
		t.Errorf("save must be a no-op when not dirty, got %d", got)
	}
}

func TestStopBeforeStartReturns(t *testing.T) {
	s := New(
		func(ctx context.Context) error { return nil },
		func() bool { return false },
		time.Hour,
		time.Hour,
	)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Stop hung without a prior Start")
	}
}

func TestStartTwiceRunsOneLoop(t *testing.T) {
	var saves int32
	s := New(
		func(ctx context.Context) error {
			atomic.AddInt32(&saves, 1)
			return nil
		},
		func() bool { return true },
		time.Hour,
		25*time.Millisecond,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	s.Start(ctx) // second call is a no-op, not a second ticker loop
	defer s.Stop()

	time.Sleep(40 * time.Millisecond)
	if got := atomic.LoadInt32(&saves); got > 2 {
		t.Errorf("duplicate Start must not double the interval flushes, got %d", got)
	}
}

func TestSingleInFlightSave(t *testing.T) {
	var (
		mu         sync.Mutex
		running    int
		maxRunning int
		saves      int
	)

	s := New(
		func(ctx context.Context) error {
			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			saves++
			mu.Unlock()

			time.Sleep(30 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			return nil
		},
		func() bool { return true },
		time.Hour,
		time.Hour,
	)

	// Overlapping triggers: one runs, the rest coalesce into a single
	// follow-up pass.
	for i := 0; i < 5; i++ {
		go s.Flush(context.Background())
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if maxRunning != 1 {
		t.Errorf("expected at most 1 in-flight save, observed %d", maxRunning)
	}
	if saves > 2 {
		t.Errorf("overlapping triggers should coalesce, got %d saves", saves)
	}
}
