package autosave

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// DefaultDebounce is the inactivity window after the last edit
	// before a save fires.
	DefaultDebounce = 3 * time.Second

	// DefaultInterval is the force-flush period bounding maximum
	// staleness under continuous edits.
	DefaultInterval = 60 * time.Second
)

// SaveFunc persists the workspace. It must be idempotent at the server
// (full-state overwrite).
type SaveFunc func(ctx context.Context) error

// Scheduler persists workspace state without excessive request volume.
// Every dirty notification re-arms a debounce timer; an independent
// interval ticker force-flushes so staleness stays bounded even while the
// user keeps editing. At most one save is in flight at a time: a trigger
// arriving mid-save is coalesced into a single follow-up run.
type Scheduler struct {
	save       SaveFunc
	shouldSave func() bool
	debounce   time.Duration
	interval   time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	inFlight bool
	pending  bool
	started  bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// New creates a scheduler. shouldSave gates every trigger: a save is a
// no-op while it returns false (no current project or nothing dirty).
// Zero durations fall back to the defaults.
func New(save SaveFunc, shouldSave func() bool, debounce, interval time.Duration) *Scheduler {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		save:       save,
		shouldSave: shouldSave,
		debounce:   debounce,
		interval:   interval,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start launches the interval flush loop. The loop exits when ctx is
// cancelled or Stop is called. Calling Start more than once is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.trigger(ctx)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()
}

// Notify signals that the state changed. The debounce timer is re-armed;
// the save fires once the edits go quiet for the debounce window.
func (s *Scheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.trigger(context.Background())
	})
}

// Flush runs a save immediately if one is needed, bypassing the debounce.
func (s *Scheduler) Flush(ctx context.Context) {
	s.trigger(ctx)
}

// Stop halts the interval loop and disarms the debounce timer. Safe to
// call at any point, including before Start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
}

// trigger runs the save if needed, enforcing the single-in-flight policy.
// A trigger arriving while a save runs sets pending; the save loop drains
// it with one follow-up run instead of stacking requests.
func (s *Scheduler) trigger(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight {
		s.pending = true
		s.mu.Unlock()
		return
	}
	if !s.shouldSave() {
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.mu.Unlock()

	for {
		if err := s.save(ctx); err != nil {
			log.Printf("[autosave] save failed: %v", err)
		}

		s.mu.Lock()
		if !s.pending {
			s.inFlight = false
			s.mu.Unlock()
			return
		}
		s.pending = false
		if !s.shouldSave() {
			s.inFlight = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}
