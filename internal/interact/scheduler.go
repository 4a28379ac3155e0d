package interact

import (
	"sort"
	"sync"
	"time"
)

// Handle is a cancellable scheduled callback. Cancel is idempotent; a
// callback that has already started is not interrupted, so owners guard
// against late firing with their own disposed flags.
type Handle interface {
	Cancel()
}

// Scheduler is the injected timing capability behind dismissal delays,
// animation ticks and live-probe re-resolution. Modeling it as an interface
// keeps the engine testable without real wall-clock delays: tests drive a
// ManualScheduler tick by tick.
type Scheduler interface {
	// Schedule runs fn once after d. The returned Handle cancels the
	// pending run.
	Schedule(d time.Duration, fn func()) Handle
	// Now returns the scheduler's view of the current time. The state
	// machine uses it for long-press classification.
	Now() time.Time
}

// RealScheduler schedules on the process clock via time.AfterFunc.
type RealScheduler struct{}

// Schedule implements Scheduler.
func (RealScheduler) Schedule(d time.Duration, fn func()) Handle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

// Now implements Scheduler.
func (RealScheduler) Now() time.Time { return time.Now() }

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() { h.t.Stop() }

// ManualScheduler is a deterministic Scheduler for tests: callbacks fire
// only when Advance moves the simulated clock past their deadline, in
// deadline order, on the calling goroutine.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	pending []*manualTask
}

type manualTask struct {
	id       int
	deadline time.Time
	fn       func()
	owner    *ManualScheduler
}

// NewManualScheduler starts the simulated clock at an arbitrary fixed epoch.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{now: time.Unix(1_700_000_000, 0)}
}

// Schedule implements Scheduler.
func (s *ManualScheduler) Schedule(d time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t := &manualTask{id: s.nextID, deadline: s.now.Add(d), fn: fn, owner: s}
	s.pending = append(s.pending, t)
	return t
}

// Now implements Scheduler.
func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d, firing every callback whose deadline
// is reached, in deadline order (schedule order among equals). Callbacks may
// schedule further work; anything falling within the advanced window fires
// in the same call.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		task := s.popDue(target)
		if task == nil {
			break
		}
		task.fn()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

// Pending returns the number of outstanding callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *ManualScheduler) popDue(target time.Time) *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	sort.SliceStable(s.pending, func(a, b int) bool {
		if !s.pending[a].deadline.Equal(s.pending[b].deadline) {
			return s.pending[a].deadline.Before(s.pending[b].deadline)
		}
		return s.pending[a].id < s.pending[b].id
	})
	t := s.pending[0]
	if t.deadline.After(target) {
		return nil
	}
	s.pending = s.pending[1:]
	// The clock jumps to each deadline as it fires so nested schedules
	// measure from the right base.
	if t.deadline.After(s.now) {
		s.now = t.deadline
	}
	return t
}

// Cancel implements Handle.
func (t *manualTask) Cancel() {
	s := t.owner
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pending {
		if p.id == t.id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
