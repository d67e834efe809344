package pacer

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Scheduler owns at most one pending deferred invocation. It can be armed,
// re-armed, fired, or canceled, and is the primitive the Debouncer and
// Throttler are built on.
//
// A generation counter is checked immediately before the action is
// invoked, so a timer callback that was already queued when Cancel ran
// never fires. The one gap is a callback that has cleared that check but
// not yet called the action when Cancel returns: callers that need an
// authoritative state transition against concurrent cancellation must
// re-check their own state under their own lock, the way Debouncer and
// Throttler stamp each armed callback with a generation of their own.
//
// The zero value is not usable; use NewScheduler.
type Scheduler struct {
	mu      sync.Mutex
	clk     clock.Clock
	gen     uint64
	timer   *clock.Timer
	pending bool
}

// NewScheduler creates an idle Scheduler. Of the package options only
// WithClock applies here; the rest are ignored.
func NewScheduler(opts ...Option) *Scheduler {
	cfg := newSettings(opts)
	return newScheduler(cfg.clock)
}

func newScheduler(clk clock.Clock) *Scheduler {
	return &Scheduler{clk: clk}
}

// Arm schedules action to run after delay. If a previous arm is still
// pending it is implicitly canceled and replaced, which is what gives the
// debouncer its reset-on-call behavior. A delay of zero (or less) still
// defers action to the next scheduling tick; it never runs action
// synchronously inside the Arm call.
//
// The Scheduler itself is the handle for the pending work: use Cancel and
// Pending to manage it. Arm is pure bookkeeping and cannot fail; panics
// raised by action itself propagate on the timer goroutine, after the
// pending state has already been cleared.
func (s *Scheduler) Arm(delay time.Duration, action func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen

	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = true
	s.timer = s.clk.AfterFunc(delay, func() {
		s.fire(gen, action)
	})
}

// fire runs on the timer goroutine. It clears the pending state before
// invoking action so that a panicking action cannot wedge the scheduler.
func (s *Scheduler) fire(gen uint64, action func()) {
	s.mu.Lock()
	if s.gen != gen {
		// Canceled or re-armed after this callback was queued.
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.timer = nil
	s.mu.Unlock()

	action()
}

// Cancel discards the pending action if one exists and is a no-op
// otherwise. It is idempotent and safe to call at any time. An armed
// action whose timer callback has not yet reached the generation check
// will never run; see the type comment for the narrow in-flight case
// concurrent callers must handle themselves.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
}

// Pending reports whether an action is currently armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
