package pacer

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Throttler invokes its target at most once per interval. The first call
// of a burst fires immediately with that call's value (leading edge) and
// opens a cooldown window; calls during the cooldown are dropped, or, with
// WithTrailing, buffered so the most recent one replays exactly once when
// the window closes. The window opened by a trailing fire starts at the
// trailing fire, so windows never overlap or double-fire.
//
// A Throttler owns its scheduling state exclusively; independent
// instances never interact. All methods are safe for concurrent use.
//
// The zero value is not usable; use NewThrottler.
type Throttler[T any] struct {
	mu       sync.Mutex
	fn       func(T)
	interval time.Duration
	trailing bool
	log      logrus.FieldLogger

	window *Scheduler

	gen     uint64 // cooldown window generation, see closeWindow
	cooling bool
	latest  T
	dirty   bool // a trailing invocation is buffered
}

// NewThrottler wraps fn so that it executes at most once per interval.
// Options: WithTrailing, WithClock, WithLogger.
//
// Configuration is validated eagerly: a nil fn, a non-positive interval
// (which cannot define a cooldown window), or passing WithLeading or
// WithMaxWait (debouncer options) all return a descriptive error.
func NewThrottler[T any](fn func(T), interval time.Duration, opts ...Option) (*Throttler[T], error) {
	cfg := newSettings(opts)

	if fn == nil {
		return nil, errors.New("pacer: throttle target must not be nil")
	}
	if interval <= 0 {
		return nil, errors.Errorf("pacer: throttle interval must be positive, got %v", interval)
	}
	if cfg.leading {
		return nil, errors.New("pacer: WithLeading applies to debouncers, not throttlers")
	}
	if cfg.maxWait != 0 {
		return nil, errors.New("pacer: WithMaxWait applies to debouncers, not throttlers")
	}

	return &Throttler[T]{
		fn:       fn,
		interval: interval,
		trailing: cfg.trailing,
		log:      cfg.log,
		window:   newScheduler(cfg.clock),
	}, nil
}

// Call forwards v to the target immediately if no cooldown window is
// open, and opens one. During a cooldown, v is either dropped or, with
// trailing enabled, recorded as the latest buffered value, overwriting
// any previous one.
//
// The leading fire happens synchronously on the caller's goroutine, but
// only after the cooldown window has been armed, so a panicking target
// cannot corrupt the cooldown bookkeeping.
func (t *Throttler[T]) Call(v T) {
	t.mu.Lock()
	if t.cooling {
		if t.trailing {
			t.latest = v
			t.dirty = true
			t.log.Debug("throttle: buffered for trailing fire")
		}
		t.mu.Unlock()
		return
	}
	t.cooling = true
	t.gen++
	gen := t.gen
	t.window.Arm(t.interval, func() { t.closeWindow(gen) })
	t.mu.Unlock()

	t.log.WithField("interval", t.interval).Debug("throttle: leading fire")
	t.fn(v)
}

// closeWindow runs on the timer goroutine when a cooldown elapses. If a
// trailing invocation is buffered it fires exactly once with the latest
// value and a new cooldown window opens from this moment; otherwise the
// throttler goes idle.
//
// gen identifies the window this callback was armed for. A callback can
// clear the Scheduler's generation check and still lose the race for
// t.mu to a Cancel plus a fresh Call; re-checking the window generation
// here keeps such a stale close from ending the new burst's cooldown.
func (t *Throttler[T]) closeWindow(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	if !t.dirty {
		t.cooling = false
		t.mu.Unlock()
		return
	}
	v := t.latest
	var zero T
	t.latest = zero
	t.dirty = false
	t.gen++
	next := t.gen
	t.window.Arm(t.interval, func() { t.closeWindow(next) })
	t.mu.Unlock()

	t.log.Debug("throttle: trailing fire")
	t.fn(v)
}

// Cancel clears the cooldown window and any buffered trailing value; the
// next Call behaves as if no prior burst occurred. Cancel is idempotent
// and safe to call when nothing is pending.
func (t *Throttler[T]) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.window.Cancel()
	t.gen++
	var zero T
	t.latest = zero
	t.dirty = false
	t.cooling = false
	t.log.Debug("throttle: canceled")
}

// Pending reports whether a cooldown window is currently open.
func (t *Throttler[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cooling
}
