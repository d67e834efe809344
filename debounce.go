package pacer

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Debouncer invokes its target at most once per burst of calls. In the
// default (trailing) mode every Call resets a quiescence timer; when the
// timer finally elapses with no new calls, the target fires exactly once
// with the value of the last call in the burst. Intermediate values are
// discarded as they are superseded.
//
// With WithLeading the first call of a burst fires on the immediate next
// tick instead, and a suppression window absorbs the rest of the burst;
// the window is extended by every further call, so the next leading fire
// requires a full quiescence gap. Leading mode suppresses the trailing
// invocation entirely.
//
// A Debouncer owns its scheduling state exclusively; independent
// instances never interact. All methods are safe for concurrent use.
//
// The zero value is not usable; use NewDebouncer.
type Debouncer[T any] struct {
	mu      sync.Mutex
	fn      func(T)
	wait    time.Duration
	maxWait time.Duration
	leading bool
	log     logrus.FieldLogger

	quiesce  *Scheduler // trailing fire, or the leading suppression window
	maxTimer *Scheduler // max-wait fire
	lead     *Scheduler // zero-delay leading fire

	seq   uint64 // bumped by every Call, Cancel, and consumed fire
	burst uint64 // bumped by Cancel and consumed fire only

	latest T
	dirty  bool // a trailing invocation is pending
	open   bool // the leading suppression window is open
}

// NewDebouncer wraps fn so that it executes only after wait has elapsed
// with no new calls. Options: WithLeading, WithMaxWait, WithClock,
// WithLogger.
//
// Configuration is validated eagerly: a nil fn, a negative wait, a
// max-wait shorter than wait, combining WithLeading with WithMaxWait, or
// passing WithTrailing (a throttler option) all return a descriptive
// error. A wait of zero is accepted and still defers every firing to the
// next scheduling tick.
func NewDebouncer[T any](fn func(T), wait time.Duration, opts ...Option) (*Debouncer[T], error) {
	cfg := newSettings(opts)

	if fn == nil {
		return nil, errors.New("pacer: debounce target must not be nil")
	}
	if wait < 0 {
		return nil, errors.Errorf("pacer: debounce wait must not be negative, got %v", wait)
	}
	if cfg.trailing {
		return nil, errors.New("pacer: WithTrailing applies to throttlers, not debouncers")
	}
	if cfg.maxWait != 0 {
		if cfg.leading {
			return nil, errors.New("pacer: WithMaxWait cannot be combined with WithLeading")
		}
		if cfg.maxWait < wait {
			return nil, errors.Errorf("pacer: max wait %v must be at least the debounce wait %v", cfg.maxWait, wait)
		}
	}

	return &Debouncer[T]{
		fn:       fn,
		wait:     wait,
		maxWait:  cfg.maxWait,
		leading:  cfg.leading,
		log:      cfg.log,
		quiesce:  newScheduler(cfg.clock),
		maxTimer: newScheduler(cfg.clock),
		lead:     newScheduler(cfg.clock),
	}, nil
}

// Call records v as the latest value and restarts the quiescence timer.
// In leading mode the first Call of a burst fires the target with v on
// the next tick; every Call, first or not, extends the suppression
// window by the full wait.
//
// Call returns immediately; the target always runs later, on a timer
// callback, never inside the caller's stack.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq

	if d.leading {
		first := !d.open
		d.open = true
		d.quiesce.Arm(d.wait, func() { d.closeWindow(seq) })
		if first {
			burst := d.burst
			d.log.WithField("wait", d.wait).Debug("debounce: leading fire scheduled")
			d.lead.Arm(0, func() {
				d.fireLead(burst, v)
			})
		}
		return
	}

	d.latest = v
	d.dirty = true
	if d.maxWait > 0 && !d.maxTimer.Pending() {
		burst := d.burst
		d.maxTimer.Arm(d.maxWait, func() {
			d.fire(func() bool { return burst == d.burst })
		})
	}
	d.quiesce.Arm(d.wait, func() {
		d.fire(func() bool { return seq == d.seq })
	})
}

// closeWindow ends the leading suppression window. seq identifies the
// Call that armed this close; a stale callback that lost the race for
// d.mu to a Cancel or a window-extending Call must not end the window
// the current state belongs to.
func (d *Debouncer[T]) closeWindow(seq uint64) {
	d.mu.Lock()
	if seq == d.seq {
		d.open = false
	}
	d.mu.Unlock()
}

// fireLead delivers the zero-delay leading invocation, unless the burst
// it was armed for has since been canceled.
func (d *Debouncer[T]) fireLead(burst uint64, v T) {
	d.mu.Lock()
	if burst != d.burst {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	d.fn(v)
}

// fire delivers the pending trailing invocation. It runs on a timer
// goroutine (quiescence or max-wait, whichever elapses first) and is also
// the body of Flush. admit re-checks, under d.mu, that the generation the
// callback was armed for is still current: a callback can clear the
// Scheduler's own check and then lose the race for d.mu to a Cancel or a
// fresh Call, and must not deliver that newer burst's value early. Flush
// passes nil to fire unconditionally.
//
// The dirty flag makes firing exactly-once per burst, and all bookkeeping
// completes before the target runs so a panicking target leaves the
// debouncer ready for the next burst.
func (d *Debouncer[T]) fire(admit func() bool) {
	d.mu.Lock()
	if !d.dirty || (admit != nil && !admit()) {
		d.mu.Unlock()
		return
	}
	v := d.latest
	var zero T
	d.latest = zero
	d.dirty = false
	d.seq++
	d.burst++
	d.quiesce.Cancel()
	d.maxTimer.Cancel()
	d.mu.Unlock()

	d.log.Debug("debounce: fired")
	d.fn(v)
}

// Flush fires the pending invocation immediately, synchronously, with the
// latest value, and clears the pending state. It is a no-op when nothing
// is pending, and always a no-op in leading mode, which never defers an
// invocation.
func (d *Debouncer[T]) Flush() {
	d.fire(nil)
}

// Cancel discards any pending invocation and captured value; the target
// will not fire for the current burst. Cancel is idempotent, safe to call
// when nothing is pending, and the next Call afterwards starts a fresh
// burst.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.quiesce.Cancel()
	d.maxTimer.Cancel()
	d.lead.Cancel()
	d.seq++
	d.burst++

	var zero T
	d.latest = zero
	d.dirty = false
	d.open = false
	d.log.Debug("debounce: canceled")
}

// Pending reports whether the debouncer currently holds deferred work: a
// trailing invocation waiting for quiescence, a leading fire not yet
// delivered, or an open suppression window.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty || d.open || d.lead.Pending()
}
