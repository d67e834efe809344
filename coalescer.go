package pacer

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Coalescer is the channel-driven companion to the Throttler for callers
// that signal "something changed" rather than pass values: file-system
// watchers that fire on multiple file changes, UI refreshes that should be
// batched, database writes that can be coalesced. Trigger signals are
// received on a channel with a buffer of one, so multiple rapid triggers
// within the same interval collapse into a single pending execution.
//
// The zero value is not usable; use NewCoalescer.
type Coalescer struct {
	c        chan struct{}
	interval time.Duration
	clk      clock.Clock
	log      logrus.FieldLogger
	stopped  atomic.Bool
}

// NewCoalescer creates a Coalescer that executes its function at most once
// per interval while triggers keep arriving. Options: WithClock,
// WithLogger. A non-positive interval is a configuration error.
func NewCoalescer(interval time.Duration, opts ...Option) (*Coalescer, error) {
	cfg := newSettings(opts)

	if interval <= 0 {
		return nil, errors.Errorf("pacer: coalesce interval must be positive, got %v", interval)
	}
	if cfg.leading || cfg.trailing || cfg.maxWait != 0 {
		return nil, errors.New("pacer: edge options do not apply to coalescers")
	}

	return &Coalescer{
		c:        make(chan struct{}, 1),
		interval: interval,
		clk:      cfg.clock,
		log:      cfg.log,
	}, nil
}

// Trigger signals that the coalesced function should be considered for
// execution. It is non-blocking and safe for concurrent use: if a trigger
// is already pending, further triggers are absorbed until it is
// processed. After Stop, Trigger is a no-op.
func (c *Coalescer) Trigger() {
	if c.stopped.Load() {
		return
	}
	select {
	case c.c <- struct{}{}:
		// Queued.
	default:
		// A trigger is already pending; this one collapses into it.
	}
}

// Stop permanently deactivates Trigger. It is idempotent. Run still has
// to be unblocked by canceling its context; Stop only guarantees that no
// new work can be queued.
func (c *Coalescer) Stop() {
	c.stopped.Store(true)
}

// Run is the coalescer's main loop: it blocks until ctx is canceled and
// calls fn at most once per interval for as long as triggers arrive. It
// should typically run in its own goroutine.
//
//  1. A trigger sets the pending flag and starts the interval timer if
//     none is running.
//  2. When the timer expires with a trigger pending, fn runs once and the
//     timer is cleared; the next trigger starts a fresh interval.
//  3. Triggers received while the timer runs collapse into the pending
//     execution.
//
// fn should return reasonably quickly; it runs on the loop goroutine and
// delays trigger processing while it executes.
func (c *Coalescer) Run(ctx context.Context, fn func()) {
	var (
		timer   *clock.Timer
		timerCh <-chan time.Time
		pending bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-c.c:
			pending = true
			if timer == nil {
				timer = c.clk.Timer(c.interval)
				timerCh = timer.C
			}

		case <-timerCh:
			if pending {
				c.log.WithField("interval", c.interval).Debug("coalesce: fired")
				fn()
				pending = false
			}
			timer.Stop()
			timer = nil
			timerCh = nil
		}
	}
}
