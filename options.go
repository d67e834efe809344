package pacer

import (
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

// nopLogger swallows all output. Primitives log nothing unless the caller
// opts in via WithLogger.
var nopLogger = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// settings carries the knobs shared by the package's constructors. Each
// constructor documents which options it honors and rejects the ones that
// do not apply to it.
type settings struct {
	clock    clock.Clock
	log      logrus.FieldLogger
	leading  bool
	trailing bool
	maxWait  time.Duration
}

func newSettings(opts []Option) settings {
	s := settings{
		clock: clock.New(),
		log:   nopLogger,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a primitive at construction time.
type Option func(*settings)

// WithClock replaces the wall clock used for scheduling. Tests typically
// pass a *clock.Mock so deferred firings can be driven deterministically.
func WithClock(c clock.Clock) Option {
	return func(s *settings) {
		s.clock = c
	}
}

// WithLogger attaches a structured logger. Primitives emit debug-level
// entries when they fire, buffer, or cancel work; the default logger
// discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithLeading switches a Debouncer to leading-edge invocation: the first
// call of a burst fires on the immediate next tick, and further calls
// during the suppression window are absorbed. Leading mode suppresses the
// trailing invocation entirely; the two edges are mutually exclusive.
//
// Only NewDebouncer accepts this option.
func WithLeading() Option {
	return func(s *settings) {
		s.leading = true
	}
}

// WithTrailing makes a Throttler replay the most recent call received
// during a cooldown window exactly once when the window closes.
//
// Only NewThrottler accepts this option.
func WithTrailing() Option {
	return func(s *settings) {
		s.trailing = true
	}
}

// WithMaxWait caps how long a Debouncer may keep postponing its target
// while fresh calls keep resetting the quiescence timer. When the cap
// elapses first, the target fires with the latest value as if the burst
// had gone quiet. Must be at least the debounce wait.
//
// Only NewDebouncer accepts this option, and not together with
// WithLeading.
func WithMaxWait(d time.Duration) Option {
	return func(s *settings) {
		s.maxWait = d
	}
}
