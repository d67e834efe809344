package pacer

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Sampler rate-limits an operation without timers or deferred work: the
// caller marks the state dirty as changes accumulate and polls Do from
// whatever loop it already runs. Do forwards at most once per interval,
// and only while something is actually dirty, which suits periodic
// flushes of accumulated state such as config or metadata updates.
type Sampler struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	dirty   bool
	log     logrus.FieldLogger
}

// NewSampler creates a Sampler that lets Do run its function at most once
// per interval. Options: WithLogger. A non-positive interval is a
// configuration error.
func NewSampler(interval time.Duration, opts ...Option) (*Sampler, error) {
	cfg := newSettings(opts)

	if interval <= 0 {
		return nil, errors.Errorf("pacer: sample interval must be positive, got %v", interval)
	}
	if cfg.leading || cfg.trailing || cfg.maxWait != 0 {
		return nil, errors.New("pacer: edge options do not apply to samplers")
	}

	return &Sampler{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     cfg.log,
	}, nil
}

// Mark records that there is work for the next Do to forward.
func (s *Sampler) Mark() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Do runs f if work is marked and the rate limiter allows it, clearing
// the mark. Otherwise it returns without side effects; a denied attempt
// does not consume the mark, so a later Do will still forward it.
func (s *Sampler) Do(f func()) {
	s.mu.Lock()
	if !s.dirty || !s.limiter.Allow() {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	s.mu.Unlock()

	s.log.Debug("sample: forwarded")
	f()
}

// Flush runs f if work is marked, regardless of the rate limiter, and
// clears the mark. Use it on shutdown so the last accumulated state is
// not lost to the rate limit.
func (s *Sampler) Flush(f func()) {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	s.mu.Unlock()

	s.log.Debug("sample: flushed")
	f()
}
