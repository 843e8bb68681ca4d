package flippa

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultMaxRequests is the request quota per window.
	DefaultMaxRequests = 60

	// DefaultWindow is the trailing window the quota applies to.
	DefaultWindow = time.Minute

	// slotGuard is added to computed waits so the oldest entry has left the window on wake-up.
	slotGuard = 10 * time.Millisecond
)

// Limiter is a sliding-window rate limiter: at most maxRequests are issued
// within any trailing window. The timestamp ledger is the only state shared
// between concurrent requests.
type Limiter struct {
	maxRequests int
	window      time.Duration
	logger      arbor.ILogger

	mu         sync.Mutex
	timestamps []time.Time

	// waitLog throttles the "waiting for slot" debug line under sustained pressure
	waitLog rate.Sometimes
}

// NewLimiter creates a limiter allowing maxRequests per window.
// Non-positive arguments fall back to the defaults.
func NewLimiter(maxRequests int, window time.Duration) *Limiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		timestamps:  make([]time.Time, 0, maxRequests),
		waitLog:     rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}
}

// WithLogger attaches a logger for wait diagnostics.
func (l *Limiter) WithLogger(logger arbor.ILogger) *Limiter {
	l.logger = logger
	return l
}

// Wait blocks until a request may be issued without exceeding the quota,
// then records it. It only returns an error if ctx ends first.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		wait := l.reserve(time.Now())
		if wait <= 0 {
			return nil
		}

		if l.logger != nil {
			l.waitLog.Do(func() {
				l.logger.Debug().
					Int("max_requests", l.maxRequests).
					Dur("window", l.window).
					Dur("wait", wait).
					Msg("Rate limit window full, waiting for slot")
			})
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Used returns how many requests are recorded in the current window.
func (l *Limiter) Used() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(time.Now())
	return len(l.timestamps)
}

// reserve prunes expired entries and either records now (returning 0) or
// returns how long until the oldest entry leaves the window. Prune, check and
// append happen under one lock so two callers cannot claim the same slot.
func (l *Limiter) reserve(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(now)
	if len(l.timestamps) < l.maxRequests {
		l.timestamps = append(l.timestamps, now)
		return 0
	}

	oldest := l.timestamps[0]
	return l.window - now.Sub(oldest) + slotGuard
}

// prune drops entries at least one window old. Must be called with mu held.
func (l *Limiter) prune(now time.Time) {
	i := 0
	for i < len(l.timestamps) && now.Sub(l.timestamps[i]) >= l.window {
		i++
	}
	if i > 0 {
		l.timestamps = append(l.timestamps[:0], l.timestamps[i:]...)
	}
}
