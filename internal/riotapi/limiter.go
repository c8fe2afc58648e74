package riotapi

import (
	"context"
	"sync"
	"time"
)

const (
	shortWindow       = time.Second
	longWindow        = 120 * time.Second
	defaultShortLimit = 20
)

// Limiter is a process-wide admission gate bounded by two sliding windows:
// a one-second window capped at shortLimit, and a 120-second window capped
// at longLimit. It mirrors the teacher's single-window sliding-slice
// throttle in internal/riot's original client, extended to both windows
// the upstream API actually enforces.
type Limiter struct {
	mu         sync.Mutex
	shortLimit int
	longLimit  int
	shortHits  []time.Time
	longHits   []time.Time
}

// NewLimiter constructs a Limiter with the given long-window budget and
// the default short-window budget of 20 requests/second.
func NewLimiter(longLimit int) *Limiter {
	return &Limiter{
		shortLimit: defaultShortLimit,
		longLimit:  longLimit,
	}
}

// SetLongLimit updates the long-window budget. Safe for concurrent use;
// last writer wins, matching the client's "process-wide singleton"
// contract in §4.2.
func (l *Limiter) SetLongLimit(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.longLimit = n
}

// Acquire blocks until admission is granted under both windows, honouring
// ctx cancellation during any sleep. It never returns an error except for
// ctx cancellation.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		wait, ok := l.tryAdmit()
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// tryAdmit trims expired entries, and either records an admission
// (returning ok=true) or reports how long to wait before retrying.
func (l *Limiter) tryAdmit() (wait time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.shortHits = trim(l.shortHits, now, shortWindow)
	l.longHits = trim(l.longHits, now, longWindow)

	if len(l.shortHits) >= l.shortLimit {
		return waitFor(l.shortHits[0], shortWindow, now), false
	}
	if l.longLimit > 0 && len(l.longHits) >= l.longLimit {
		return waitFor(l.longHits[0], longWindow, now), false
	}

	l.shortHits = append(l.shortHits, now)
	l.longHits = append(l.longHits, now)
	return 0, true
}

func trim(hits []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return hits
	}
	return append(hits[:0], hits[i:]...)
}

func waitFor(earliest time.Time, window time.Duration, now time.Time) time.Duration {
	d := earliest.Add(window).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
