package memory

import (
	"context"
	"sync"
	"time"

	"github.com/personai/briefmock/internal/ratelimit"
)

// bookkeepingWindow bounds the request log for unlimited policies, which
// record every attempt but never deny.
const bookkeepingWindow = time.Minute

// window is the request log for a single RateKey: timestamps of recent
// attempts, oldest first. Both allowed and denied attempts are recorded.
type window struct {
	mu     sync.Mutex
	stamps []time.Time
}

// recordAndCount drops entries at or before now-span, appends now, and
// returns the resulting count. Expiry is inclusive at the boundary so a
// retry made exactly one full window after the previous attempt succeeds.
func (w *window) recordAndCount(now time.Time, span time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-span)
	keep := 0
	for keep < len(w.stamps) && !w.stamps[keep].After(cutoff) {
		keep++
	}
	w.stamps = append(w.stamps[keep:], now)
	return len(w.stamps)
}

type Limiter struct {
	windows sync.Map // ratelimit.RateKey -> *window
}

func New() *Limiter {
	return &Limiter{}
}

func (l *Limiter) Close() error { return nil }

// Allow applies a fixed-window decision for key under p. Each key's log is
// updated under its own lock; distinct keys proceed in parallel. On deny
// the retry hint is the full window, not the time until the oldest entry
// expires.
func (l *Limiter) Allow(_ context.Context, key ratelimit.RateKey, p ratelimit.Policy, now time.Time) (ratelimit.Decision, error) {
	v, _ := l.windows.LoadOrStore(key, &window{})
	w := v.(*window)

	span := p.Window
	if !p.Limited() {
		span = bookkeepingWindow
	}

	count := w.recordAndCount(now, span)

	if !p.Limited() {
		return ratelimit.Decision{Allowed: true}, nil
	}

	if count <= p.Limit {
		return ratelimit.Decision{
			Allowed:   true,
			Limit:     p.Limit,
			Remaining: p.Limit - count,
		}, nil
	}

	return ratelimit.Decision{
		Allowed:    false,
		Limit:      p.Limit,
		RetryAfter: p.Window,
	}, nil
}
