package ratelimit

import (
	"context"
	"time"
)

// RateKey scopes a counter to one caller identity on one operation. Two
// requests share a window only when both fields match.
type RateKey struct {
	Identity  string
	Operation string
}

type Policy struct {
	Limit  int           // max requests per window
	Window time.Duration // trailing window length
}

// Limited reports whether the policy actually restricts traffic. A zero
// policy means unlimited: attempts are still recorded for bookkeeping but
// are always allowed.
func (p Policy) Limited() bool { return p.Limit > 0 && p.Window > 0 }

type Decision struct {
	Allowed    bool
	Limit      int           // limit per window
	Remaining  int           // requests left in the window (min 0)
	RetryAfter time.Duration // backoff hint when denied
}

type Limiter interface {
	Allow(ctx context.Context, key RateKey, p Policy, now time.Time) (Decision, error)
	Close() error
}
