package checks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ErrUnknownCheck is returned when a name resolves to no registered check.
var ErrUnknownCheck = errors.New("unknown check")

// RunFunc executes one check. A nil return means the check passed; the
// context carries the per-check deadline.
type RunFunc func(ctx context.Context) error

// Check is a named, tiered unit of verification.
type Check struct {
	Name string
	Tier Tier
	Run  RunFunc
}

// Registry holds the known checks. Registration order is preserved so
// plans are deterministic.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Check
	order  []string
	log    zerolog.Logger
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		byName: make(map[string]Check),
		log:    log,
	}
}

// Register adds c to the registry. Re-registering a name under the same
// tier is a no-op; re-registering under a different tier replaces the
// previous check, keeps its original position and logs a warning.
func (r *Registry) Register(c Check) error {
	if c.Name == "" {
		return errors.New("check name must not be empty")
	}
	if _, err := ParseTier(string(c.Tier)); err != nil {
		return fmt.Errorf("check %q: %w", c.Name, err)
	}
	if c.Run == nil {
		return fmt.Errorf("check %q has no run function", c.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, exists := r.byName[c.Name]; exists {
		if prev.Tier == c.Tier {
			return nil
		}
		r.log.Warn().
			Str("check", c.Name).
			Str("old_tier", prev.Tier.String()).
			Str("new_tier", c.Tier.String()).
			Msg("re-registering check under a different tier")
	} else {
		r.order = append(r.order, c.Name)
	}
	r.byName[c.Name] = c
	return nil
}

// Get resolves a check by name.
func (r *Registry) Get(name string) (Check, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byName[name]
	if !ok {
		return Check{}, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}
	return c, nil
}

// TierOf reports the tier a named check was registered under.
func (r *Registry) TierOf(name string) (Tier, error) {
	c, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return c.Tier, nil
}

// InTiers returns the checks belonging to any of the given tiers, ordered
// by tier rank and then by registration order within a tier.
func (r *Registry) InTiers(tiers ...Tier) []Check {
	want := make(map[Tier]struct{}, len(tiers))
	for _, t := range tiers {
		want[t] = struct{}{}
	}

	r.mu.RLock()
	var out []Check
	for _, name := range r.order {
		c := r.byName[name]
		if _, ok := want[c.Tier]; ok {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tier.Rank() < out[j].Tier.Rank()
	})
	return out
}

// Len reports the number of registered checks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
