package checks

import (
	"fmt"
	"strings"
)

// Tier is the priority class of a check. Dispatch triggers select which
// tiers run; within a run, critical checks are planned before important
// ones, and important before secondary.
type Tier string

const (
	TierCritical  Tier = "critical"
	TierImportant Tier = "important"
	TierSecondary Tier = "secondary"
)

// AllTiers returns every tier in priority order, most urgent first.
func AllTiers() []Tier {
	return []Tier{TierCritical, TierImportant, TierSecondary}
}

// Rank orders tiers for planning; lower means more urgent. Unknown tiers
// sort last.
func (t Tier) Rank() int {
	switch t {
	case TierCritical:
		return 0
	case TierImportant:
		return 1
	case TierSecondary:
		return 2
	default:
		return 3
	}
}

func (t Tier) String() string { return string(t) }

// ParseTier resolves a case-insensitive tier name.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierCritical:
		return TierCritical, nil
	case TierImportant:
		return TierImportant, nil
	case TierSecondary:
		return TierSecondary, nil
	}
	return "", fmt.Errorf("unknown tier %q (want critical, important or secondary)", s)
}
