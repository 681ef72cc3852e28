package dispatch

import (
	"fmt"
	"strings"

	"github.com/personai/briefmock/internal/checks"
)

// TriggerKind enumerates the events that can start a dispatch.
type TriggerKind int

const (
	TriggerCommit TriggerKind = iota
	TriggerSchemaChange
	TriggerNightly
	TriggerWeekly
	TriggerManual
)

// Trigger is a dispatch cause resolved to a concrete kind. Manual triggers
// carry the explicitly requested tiers; all other kinds have a fixed
// selection.
type Trigger struct {
	Kind   TriggerKind
	Manual []checks.Tier
}

func Commit() Trigger       { return Trigger{Kind: TriggerCommit} }
func SchemaChange() Trigger { return Trigger{Kind: TriggerSchemaChange} }
func Nightly() Trigger      { return Trigger{Kind: TriggerNightly} }
func Weekly() Trigger       { return Trigger{Kind: TriggerWeekly} }

func Manual(tiers ...checks.Tier) Trigger {
	return Trigger{Kind: TriggerManual, Manual: tiers}
}

func (t Trigger) String() string {
	switch t.Kind {
	case TriggerCommit:
		return "commit"
	case TriggerSchemaChange:
		return "schema-change"
	case TriggerNightly:
		return "scheduled-nightly"
	case TriggerWeekly:
		return "scheduled-weekly"
	default:
		return "manual"
	}
}

// Select returns the tiers this trigger runs. Commits run only critical
// checks; schema changes and nightly runs add the important tier; weekly
// runs are a full regression.
func (t Trigger) Select() []checks.Tier {
	switch t.Kind {
	case TriggerCommit:
		return []checks.Tier{checks.TierCritical}
	case TriggerSchemaChange, TriggerNightly:
		return []checks.Tier{checks.TierCritical, checks.TierImportant}
	case TriggerWeekly:
		return checks.AllTiers()
	case TriggerManual:
		return t.Manual
	}
	return nil
}

// ParseTrigger resolves a named trigger. Manual triggers are built with
// Manual instead, from an explicit tier list.
func ParseTrigger(s string) (Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "commit":
		return Commit(), nil
	case "schema-change":
		return SchemaChange(), nil
	case "scheduled-nightly", "nightly":
		return Nightly(), nil
	case "scheduled-weekly", "weekly":
		return Weekly(), nil
	}
	return Trigger{}, fmt.Errorf("unknown trigger %q (want commit, schema-change, scheduled-nightly or scheduled-weekly)", s)
}
