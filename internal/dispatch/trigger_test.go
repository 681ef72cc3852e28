package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personai/briefmock/internal/checks"
	"github.com/personai/briefmock/internal/dispatch"
)

func TestTrigger_Select(t *testing.T) {
	tests := []struct {
		name string
		trig dispatch.Trigger
		want []checks.Tier
	}{
		{"commit runs critical only", dispatch.Commit(), []checks.Tier{checks.TierCritical}},
		{"schema change adds important", dispatch.SchemaChange(), []checks.Tier{checks.TierCritical, checks.TierImportant}},
		{"nightly matches schema change", dispatch.Nightly(), []checks.Tier{checks.TierCritical, checks.TierImportant}},
		{"weekly is full regression", dispatch.Weekly(), checks.AllTiers()},
		{"manual is exactly as given", dispatch.Manual(checks.TierSecondary), []checks.Tier{checks.TierSecondary}},
		{"manual empty selects nothing", dispatch.Manual(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trig.Select())
		})
	}
}

func TestParseTrigger(t *testing.T) {
	for in, want := range map[string]dispatch.TriggerKind{
		"commit":            dispatch.TriggerCommit,
		"schema-change":     dispatch.TriggerSchemaChange,
		"scheduled-nightly": dispatch.TriggerNightly,
		"nightly":           dispatch.TriggerNightly,
		"scheduled-weekly":  dispatch.TriggerWeekly,
		"weekly":            dispatch.TriggerWeekly,
		"  COMMIT  ":        dispatch.TriggerCommit,
	} {
		trig, err := dispatch.ParseTrigger(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, trig.Kind, "input %q", in)
	}

	_, err := dispatch.ParseTrigger("on-push")
	assert.Error(t, err)

	// Manual triggers come from explicit tier lists, not a name.
	_, err = dispatch.ParseTrigger("manual")
	assert.Error(t, err)
}

func TestTrigger_String(t *testing.T) {
	assert.Equal(t, "commit", dispatch.Commit().String())
	assert.Equal(t, "schema-change", dispatch.SchemaChange().String())
	assert.Equal(t, "scheduled-nightly", dispatch.Nightly().String())
	assert.Equal(t, "scheduled-weekly", dispatch.Weekly().String())
	assert.Equal(t, "manual", dispatch.Manual(checks.TierCritical).String())
}
