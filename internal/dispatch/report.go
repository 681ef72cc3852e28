package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/personai/briefmock/internal/checks"
)

// Result is the recorded outcome of one executed check. Failures carry a
// non-empty Error; timeouts use the literal error "timeout".
type Result struct {
	Name       string      `json:"name"`
	Tier       checks.Tier `json:"tier"`
	Success    bool        `json:"success"`
	DurationMS int64       `json:"durationMs"`
	Error      string      `json:"error,omitempty"`
}

// Report aggregates one dispatch run. OverallSuccess is the conjunction of
// every result's Success; an empty run is vacuously successful.
type Report struct {
	ID             string        `json:"id"`
	Trigger        string        `json:"trigger"`
	Tiers          []checks.Tier `json:"tiers"`
	StartedAt      time.Time     `json:"startedAt"`
	DurationMS     int64         `json:"durationMs"`
	Total          int           `json:"total"`
	Passed         int           `json:"passed"`
	Failed         int           `json:"failed"`
	Results        []Result      `json:"results"`
	OverallSuccess bool          `json:"overallSuccess"`
}

func newReport(trig Trigger, tiers []checks.Tier, startedAt time.Time, results []Result) Report {
	r := Report{
		ID:             uuid.NewString(),
		Trigger:        trig.String(),
		Tiers:          tiers,
		StartedAt:      startedAt.UTC(),
		DurationMS:     time.Since(startedAt).Milliseconds(),
		Total:          len(results),
		Results:        results,
		OverallSuccess: true,
	}
	for _, res := range results {
		if res.Success {
			r.Passed++
		} else {
			r.Failed++
			r.OverallSuccess = false
		}
	}
	return r
}
