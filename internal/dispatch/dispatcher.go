package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/personai/briefmock/internal/checks"
)

const (
	defaultMaxConcurrent = 20
	defaultCheckTimeout  = 30 * time.Second
)

type Options struct {
	// MaxConcurrent bounds how many checks run at once.
	MaxConcurrent int64
	// CheckTimeout is the wall-clock budget per check. A check that
	// overruns it is recorded as failed and its goroutine abandoned.
	CheckTimeout time.Duration
}

// Dispatcher plans and executes checks for a trigger. Every planned check
// yields exactly one result; failures and panics in one check never affect
// its siblings.
type Dispatcher struct {
	reg  *checks.Registry
	log  zerolog.Logger
	opts Options
}

func New(reg *checks.Registry, log zerolog.Logger, opts Options) *Dispatcher {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = defaultCheckTimeout
	}
	return &Dispatcher{reg: reg, log: log, opts: opts}
}

// Run executes the checks selected by trig and blocks until all of them
// have finished or timed out, then returns the aggregate report. Results
// appear in plan order regardless of completion order.
func (d *Dispatcher) Run(ctx context.Context, trig Trigger) Report {
	tiers := trig.Select()
	plan := d.reg.InTiers(tiers...)
	startedAt := time.Now()

	if len(plan) == 0 {
		d.log.Warn().
			Stringer("trigger", trig).
			Msg("dispatch plan is empty, reporting vacuous success")
		return newReport(trig, tiers, startedAt, nil)
	}

	d.log.Info().
		Stringer("trigger", trig).
		Int("planned", len(plan)).
		Int64("max_concurrent", d.opts.MaxConcurrent).
		Msg("dispatching checks")

	sem := semaphore.NewWeighted(d.opts.MaxConcurrent)
	results := make([]Result, len(plan))

	var wg sync.WaitGroup
	for i, c := range plan {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.runOne(ctx, sem, c)
		}()
	}
	wg.Wait()

	report := newReport(trig, tiers, startedAt, results)
	d.log.Info().
		Str("report_id", report.ID).
		Int("passed", report.Passed).
		Int("failed", report.Failed).
		Bool("overall_success", report.OverallSuccess).
		Msg("dispatch finished")
	return report
}

func (d *Dispatcher) runOne(ctx context.Context, sem *semaphore.Weighted, c checks.Check) Result {
	res := Result{Name: c.Name, Tier: c.Tier}

	if err := sem.Acquire(ctx, 1); err != nil {
		res.Error = "canceled"
		return res
	}
	defer sem.Release(1)

	cctx, cancel := context.WithTimeout(ctx, d.opts.CheckTimeout)
	defer cancel()

	started := time.Now()
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- c.Run(cctx)
	}()

	var err error
	select {
	case err = <-done:
	case <-cctx.Done():
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			err = errors.New("timeout")
		} else {
			err = errors.New("canceled")
		}
	}
	res.DurationMS = time.Since(started).Milliseconds()

	if err != nil {
		res.Error = err.Error()
		d.log.Warn().
			Str("check", c.Name).
			Str("tier", c.Tier.String()).
			Str("error", res.Error).
			Msg("check failed")
		return res
	}

	res.Success = true
	d.log.Debug().
		Str("check", c.Name).
		Int64("duration_ms", res.DurationMS).
		Msg("check passed")
	return res
}
