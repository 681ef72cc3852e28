package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/personai/briefmock/internal/checks"
	"github.com/personai/briefmock/internal/config"
	"github.com/personai/briefmock/internal/dispatch"
	"github.com/personai/briefmock/internal/obs"
)

func dispatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "dispatch",
		Usage: "Run the configured checks for a trigger and print the report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "./config.yaml",
				Usage:   "path to the config file",
			},
			&cli.StringFlag{
				Name:    "trigger",
				Aliases: []string{"t"},
				Value:   "commit",
				Usage:   "what started this run: commit, schema-change, scheduled-nightly, scheduled-weekly or manual",
			},
			&cli.StringSliceFlag{
				Name:  "tier",
				Usage: "tier to run with --trigger manual; repeatable",
			},
			&cli.IntFlag{
				Name:  "max-concurrent",
				Usage: "cap on concurrently running checks (overrides dispatch.max_concurrent)",
			},
			&cli.StringFlag{
				Name:  "report-dir",
				Usage: "also write report-<id>.json here (overrides dispatch.report_dir)",
			},
		},
		Action: runDispatch,
	}
}

func runDispatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The report goes to stdout; logs stay on stderr.
	logger := obs.SetupLoggerTo(os.Stderr, cfg.Observability.LogLevel)

	trig, err := resolveTrigger(cmd.String("trigger"), cmd.StringSlice("tier"))
	if err != nil {
		return err
	}

	reg := checks.NewRegistry(logger)
	for _, spec := range cfg.Checks {
		tier, err := checks.ParseTier(spec.Tier)
		if err != nil {
			return fmt.Errorf("check %s: %w", spec.Name, err)
		}
		hc := checks.HTTPCheck{
			URL:          spec.URL,
			Method:       spec.Method,
			BearerToken:  spec.Token,
			ExpectStatus: spec.ExpectStatus,
		}
		if err := reg.Register(checks.Check{Name: spec.Name, Tier: tier, Run: hc.Run}); err != nil {
			return fmt.Errorf("register check %s: %w", spec.Name, err)
		}
	}

	maxConcurrent := int64(cfg.Dispatch.MaxConcurrent)
	if v := cmd.Int("max-concurrent"); v > 0 {
		maxConcurrent = int64(v)
	}
	d := dispatch.New(reg, logger, dispatch.Options{
		MaxConcurrent: maxConcurrent,
		CheckTimeout:  cfg.Dispatch.CheckTimeout(),
	})
	report := d.Run(ctx, trig)

	sinks := []dispatch.Sink{dispatch.WriterSink{W: cmd.Root().Writer}}
	if dir := cmd.String("report-dir"); dir != "" {
		sinks = append(sinks, dispatch.FileSink{Dir: dir})
	} else if cfg.Dispatch.ReportDir != "" {
		sinks = append(sinks, dispatch.FileSink{Dir: cfg.Dispatch.ReportDir})
	}
	for _, s := range sinks {
		if err := s.Write(ctx, report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if !report.OverallSuccess {
		return cli.Exit("checks failed", 1)
	}
	return nil
}

// resolveTrigger maps the CLI flags to a trigger. Named triggers carry a
// fixed tier selection; manual runs take their tiers from --tier.
func resolveTrigger(name string, tiers []string) (dispatch.Trigger, error) {
	if strings.EqualFold(strings.TrimSpace(name), "manual") {
		if len(tiers) == 0 {
			return dispatch.Trigger{}, fmt.Errorf("--trigger manual requires at least one --tier")
		}
		parsed := make([]checks.Tier, 0, len(tiers))
		for _, t := range tiers {
			tier, err := checks.ParseTier(t)
			if err != nil {
				return dispatch.Trigger{}, err
			}
			parsed = append(parsed, tier)
		}
		return dispatch.Manual(parsed...), nil
	}
	if len(tiers) > 0 {
		return dispatch.Trigger{}, fmt.Errorf("--tier is only valid with --trigger manual")
	}
	return dispatch.ParseTrigger(name)
}
