package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/personai/briefmock/internal/config"
	"github.com/personai/briefmock/internal/gateway"
	"github.com/personai/briefmock/internal/identity"
	"github.com/personai/briefmock/internal/mock"
	"github.com/personai/briefmock/internal/obs"
	"github.com/personai/briefmock/internal/ratelimit"
	"github.com/personai/briefmock/internal/ratelimit/memory"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the mock Slack, Gmail and monitoring surfaces",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "./config.yaml",
				Usage:   "path to the config file",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := obs.SetupLogger(cfg.Observability.LogLevel)

	registry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(registry)

	limiter := memory.New()
	defer limiter.Close()

	operationPolicies := make(map[string]ratelimit.Policy, len(cfg.Limits.Operations))
	for _, p := range cfg.Limits.Operations {
		operationPolicies[p.Operation] = ratelimit.Policy{Limit: p.Limit, Window: p.Window()}
	}
	resolver := mock.NewPolicyResolver(operationPolicies, ratelimit.Policy{
		Limit:  cfg.Limits.Simulated.Limit,
		Window: cfg.Limits.Simulated.Window(),
	})

	audit := mock.NewAuditLog(cfg.Service.Name, mock.SeedEvents(time.Now()))
	health := mock.NewHealthState(cfg.Service.Name, cfg.Service.Version, cfg.Service.Dependencies)

	svc := mock.NewService(logger, limiter, resolver, mock.DefaultFixtures(), audit, mock.ServiceOptions{
		OnRateLimited:  func(op string) { metrics.RateLimited.WithLabelValues(op).Inc() },
		OnAuthError:    func(op string) { metrics.AuthFailures.WithLabelValues(op).Inc() },
		OnLimiterError: func(op string) { metrics.LimiterErrors.WithLabelValues(op).Inc() },
	})

	classifier := identity.NewClassifier(cfg.Identity.ExpiredTokens, cfg.Identity.ThrottledTokens)

	mux := http.NewServeMux()
	mux.Handle("/health", health.Handler())
	mux.Handle("/audit", audit.Handler())
	mux.Handle(cfg.Observability.PrometheusPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", svc.Handler())

	skip := map[string]struct{}{
		"/health": {},
		"/audit":  {},
	}
	skip[cfg.Observability.PrometheusPath] = struct{}{}

	handler := gateway.Chain(
		mux,
		obs.Logger(logger),
		metrics.Middleware(skip, func(r *http.Request) string {
			return svc.OperationName(r.Method, r.URL.Path)
		}),
		gateway.BodyLimit(cfg.Server.MaxBody()),
		classifier.Middleware(skip, func(string) {
			metrics.AuthFailures.WithLabelValues("unknown").Inc()
		}),
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout(),
		IdleTimeout:       cfg.Server.IdleTimeout(),
		ReadTimeout:       cfg.Server.ReadTimeout(),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("service", cfg.Service.Name).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	logger.Info().Msg("bye")
	return nil
}
