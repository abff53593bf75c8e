package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tjfontaine/crm-webhook-relay/internal/config"
	"github.com/tjfontaine/crm-webhook-relay/internal/crm"
	"github.com/tjfontaine/crm-webhook-relay/internal/executor"
	"github.com/tjfontaine/crm-webhook-relay/internal/frontdoor"
	"github.com/tjfontaine/crm-webhook-relay/internal/pkg/safehttp"
	"github.com/tjfontaine/crm-webhook-relay/internal/relay"
	"github.com/tjfontaine/crm-webhook-relay/internal/server"
	"github.com/tjfontaine/crm-webhook-relay/internal/telemetry"
	"github.com/tjfontaine/crm-webhook-relay/internal/workflow"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer(cfg.Telemetry.ServiceName, cfg.Telemetry.Tracing, logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	endpoints := crm.Endpoints{
		BaseURL: cfg.Upstream.BaseURL,
		Profile: cfg.Upstream.Profile,
		Token:   cfg.Upstream.Token,
	}
	if err := endpoints.Validate(); err != nil {
		log.Fatalf("Invalid upstream configuration: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	var base http.RoundTripper = http.DefaultTransport
	if cfg.Upstream.RestrictPrivateNetworks {
		base = safehttp.NewTransport()
	}
	client := &http.Client{Transport: otelhttp.NewTransport(base)}

	exec := executor.New(
		executor.WithHTTPClient(client),
		executor.WithMaxAttempts(cfg.Retry.MaxAttempts),
		executor.WithDelay(cfg.Retry.DelayDuration()),
		executor.WithRequestTimeout(cfg.Upstream.TimeoutDuration()),
		executor.WithLogger(logger),
		executor.WithMetrics(metrics),
	)

	workflows := workflow.Default()
	dispatcher := relay.NewDispatcher(workflows, exec, endpoints, logger, metrics)
	fields := relay.NewFieldUpdater(exec, endpoints, logger, metrics)
	dates := relay.NewDateUpdater(fields, cfg.Dates.Field, logger)

	srv := server.New(cfg.Server.Port, logger, cfg.Server.RequestTimeoutDuration(), registry)
	// Upstream operations outlive the inbound request and are bounded by a full retry cycle
	frontdoor.NewHandler(dispatcher, dates, workflows, logger,
		frontdoor.WithOperationTimeout(cfg.WorstCaseDispatch()),
	).Routes(srv.Router)

	logger.Info("relay configured",
		slog.Int("workflows", workflows.Len()),
		slog.Any("workflow_names", workflows.Names()),
		slog.Int("max_attempts", exec.MaxAttempts()),
		slog.Duration("retry_delay", cfg.Retry.DelayDuration()),
		slog.Duration("operation_timeout", cfg.WorstCaseDispatch()),
		slog.String("date_field", dates.Field()),
		slog.Bool("restrict_private_networks", cfg.Upstream.RestrictPrivateNetworks),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	case <-sigChan:
	}

	logger.Info("Shutdown signal received, stopping relay...")

	// In-flight requests may be mid retry cycle
	shutdownTimeout := max(cfg.Server.RequestTimeoutDuration(), cfg.WorstCaseDispatch())
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Relay shutdown complete")
}
