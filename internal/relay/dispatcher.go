// Package relay implements the relay operations: starting CRM workflows for
// deals, updating deal fields and normalizing deal creation timestamps.
package relay

import (
	"context"
	"log/slog"

	"github.com/tjfontaine/crm-webhook-relay/internal/crm"
	"github.com/tjfontaine/crm-webhook-relay/internal/executor"
	"github.com/tjfontaine/crm-webhook-relay/internal/telemetry"
	"github.com/tjfontaine/crm-webhook-relay/internal/workflow"
)

// Executor posts a JSON payload to the upstream API with retries.
type Executor interface {
	Execute(ctx context.Context, url string, payload any) (*executor.Response, error)
}

// Result is the upstream reply forwarded to the caller unchanged.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Dispatcher starts upstream workflows for deals.
type Dispatcher struct {
	registry  *workflow.Registry
	executor  Executor
	endpoints crm.Endpoints
	logger    *slog.Logger
	metrics   *telemetry.Metrics
}

// NewDispatcher creates a Dispatcher. logger and metrics may be nil.
func NewDispatcher(registry *workflow.Registry, exec Executor, endpoints crm.Endpoints, logger *slog.Logger, metrics *telemetry.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry:  registry,
		executor:  exec,
		endpoints: endpoints,
		logger:    logger,
		metrics:   metrics,
	}
}

// Dispatch resolves workflowName and starts it on the deal.
//
// Validation happens before any network call: an empty dealID is a
// MISSING_FIELD error (400) and an unregistered name an UNKNOWN_WORKFLOW
// error (404). When every upstream attempt fails the error is
// UPSTREAM_UNAVAILABLE (500). Otherwise the upstream status and body are
// returned as-is, whatever the status.
func (d *Dispatcher) Dispatch(ctx context.Context, workflowName, dealID string) (*Result, error) {
	if dealID == "" {
		d.metrics.Dispatch("missing_deal_id")
		return nil, missingField("deal_id")
	}

	templateID, ok := d.registry.Lookup(workflowName)
	if !ok {
		d.metrics.Dispatch("unknown_workflow")
		return nil, unknownWorkflow(workflowName)
	}

	logger := d.logger.With(
		slog.String("workflow", workflowName),
		slog.String("template_id", templateID),
		slog.String("deal_id", dealID),
	)
	logger.Info("starting workflow")

	payload := crm.NewStartWorkflowRequest(templateID, dealID)
	resp, err := d.executor.Execute(ctx, d.endpoints.StartWorkflowURL(), payload)
	if err != nil {
		d.metrics.Dispatch("upstream_unavailable")
		logger.Error("workflow start failed", slog.String("error", err.Error()))
		return nil, upstreamUnavailable(err)
	}

	d.metrics.Dispatch("forwarded")
	logger.Info("workflow start forwarded",
		slog.Int("status", resp.StatusCode),
		slog.Int("attempts", resp.Attempts),
	)

	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}
