// Package frontdoor exposes the relay over HTTP: workflow webhooks, the
// date-update hook and a read-only listing of the workflow table.
package frontdoor

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/crm-webhook-relay/internal/executor"
	"github.com/tjfontaine/crm-webhook-relay/internal/relay"
	"github.com/tjfontaine/crm-webhook-relay/internal/server"
	"github.com/tjfontaine/crm-webhook-relay/internal/workflow"
)

// Query parameter names sent by the CRM's outbound webhooks.
const (
	ParamDealID     = "deal_id"
	ParamID         = "ID"
	ParamDateCreate = "DATE_CREATE"
)

// Dispatcher starts a named workflow for a deal.
type Dispatcher interface {
	Dispatch(ctx context.Context, workflowName, dealID string) (*relay.Result, error)
}

// DateUpdater runs the date-update flow for a deal.
type DateUpdater interface {
	HandleDateUpdate(ctx context.Context, dealID, dateCreate string) error
}

// DefaultOperationTimeout covers a full retry cycle under the executor
// defaults: every attempt times out and is followed by the retry delay.
const DefaultOperationTimeout = executor.DefaultMaxAttempts * (executor.DefaultRequestTimeout + executor.DefaultDelay)

type Handler struct {
	dispatcher Dispatcher
	dates      DateUpdater
	registry   *workflow.Registry
	logger     *slog.Logger
	opTimeout  time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithOperationTimeout bounds one upstream operation, retries included.
// Non-positive values are ignored.
func WithOperationTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.opTimeout = d
		}
	}
}

func NewHandler(dispatcher Dispatcher, dates DateUpdater, registry *workflow.Registry, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		dispatcher: dispatcher,
		dates:      dates,
		registry:   registry,
		logger:     logger,
		opTimeout:  DefaultOperationTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// operationContext detaches the upstream operation from the inbound request:
// once started, a retry sequence runs to success or exhaustion even if the
// caller hangs up. Request-scoped values (request ID, log fields, trace span)
// carry over.
func (h *Handler) operationContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), h.opTimeout)
}

// Routes mounts the relay endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/webhook/{workflowName}", h.HandleWebhook)
	r.Post("/date-time-update", h.HandleDateUpdate)
	r.Post("/date-time-brazil-in-bitrix", h.HandleDateUpdate)
	r.Get("/workflows", h.ListWorkflows)
}

// HandleWebhook starts the workflow named in the path for the deal in the
// query string and relays the upstream answer unchanged.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "workflowName")
	dealID := r.URL.Query().Get(ParamDealID)

	server.AddLogField(ctx, "workflow", name)
	server.AddLogField(ctx, "deal_id", dealID)

	opCtx, cancel := h.operationContext(r)
	defer cancel()

	result, err := h.dispatcher.Dispatch(opCtx, name, dealID)
	if err != nil {
		server.AddError(ctx, err)
		writeError(w, err)
		return
	}

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(result.StatusCode)
	if _, err := w.Write(result.Body); err != nil {
		h.logger.Warn("failed to write upstream body", slog.String("error", err.Error()))
	}
}

type dateUpdateResponse struct {
	Status string `json:"status"`
	DealID string `json:"deal_id"`
}

// HandleDateUpdate shifts DATE_CREATE and writes it back to deal ID.
func (h *Handler) HandleDateUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	dealID := query.Get(ParamID)

	server.AddLogField(ctx, "deal_id", dealID)

	opCtx, cancel := h.operationContext(r)
	defer cancel()

	if err := h.dates.HandleDateUpdate(opCtx, dealID, query.Get(ParamDateCreate)); err != nil {
		server.AddError(ctx, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dateUpdateResponse{Status: "updated", DealID: dealID})
}

type workflowEntry struct {
	Name       string `json:"name"`
	TemplateID string `json:"template_id"`
}

type workflowList struct {
	Workflows []workflowEntry `json:"workflows"`
}

// ListWorkflows returns the workflow table sorted by name.
func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	names := h.registry.Names()
	list := workflowList{Workflows: make([]workflowEntry, 0, len(names))}
	for _, name := range names {
		id, _ := h.registry.Lookup(name)
		list.Workflows = append(list.Workflows, workflowEntry{Name: name, TemplateID: id})
	}
	writeJSON(w, http.StatusOK, list)
}
