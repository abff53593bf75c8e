package relay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/tjfontaine/crm-webhook-relay/internal/crm"
	"github.com/tjfontaine/crm-webhook-relay/internal/telemetry"
)

// UpdateResult is the outcome of a field update.
type UpdateResult int

const (
	// UpdateFailed means the upstream never confirmed the update with a 200.
	UpdateFailed UpdateResult = iota
	// UpdateUpdated means the upstream answered 200.
	UpdateUpdated
	// UpdateRejected means the value was null and nothing was sent.
	UpdateRejected
)

func (r UpdateResult) String() string {
	switch r {
	case UpdateUpdated:
		return "updated"
	case UpdateRejected:
		return "rejected"
	default:
		return "failed"
	}
}

// FieldUpdater writes single deal fields upstream.
type FieldUpdater struct {
	executor  Executor
	endpoints crm.Endpoints
	logger    *slog.Logger
	metrics   *telemetry.Metrics
}

// NewFieldUpdater creates a FieldUpdater. logger and metrics may be nil.
func NewFieldUpdater(exec Executor, endpoints crm.Endpoints, logger *slog.Logger, metrics *telemetry.Metrics) *FieldUpdater {
	if logger == nil {
		logger = slog.Default()
	}
	return &FieldUpdater{
		executor:  exec,
		endpoints: endpoints,
		logger:    logger,
		metrics:   metrics,
	}
}

// UpdateField sets fieldName to value on the deal. A null value is rejected
// without calling upstream. Only an exact 200 counts as updated; the returned
// error is nil only for UpdateUpdated.
func (u *FieldUpdater) UpdateField(ctx context.Context, dealID, fieldName string, value any) (UpdateResult, error) {
	logger := u.logger.With(
		slog.String("deal_id", dealID),
		slog.String("field", fieldName),
	)

	if isNull(value) {
		u.metrics.FieldUpdate(UpdateRejected.String())
		logger.Warn("field update rejected: value is null")
		return UpdateRejected, nullValue(fieldName)
	}

	payload := crm.NewUpdateDealRequest(dealID, fieldName, value)
	resp, err := u.executor.Execute(ctx, u.endpoints.UpdateDealURL(), payload)
	if err != nil {
		u.metrics.FieldUpdate(UpdateFailed.String())
		logger.Error("field update failed", slog.String("error", err.Error()))
		return UpdateFailed, fmt.Errorf("update %s on deal %s: %w", fieldName, dealID, err)
	}

	if resp.StatusCode != http.StatusOK {
		u.metrics.FieldUpdate(UpdateFailed.String())
		logger.Error("field update not confirmed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(resp.Body)),
		)
		return UpdateFailed, fmt.Errorf("update %s on deal %s: upstream answered %d, want 200", fieldName, dealID, resp.StatusCode)
	}

	u.metrics.FieldUpdate(UpdateUpdated.String())
	logger.Info("field updated")
	return UpdateUpdated, nil
}

func isNull(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}
