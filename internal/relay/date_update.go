package relay

import (
	"context"
	"errors"
	"log/slog"
)

// DefaultDateField is the deal field receiving the shifted creation date.
const DefaultDateField = "UF_CRM_1731416690056"

var errUnconfirmedUpdate = errors.New("field update was not confirmed")

// FieldWriter updates a single deal field.
type FieldWriter interface {
	UpdateField(ctx context.Context, dealID, fieldName string, value any) (UpdateResult, error)
}

// DateUpdater copies a deal's creation timestamp, shifted by DateShift, into
// a date field on the same deal.
type DateUpdater struct {
	fields FieldWriter
	field  string
	logger *slog.Logger
}

// NewDateUpdater creates a DateUpdater writing to field (DefaultDateField when empty).
func NewDateUpdater(fields FieldWriter, field string, logger *slog.Logger) *DateUpdater {
	if field == "" {
		field = DefaultDateField
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DateUpdater{fields: fields, field: field, logger: logger}
}

// Field returns the target deal field.
func (d *DateUpdater) Field() string {
	return d.field
}

// HandleDateUpdate normalizes dateCreate and writes it to the deal. Every
// failure, including bad input, is reported as UPSTREAM_UPDATE_FAILED (500)
// carrying the deal id.
func (d *DateUpdater) HandleDateUpdate(ctx context.Context, dealID, dateCreate string) error {
	logger := d.logger.With(slog.String("deal_id", dealID))

	if dealID == "" {
		err := missingField("ID")
		logger.Error("date update failed", slog.String("error", err.Error()))
		return upstreamUpdateFailed(dealID, err)
	}

	normalized, err := NormalizeDate(dateCreate)
	if err != nil {
		logger.Error("date update failed",
			slog.String("date_create", dateCreate),
			slog.String("error", err.Error()),
		)
		return upstreamUpdateFailed(dealID, err)
	}

	result, err := d.fields.UpdateField(ctx, dealID, d.field, normalized)
	if err != nil || result != UpdateUpdated {
		if err == nil {
			err = errUnconfirmedUpdate
		}
		logger.Error("date update failed",
			slog.String("result", result.String()),
			slog.String("error", err.Error()),
		)
		return upstreamUpdateFailed(dealID, err)
	}

	logger.Info("deal date updated",
		slog.String("date_create", dateCreate),
		slog.String("normalized", normalized),
	)
	return nil
}
