package relay

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by relay error envelopes.
const (
	TextCodeMissingField         = "MISSING_FIELD"
	TextCodeUnknownWorkflow      = "UNKNOWN_WORKFLOW"
	TextCodeUpstreamUnavailable  = "UPSTREAM_UNAVAILABLE"
	TextCodeMalformedTimestamp   = "MALFORMED_TIMESTAMP"
	TextCodeNullValue            = "NULL_VALUE"
	TextCodeUpstreamUpdateFailed = "UPSTREAM_UPDATE_FAILED"
)

func missingField(field string) error {
	return goerrors.New(field+" not provided", goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeMissingField).
		WithMetadata(map[string]any{"field": field})
}

func unknownWorkflow(name string) error {
	return goerrors.New("workflow not found", goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(TextCodeUnknownWorkflow).
		WithMetadata(map[string]any{"workflow": name})
}

func upstreamUnavailable(cause error) error {
	return goerrors.Wrap(cause, goerrors.CategoryExternal, "all upstream attempts failed").
		WithCode(http.StatusInternalServerError).
		WithTextCode(TextCodeUpstreamUnavailable).
		WithMetadata(map[string]any{"details": "check the relay logs for more information"})
}

func malformedTimestamp(value string, cause error) error {
	return goerrors.Wrap(cause, goerrors.CategoryBadInput, "malformed timestamp").
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeMalformedTimestamp).
		WithMetadata(map[string]any{"value": value})
}

func nullValue(field string) error {
	return goerrors.New("value for "+field+" is null", goerrors.CategoryValidation).
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeNullValue).
		WithMetadata(map[string]any{"field": field})
}

func upstreamUpdateFailed(dealID string, cause error) error {
	return goerrors.Wrap(cause, goerrors.CategoryExternal, "failed to update datetime in CRM for deal: "+dealID).
		WithCode(http.StatusInternalServerError).
		WithTextCode(TextCodeUpstreamUpdateFailed).
		WithMetadata(map[string]any{"deal_id": dealID})
}

// StatusCode returns the HTTP status for err. Errors without an envelope map
// to 500.
func StatusCode(err error) int {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code != 0 {
		return rich.Code
	}
	return http.StatusInternalServerError
}

// TextCode returns the envelope text code of err, or "" when err carries none.
func TextCode(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode
	}
	return ""
}
