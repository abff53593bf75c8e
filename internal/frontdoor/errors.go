package frontdoor

import (
	"encoding/json"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/tjfontaine/crm-webhook-relay/internal/relay"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeError renders err as {"error", "details"} with the status its envelope
// carries. Errors without an envelope become an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	status := relay.StatusCode(err)
	body := errorResponse{Error: http.StatusText(http.StatusInternalServerError)}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		body.Error = rich.Message
		if details, ok := rich.Metadata["details"].(string); ok {
			body.Details = details
		}
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
