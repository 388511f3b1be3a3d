// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// the ledger, and encode; business logic stays in the registries.
package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "fairchain/pkg/domain-errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeError centralizes domain error translation so every endpoint returns
// the same JSON envelope and the numeric codes the external contract fixes.
func writeError(w http.ResponseWriter, err error) {
	body := errorResponse{Error: string(dErrors.CodeOf(err))}
	var de *dErrors.Error
	if errors.As(err, &de) {
		// Surface the message for coded errors; uncoded ones stay opaque.
		body.Message = de.Message
	}
	writeJSON(w, dErrors.HTTPStatus(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode parses a JSON request body, refusing unknown fields so client typos
// fail loudly.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed request body")
	}
	return nil
}
