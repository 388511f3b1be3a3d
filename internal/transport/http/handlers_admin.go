package httptransport

import (
	"net/http"

	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
	"fairchain/pkg/requestcontext"
)

type grantRoleRequest struct {
	Principal domain.Principal `json:"principal"`
}

func (h *Handler) handleAddVerifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req grantRoleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.ledger.AddVerifier(ctx, req.Principal,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleAddCertifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req grantRoleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.ledger.AddCertifier(ctx, req.Principal,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleAuditTrail exposes the in-process audit trail to the admin. Events
// shipped to external sinks are not readable back through this endpoint.
func (h *Handler) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.ledger.IsAdmin(requestcontext.Principal(ctx)) {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "admin required"))
		return
	}

	events, err := h.trail.List(ctx)
	if err != nil {
		writeError(w, dErrors.Wrap(err, dErrors.CodeInternal, "listing audit trail"))
		return
	}
	writeJSON(w, http.StatusOK, events)
}
