package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairchain/pkg/domain"
	"fairchain/pkg/requestcontext"
)

type certifyRequest struct {
	ExpiryOffset uint64 `json:"expiry_offset"`
}

func (h *Handler) handleCertify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseCatchID(chi.URLParam(r, "catchID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req certifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err = h.ledger.Certify(ctx, id, req.ExpiryOffset,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.CertificationsIssued.Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type certificationResponse struct {
	CatchID   domain.CatchID   `json:"catch_id"`
	Certified bool             `json:"certified"`
	IssuedAt  domain.Epoch     `json:"issued_at,omitempty"`
	Expiry    domain.Epoch     `json:"expiry,omitempty"`
	Authority domain.Principal `json:"authority,omitempty"`
}

// handleCertification reports current validity plus the stored record, so
// integrators can distinguish "never certified" from "certification lapsed".
func (h *Handler) handleCertification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseCatchID(chi.URLParam(r, "catchID"))
	if err != nil {
		writeError(w, err)
		return
	}

	certified, err := h.ledger.IsCertified(ctx, id, requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	resp := certificationResponse{CatchID: id, Certified: certified}
	if cert, err := h.ledger.CertificationOf(ctx, id); err == nil && cert != nil {
		resp.IssuedAt = cert.IssuedAt
		resp.Expiry = cert.Expiry
		resp.Authority = cert.Authority
	}
	writeJSON(w, http.StatusOK, resp)
}

type blacklistRequest struct {
	Entity domain.Principal `json:"entity"`
	Reason string           `json:"reason"`
}

func (h *Handler) handleBlacklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req blacklistRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.ledger.Blacklist(ctx, req.Entity, req.Reason,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.BlacklistMutations.WithLabelValues("add").Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleUnblacklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entity := domain.Principal(chi.URLParam(r, "entity"))

	err := h.ledger.Unblacklist(ctx, entity,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.BlacklistMutations.WithLabelValues("remove").Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type blacklistEntryResponse struct {
	Entity        domain.Principal `json:"entity"`
	Blacklisted   bool             `json:"blacklisted"`
	Reason        string           `json:"reason,omitempty"`
	BlacklistedAt domain.Epoch     `json:"blacklisted_at,omitempty"`
}

func (h *Handler) handleBlacklistEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entity := domain.Principal(chi.URLParam(r, "entity"))

	entry, err := h.ledger.BlacklistEntry(ctx, entity)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := blacklistEntryResponse{Entity: entity, Blacklisted: entry != nil}
	if entry != nil {
		resp.Reason = entry.Reason
		resp.BlacklistedAt = entry.BlacklistedAt
	}
	writeJSON(w, http.StatusOK, resp)
}
