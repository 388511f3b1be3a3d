package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairchain/pkg/domain"
	"fairchain/pkg/requestcontext"
)

type allocateQuotaRequest struct {
	VesselID     domain.VesselID `json:"vessel_id"`
	Species      string          `json:"species"`
	Amount       domain.Amount   `json:"amount"`
	ExpiryOffset uint64          `json:"expiry_offset"`
}

func (h *Handler) handleAllocateQuota(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req allocateQuotaRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := h.ledger.AllocateQuota(ctx, req.VesselID, domain.Species(req.Species),
		req.Amount, req.ExpiryOffset,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.QuotaAllocations.Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type quotaResponse struct {
	VesselID  domain.VesselID `json:"vessel_id"`
	Species   domain.Species  `json:"species"`
	Remaining domain.Amount   `json:"remaining"`
	Allocated domain.Amount   `json:"allocated"`
	Used      domain.Amount   `json:"used"`
	Expiry    domain.Epoch    `json:"expiry"`
}

// handleQuotaRemaining reports the live allowance. An unknown or expired
// record reads as not found rather than an error, per the read contract.
func (h *Handler) handleQuotaRemaining(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vesselID, err := domain.ParseVesselID(chi.URLParam(r, "vesselID"))
	if err != nil {
		writeError(w, err)
		return
	}
	species := domain.Species(chi.URLParam(r, "species"))

	remaining, ok, err := h.ledger.QuotaRemaining(ctx, vesselID, species, requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NOT_FOUND", Message: "no valid quota"})
		return
	}

	q, err := h.ledger.QuotaDetails(ctx, vesselID, species)
	if err != nil || q == nil {
		// The record vanished between the two reads only if the backing
		// store failed; report what we have.
		writeJSON(w, http.StatusOK, quotaResponse{VesselID: vesselID, Species: species, Remaining: remaining})
		return
	}
	writeJSON(w, http.StatusOK, quotaResponse{
		VesselID:  vesselID,
		Species:   species,
		Remaining: remaining,
		Allocated: q.Allocated,
		Used:      q.Used,
		Expiry:    q.Expiry,
	})
}
