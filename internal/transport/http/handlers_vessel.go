package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairchain/pkg/domain"
	"fairchain/pkg/requestcontext"
)

type registerVesselRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type registerVesselResponse struct {
	VesselID domain.VesselID `json:"vessel_id"`
}

func (h *Handler) handleRegisterVessel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req registerVesselRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.ledger.RegisterVessel(ctx, req.Name, req.Type,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.VesselsRegistered.Inc()
	writeJSON(w, http.StatusCreated, registerVesselResponse{VesselID: id})
}

type vesselResponse struct {
	VesselID     domain.VesselID  `json:"vessel_id"`
	Owner        domain.Principal `json:"owner"`
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	RegisteredAt domain.Epoch     `json:"registered_at"`
	Active       bool             `json:"active"`
}

func (h *Handler) handleVesselDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseVesselID(chi.URLParam(r, "vesselID"))
	if err != nil {
		writeError(w, err)
		return
	}

	v, err := h.ledger.VesselDetails(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if v == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NOT_FOUND", Message: "unknown vessel"})
		return
	}
	writeJSON(w, http.StatusOK, vesselResponse{
		VesselID:     v.ID,
		Owner:        v.Owner,
		Name:         v.Name,
		Type:         v.Type,
		RegisteredAt: v.RegisteredAt,
		Active:       v.Active,
	})
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) handleSetVesselActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseVesselID(chi.URLParam(r, "vesselID"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req setActiveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err = h.ledger.SetVesselActive(ctx, id, req.Active,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
