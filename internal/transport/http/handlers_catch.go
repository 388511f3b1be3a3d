package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
	"fairchain/pkg/requestcontext"
)

type reportCatchRequest struct {
	VesselID domain.VesselID `json:"vessel_id"`
	Species  string          `json:"species"`
	Amount   domain.Amount   `json:"amount"`
	Lat      int64           `json:"lat"`
	Long     int64           `json:"long"`
}

type reportCatchResponse struct {
	CatchID domain.CatchID `json:"catch_id"`
}

func (h *Handler) handleReportCatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req reportCatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.ledger.ReportCatch(ctx, req.VesselID, domain.Species(req.Species),
		req.Amount, req.Lat, req.Long,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		h.metrics.ReportRejections.WithLabelValues(string(dErrors.CodeOf(err))).Inc()
		writeError(w, err)
		return
	}
	h.metrics.CatchesReported.Inc()
	writeJSON(w, http.StatusCreated, reportCatchResponse{CatchID: id})
}

type catchResponse struct {
	CatchID    domain.CatchID  `json:"catch_id"`
	VesselID   domain.VesselID `json:"vessel_id"`
	Species    domain.Species  `json:"species"`
	Amount     domain.Amount   `json:"amount"`
	Lat        int64           `json:"lat"`
	Long       int64           `json:"long"`
	ReportedAt domain.Epoch    `json:"reported_at"`
	Verified   bool            `json:"verified"`
}

func (h *Handler) handleCatchDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseCatchID(chi.URLParam(r, "catchID"))
	if err != nil {
		writeError(w, err)
		return
	}

	c, err := h.ledger.CatchDetails(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	if c == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NOT_FOUND", Message: "unknown catch"})
		return
	}
	writeJSON(w, http.StatusOK, catchResponse{
		CatchID:    c.ID,
		VesselID:   c.Vessel,
		Species:    c.Species,
		Amount:     c.Amount,
		Lat:        c.Location.Lat,
		Long:       c.Location.Long,
		ReportedAt: c.ReportedAt,
		Verified:   c.Verified,
	})
}

func (h *Handler) handleVerifyCatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseCatchID(chi.URLParam(r, "catchID"))
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.ledger.VerifyCatch(ctx, id,
		requestcontext.Principal(ctx), requestcontext.Epoch(ctx))
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.CatchesVerified.Inc()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
