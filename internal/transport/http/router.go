package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fairchain/internal/audit"
	"fairchain/internal/ledger"
	"fairchain/internal/platform/metrics"
	"fairchain/internal/platform/middleware"
)

// Handler wires the compliance ledger to HTTP endpoints.
type Handler struct {
	ledger  *ledger.Ledger
	trail   *audit.InMemoryStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(l *ledger.Ledger, trail *audit.InMemoryStore, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{ledger: l, trail: trail, metrics: m, logger: logger}
}

// NewRouter builds the full route tree. Every business route requires a
// bearer token resolving to a principal; the epoch middleware makes the
// environment-supplied logical time available to every handler.
func NewRouter(h *Handler, validator middleware.PrincipalValidator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Epoch)
	r.Use(h.measure)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, h.logger))

		r.Post("/vessels", h.handleRegisterVessel)
		r.Get("/vessels/{vesselID}", h.handleVesselDetails)
		r.Post("/vessels/{vesselID}/status", h.handleSetVesselActive)

		r.Post("/quotas", h.handleAllocateQuota)
		r.Get("/quotas/{vesselID}/{species}", h.handleQuotaRemaining)

		r.Post("/catches", h.handleReportCatch)
		r.Get("/catches/{catchID}", h.handleCatchDetails)
		r.Post("/catches/{catchID}/verify", h.handleVerifyCatch)
		r.Post("/catches/{catchID}/certification", h.handleCertify)
		r.Get("/catches/{catchID}/certification", h.handleCertification)

		r.Post("/blacklist", h.handleBlacklist)
		r.Delete("/blacklist/{entity}", h.handleUnblacklist)
		r.Get("/blacklist/{entity}", h.handleBlacklistEntry)

		r.Post("/roles/verifiers", h.handleAddVerifier)
		r.Post("/roles/certifiers", h.handleAddCertifier)

		r.Get("/audit", h.handleAuditTrail)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// measure records request latency against the matched route pattern.
func (h *Handler) measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		h.metrics.RequestDurationSecond.
			WithLabelValues(route, r.Method).
			Observe(time.Since(start).Seconds())
	})
}
