package middleware

import (
	"net/http"
	"strconv"
	"time"

	"fairchain/pkg/domain"
	"fairchain/pkg/requestcontext"
)

// EpochHeader carries the logical time supplied by the hosting environment.
const EpochHeader = "X-Epoch"

// Epoch captures the environment-supplied logical time for the request and
// stores it in the context, so every operation within the request sees the
// same "now". Falls back to wall-clock seconds when the caller sends none,
// which preserves monotonicity for environments that never adopted logical
// time.
func Epoch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := domain.Epoch(time.Now().Unix())
		if raw := r.Header.Get(EpochHeader); raw != "" {
			if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
				now = domain.Epoch(parsed)
			}
		}
		ctx := requestcontext.WithEpoch(r.Context(), now)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
