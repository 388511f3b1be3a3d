// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets the caller principal, the logical epoch, and the request id;
// services and tests read them without importing net/http. The epoch is the
// environment-supplied monotonic counter used for every expiry comparison —
// the core never advances it and only falls back to wall-clock seconds when
// no environment supplied one (CLI, tests that don't care).
//
// Usage in handlers (read values):
//
//	caller := requestcontext.Principal(ctx)
//	now := requestcontext.Epoch(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithEpoch(ctx, 100)
//	ctx = requestcontext.WithPrincipal(ctx, "owner-a")
package requestcontext

import (
	"context"
	"time"

	"fairchain/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	principalKey struct{}
	epochKey     struct{}
	requestIDKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyPrincipal = principalKey{}
	ContextKeyEpoch     = epochKey{}
	ContextKeyRequestID = requestIDKey{}
)

// Principal retrieves the authenticated caller from the context.
// Returns the zero principal if not set.
func Principal(ctx context.Context) domain.Principal {
	if p, ok := ctx.Value(ContextKeyPrincipal).(domain.Principal); ok {
		return p
	}
	return ""
}

// WithPrincipal injects a caller principal into the context.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// Epoch retrieves the request-scoped logical time from the context.
// Falls back to wall-clock seconds when no environment supplied one.
func Epoch(ctx context.Context) domain.Epoch {
	if e, ok := ctx.Value(ContextKeyEpoch).(domain.Epoch); ok {
		return e
	}
	return domain.Epoch(time.Now().Unix())
}

// WithEpoch injects a logical epoch into the context.
func WithEpoch(ctx context.Context, e domain.Epoch) context.Context {
	return context.WithValue(ctx, ContextKeyEpoch, e)
}

// RequestID retrieves the request correlation id from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request correlation id into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, id)
}
