package catchlog

import (
	"context"

	"fairchain/pkg/domain"
)

// Store persists catches. Create assigns the next monotonic id.
type Store interface {
	Create(ctx context.Context, c Catch) (domain.CatchID, error)
	// FindByID returns (nil, nil) for an unknown id.
	FindByID(ctx context.Context, id domain.CatchID) (*Catch, error)
	// MarkVerified sets Verified=true. Idempotent; returns
	// sentinel.ErrNotFound for an unknown id.
	MarkVerified(ctx context.Context, id domain.CatchID) error
}
