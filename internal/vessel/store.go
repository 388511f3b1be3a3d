package vessel

import (
	"context"

	"fairchain/pkg/domain"
)

// Store persists vessels. Create assigns the next unused id; ids are dense,
// monotonic, and never reused.
type Store interface {
	Create(ctx context.Context, v Vessel) (domain.VesselID, error)
	// FindByID returns (nil, nil) for an unknown id: absence is a fact, not
	// an error, and read paths map it to an empty result.
	FindByID(ctx context.Context, id domain.VesselID) (*Vessel, error)
	// SetActive overwrites the active flag. Returns sentinel.ErrNotFound for
	// an unknown id.
	SetActive(ctx context.Context, id domain.VesselID, active bool) error
}
