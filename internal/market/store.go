package market

import (
	"context"

	"fairchain/pkg/domain"
)

// CertificationStore persists certifications keyed by catch id. Put
// overwrites: re-certification replaces the prior record.
type CertificationStore interface {
	Put(ctx context.Context, cert Certification) error
	// Get returns (nil, nil) for a catch that was never certified.
	Get(ctx context.Context, catchID domain.CatchID) (*Certification, error)
}

// BlacklistStore persists the deny-list. Add overwrites an existing entry;
// Remove of an absent entity is a no-op success.
type BlacklistStore interface {
	Add(ctx context.Context, entry BlacklistEntry) error
	Remove(ctx context.Context, entity domain.Principal) error
	// Find returns (nil, nil) for an entity that is not listed.
	Find(ctx context.Context, entity domain.Principal) (*BlacklistEntry, error)
}
