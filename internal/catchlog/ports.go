package catchlog

import (
	"context"

	"fairchain/pkg/domain"
)

// The register reaches its collaborators only through these contracts so
// tests can substitute doubles for each precondition independently.

// VesselDirectory answers ownership and activity for the reporting vessel.
type VesselDirectory interface {
	OwnerOf(ctx context.Context, id domain.VesselID) (domain.Principal, error)
	IsActive(ctx context.Context, id domain.VesselID) (bool, error)
}

// QuotaLedger supplies the non-mutating coverage check and the atomic
// consume.
type QuotaLedger interface {
	IsValid(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, now domain.Epoch) (bool, error)
	ValidateAndConsume(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, now domain.Epoch) error
}

// RoleDirectory answers whether a caller may verify catches.
type RoleDirectory interface {
	IsVerifier(ctx context.Context, principal domain.Principal) (bool, error)
}
