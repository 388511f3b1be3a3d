package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fairchain/internal/audit"
	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
	"fairchain/pkg/platform/sentinel"
)

// RoleDirectory answers the administrator check for allocations.
type RoleDirectory interface {
	IsAdmin(principal domain.Principal) bool
}

// VesselDirectory supplies the existence and activity checks delegated to
// the vessel registry.
type VesselDirectory interface {
	OwnerOf(ctx context.Context, id domain.VesselID) (domain.Principal, error)
	IsActive(ctx context.Context, id domain.VesselID) (bool, error)
}

// Service owns allocation and consumption of per-(vessel, species) quota.
type Service struct {
	store   Store
	roles   RoleDirectory
	vessels VesselDirectory
	logger  *slog.Logger
	audit   *audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(publisher *audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func New(store Store, roles RoleDirectory, vessels VesselDirectory, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("quota store is required")
	}
	if roles == nil {
		return nil, fmt.Errorf("role directory is required")
	}
	if vessels == nil {
		return nil, fmt.Errorf("vessel directory is required")
	}
	svc := &Service{store: store, roles: roles, vessels: vessels}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Allocate replaces the quota record for (vessel, species): allocated=amount,
// used=0, expiry=now+offset. Administrator-only; the vessel must exist and be
// active. Re-allocating replaces, never adds.
func (s *Service) Allocate(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, expiryOffset uint64, caller domain.Principal, now domain.Epoch) error {
	if !s.roles.IsAdmin(caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "only the administrator may allocate quota")
	}

	owner, err := s.vessels.OwnerOf(ctx, vesselID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up vessel")
	}
	if owner.IsZero() {
		return dErrors.New(dErrors.CodeNotFound, "unknown vessel")
	}
	active, err := s.vessels.IsActive(ctx, vesselID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check vessel status")
	}
	if !active {
		return dErrors.New(dErrors.CodeForbidden, "vessel is inactive")
	}

	err = s.store.Put(ctx, Quota{
		Key:       domain.QuotaKey{Vessel: vesselID, Species: species},
		Allocated: amount,
		Used:      0,
		Expiry:    now.Add(expiryOffset),
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store quota")
	}

	s.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionQuotaAllocated,
		Subject: domain.QuotaKey{Vessel: vesselID, Species: species}.String(),
		Detail:  fmt.Sprintf("allocated=%d expiry=%d", amount, now.Add(expiryOffset)),
	})
	return nil
}

// ValidateAndConsume is the single atomic consume step. On any failure the
// record is untouched.
func (s *Service) ValidateAndConsume(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, now domain.Epoch) error {
	key := domain.QuotaKey{Vessel: vesselID, Species: species}
	err := s.store.Consume(ctx, key, amount, now)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "no quota allocated for "+key.String())
	case errors.Is(err, sentinel.ErrExpired):
		return dErrors.New(dErrors.CodeExpired, "quota expired for "+key.String())
	case errors.Is(err, sentinel.ErrInsufficient):
		return dErrors.New(dErrors.CodeConflict, "insufficient quota for "+key.String())
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume quota")
	}
}

// Remaining returns allocated-used for a known, unexpired record; ok=false
// otherwise.
func (s *Service) Remaining(ctx context.Context, vesselID domain.VesselID, species domain.Species, now domain.Epoch) (domain.Amount, bool, error) {
	q, err := s.store.Get(ctx, domain.QuotaKey{Vessel: vesselID, Species: species})
	if err != nil {
		return 0, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load quota")
	}
	if q == nil || q.Expired(now) {
		return 0, false, nil
	}
	return q.Remaining(), true, nil
}

// IsValid is the pure predicate mirroring the three consume guards without
// mutating.
func (s *Service) IsValid(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, now domain.Epoch) (bool, error) {
	q, err := s.store.Get(ctx, domain.QuotaKey{Vessel: vesselID, Species: species})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load quota")
	}
	if q == nil || q.Expired(now) {
		return false, nil
	}
	// Compared against the remainder so a huge amount cannot wrap the sum.
	return amount <= q.Allocated-q.Used, nil
}

// Details returns the stored record; nil for an unknown key.
func (s *Service) Details(ctx context.Context, vesselID domain.VesselID, species domain.Species) (*Quota, error) {
	q, err := s.store.Get(ctx, domain.QuotaKey{Vessel: vesselID, Species: species})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load quota")
	}
	return q, nil
}
