package vessel

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

// Blacklist is the deny-list consulted before registration. Implemented by
// the market certifier, which owns it.
type Blacklist interface {
	IsBlacklisted(ctx context.Context, entity domain.Principal) (bool, error)
}

// Service owns vessel registration, ownership checks, and activity status.
type Service struct {
	store     Store
	blacklist Blacklist
	logger    *slog.Logger
	audit     *audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(publisher *audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func New(store Store, blacklist Blacklist, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("vessel store is required")
	}
	if blacklist == nil {
		return nil, fmt.Errorf("blacklist is required")
	}
	svc := &Service{store: store, blacklist: blacklist}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates a vessel owned by the caller, active from the start.
// Blacklisted registrants are refused.
func (s *Service) Register(ctx context.Context, name, vesselType string, caller domain.Principal, now domain.Epoch) (domain.VesselID, error) {
	if caller.IsZero() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	if name == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "vessel name is required")
	}

	listed, err := s.blacklist.IsBlacklisted(ctx, caller)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to consult blacklist")
	}
	if listed {
		return 0, dErrors.New(dErrors.CodeForbidden, "registrant is blacklisted")
	}

	id, err := s.store.Create(ctx, Vessel{
		Owner:        caller,
		Name:         name,
		Type:         vesselType,
		RegisteredAt: now,
		Active:       true,
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create vessel")
	}

	s.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionVesselRegistered,
		Subject: id.String(),
		Detail:  name,
	})
	return id, nil
}

// SetActive overwrites the active flag. Only the owner may do this.
func (s *Service) SetActive(ctx context.Context, id domain.VesselID, active bool, caller domain.Principal, now domain.Epoch) error {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}
	if v == nil {
		return dErrors.New(dErrors.CodeNotFound, "unknown vessel")
	}
	if v.Owner != caller {
		return dErrors.New(dErrors.CodeUnauthorized, "only the owner may change vessel status")
	}
	if err := s.store.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "unknown vessel")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update vessel status")
	}
	s.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionVesselActivity,
		Subject: id.String(),
		Detail:  fmt.Sprintf("active=%t", active),
	})
	return nil
}

// IsActive reports the active flag; false for an unknown id, not an error.
func (s *Service) IsActive(ctx context.Context, id domain.VesselID) (bool, error) {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}
	return v != nil && v.Active, nil
}

// OwnerOf returns the owner principal; zero for an unknown id.
func (s *Service) OwnerOf(ctx context.Context, id domain.VesselID) (domain.Principal, error) {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}
	if v == nil {
		return "", nil
	}
	return v.Owner, nil
}

// Details returns the full record; nil for an unknown id.
func (s *Service) Details(ctx context.Context, id domain.VesselID) (*Vessel, error) {
	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vessel")
	}
	return v, nil
}
