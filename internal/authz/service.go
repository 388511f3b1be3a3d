package authz

import (
	"context"
	"fmt"
	"log/slog"

	"fairchain/internal/audit"
	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
)

// Service answers membership queries and applies administrator-only grants.
// The administrator identity is fixed at construction; there is exactly one.
type Service struct {
	store  Store
	admin  domain.Principal
	logger *slog.Logger
	audit  *audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(publisher *audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func New(store Store, admin domain.Principal, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("authz store is required")
	}
	if admin.IsZero() {
		return nil, fmt.Errorf("administrator principal is required")
	}
	svc := &Service{store: store, admin: admin}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// IsAdmin reports whether the principal is the administrator.
func (s *Service) IsAdmin(principal domain.Principal) bool {
	return !principal.IsZero() && principal == s.admin
}

// AddVerifier grants the verifier role. Administrator-only; granting twice
// is a no-op success.
func (s *Service) AddVerifier(ctx context.Context, principal, caller domain.Principal, now domain.Epoch) error {
	return s.grant(ctx, RoleVerifier, principal, caller, now)
}

// AddCertifier grants the certifier role. Administrator-only; granting twice
// is a no-op success.
func (s *Service) AddCertifier(ctx context.Context, principal, caller domain.Principal, now domain.Epoch) error {
	return s.grant(ctx, RoleCertifier, principal, caller, now)
}

func (s *Service) grant(ctx context.Context, role Role, principal, caller domain.Principal, now domain.Epoch) error {
	if !s.IsAdmin(caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "only the administrator may grant roles")
	}
	if principal.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "principal is required")
	}
	if err := s.store.Grant(ctx, role, principal); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to grant role")
	}
	s.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionRoleGranted,
		Subject: principal.String(),
		Detail:  string(role),
	})
	return nil
}

// IsVerifier reports whether the principal holds the verifier role.
func (s *Service) IsVerifier(ctx context.Context, principal domain.Principal) (bool, error) {
	return s.has(ctx, RoleVerifier, principal)
}

// IsCertifier reports whether the principal holds the certifier role.
func (s *Service) IsCertifier(ctx context.Context, principal domain.Principal) (bool, error) {
	return s.has(ctx, RoleCertifier, principal)
}

func (s *Service) has(ctx context.Context, role Role, principal domain.Principal) (bool, error) {
	if principal.IsZero() {
		return false, nil
	}
	ok, err := s.store.Has(ctx, role, principal)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query role membership")
	}
	return ok, nil
}
