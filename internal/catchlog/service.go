package catchlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fairchain/internal/audit"
	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
	"fairchain/pkg/platform/sentinel"
)

// Service records catches and accepts verification from authorized callers.
type Service struct {
	store   Store
	vessels VesselDirectory
	quotas  QuotaLedger
	roles   RoleDirectory
	logger  *slog.Logger
	audit   *audit.Publisher
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAudit(publisher *audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func New(store Store, vessels VesselDirectory, quotas QuotaLedger, roles RoleDirectory, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catch store is required")
	}
	if vessels == nil {
		return nil, fmt.Errorf("vessel directory is required")
	}
	if quotas == nil {
		return nil, fmt.Errorf("quota ledger is required")
	}
	if roles == nil {
		return nil, fmt.Errorf("role directory is required")
	}
	svc := &Service{
		store:   store,
		vessels: vessels,
		quotas:  quotas,
		roles:   roles,
		tracer:  otel.Tracer("fairchain/catchlog"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Report runs the cross-registry validation pipeline and, only when every
// precondition holds, consumes quota and creates the catch. Each step
// short-circuits with no side effect from later steps:
//
//  1. caller must own the vessel
//  2. vessel must be active
//  3. quota must cover the amount (non-mutating check)
//  4. quota is consumed atomically
//  5. the catch record is created, unverified
//
// A consume failure after step 3 passed means the serialization guarantee
// was broken somewhere; it is reported as an invariant violation and no
// catch record is created.
func (s *Service) Report(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, lat, long int64, caller domain.Principal, now domain.Epoch) (domain.CatchID, error) {
	ctx, span := s.tracer.Start(ctx, "catchlog.Report", trace.WithAttributes(
		attribute.Int64("vessel_id", int64(vesselID)),
		attribute.String("species", string(species)),
		attribute.Int64("amount", int64(amount)),
	))
	defer span.End()

	id, err := s.report(ctx, vesselID, species, amount, lat, long, caller, now)
	if err != nil {
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		return 0, err
	}
	span.SetAttributes(attribute.Int64("catch_id", int64(id)))
	return id, nil
}

func (s *Service) report(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, lat, long int64, caller domain.Principal, now domain.Epoch) (domain.CatchID, error) {
	owner, err := s.vessels.OwnerOf(ctx, vesselID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up vessel owner")
	}
	if owner.IsZero() || owner != caller {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "caller does not own the vessel")
	}

	active, err := s.vessels.IsActive(ctx, vesselID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check vessel status")
	}
	if !active {
		return 0, dErrors.New(dErrors.CodeForbidden, "vessel is inactive")
	}

	covered, err := s.quotas.IsValid(ctx, vesselID, species, amount, now)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check quota coverage")
	}
	if !covered {
		return 0, dErrors.New(dErrors.CodeConflict, "quota does not cover the reported amount")
	}

	if err := s.quotas.ValidateAndConsume(ctx, vesselID, species, amount, now); err != nil {
		// The coverage check passed moments ago; under serialized execution
		// this cannot happen. No catch record is created.
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "quota consume failed after passing coverage check",
				"vessel_id", vesselID,
				"species", species,
				"error", err,
			)
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "quota consume failed after coverage check")
	}

	id, err := s.store.Create(ctx, Catch{
		Vessel:     vesselID,
		Species:    species,
		Amount:     amount,
		Location:   Location{Lat: lat, Long: long},
		ReportedAt: now,
		Verified:   false,
	})
	if err != nil {
		// Quota is already consumed; a store failure here is the same class
		// of serialization defect as the consume failing above.
		return 0, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "failed to record catch after consuming quota")
	}

	s.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionCatchReported,
		Subject: id.String(),
		Detail:  fmt.Sprintf("vessel=%d species=%s amount=%d", vesselID, species, amount),
	})
	return id, nil
}

// Verify flips the catch to verified. Only verifiers may call it; verifying
// an already-verified catch is still an Ok.
func (s *Service) Verify(ctx context.Context, id domain.CatchID, caller domain.Principal, now domain.Epoch) error {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catch")
	}
	if c == nil {
		return dErrors.New(dErrors.CodeNotFound, "unknown catch")
	}

	isVerifier, err := s.roles.IsVerifier(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check verifier role")
	}
	if !isVerifier {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not a verifier")
	}

	if c.Verified {
		return nil
	}
	if err := s.store.MarkVerified(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "unknown catch")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark catch verified")
	}

	s.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionCatchVerified,
		Subject: id.String(),
	})
	return nil
}

// IsVerified reports the verified flag; false for an unknown id.
func (s *Service) IsVerified(ctx context.Context, id domain.CatchID) (bool, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catch")
	}
	return c != nil && c.Verified, nil
}

// Details returns the full record; nil for an unknown id.
func (s *Service) Details(ctx context.Context, id domain.CatchID) (*Catch, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catch")
	}
	return c, nil
}
