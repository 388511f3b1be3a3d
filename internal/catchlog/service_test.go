package catchlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
)

// =============================================================================
// Catch Service Test Suite
// =============================================================================
// Justification for unit tests: the report pipeline's precondition ordering
// and its no-partial-mutation guarantee need doubles that can fail each step
// independently, which HTTP-level tests cannot arrange.

type fakeVessels struct {
	owners map[domain.VesselID]domain.Principal
	active map[domain.VesselID]bool
}

func (f *fakeVessels) OwnerOf(_ context.Context, id domain.VesselID) (domain.Principal, error) {
	return f.owners[id], nil
}

func (f *fakeVessels) IsActive(_ context.Context, id domain.VesselID) (bool, error) {
	return f.active[id], nil
}

// fakeQuotas tracks remaining quota per key and counts consume calls so
// tests can assert nothing was consumed on a short-circuited report.
type fakeQuotas struct {
	remaining   map[domain.QuotaKey]domain.Amount
	consumes    int
	failConsume bool
}

func (f *fakeQuotas) IsValid(_ context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, _ domain.Epoch) (bool, error) {
	return amount <= f.remaining[domain.QuotaKey{Vessel: vesselID, Species: species}], nil
}

func (f *fakeQuotas) ValidateAndConsume(_ context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, _ domain.Epoch) error {
	if f.failConsume {
		return dErrors.New(dErrors.CodeConflict, "insufficient quota")
	}
	f.consumes++
	f.remaining[domain.QuotaKey{Vessel: vesselID, Species: species}] -= amount
	return nil
}

type fakeRoles struct {
	verifiers map[domain.Principal]bool
}

func (f *fakeRoles) IsVerifier(_ context.Context, p domain.Principal) (bool, error) {
	return f.verifiers[p], nil
}

type CatchServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	vessels *fakeVessels
	quotas  *fakeQuotas
	roles   *fakeRoles
	service *Service
}

func TestCatchServiceSuite(t *testing.T) {
	suite.Run(t, new(CatchServiceSuite))
}

func (s *CatchServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.vessels = &fakeVessels{
		owners: map[domain.VesselID]domain.Principal{1: "owner-1"},
		active: map[domain.VesselID]bool{1: true},
	}
	s.quotas = &fakeQuotas{
		remaining: map[domain.QuotaKey]domain.Amount{
			{Vessel: 1, Species: "cod"}: 1000,
		},
	}
	s.roles = &fakeRoles{verifiers: map[domain.Principal]bool{"inspector": true}}

	var err error
	s.service, err = New(s.store, s.vessels, s.quotas, s.roles)
	s.Require().NoError(err)
}

// =============================================================================
// Report Tests
// =============================================================================

func (s *CatchServiceSuite) TestReport() {
	ctx := context.Background()

	s.Run("non-owner is rejected before any quota check", func() {
		_, err := s.service.Report(ctx, 1, "cod", 100, 40000000, -70000000, "owner-2", 150)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal(0, s.quotas.consumes)
	})

	s.Run("unknown vessel is rejected as unauthorized", func() {
		_, err := s.service.Report(ctx, 9, "cod", 100, 0, 0, "owner-1", 150)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("inactive vessel is rejected without consuming", func() {
		s.vessels.active[1] = false
		defer func() { s.vessels.active[1] = true }()

		_, err := s.service.Report(ctx, 1, "cod", 100, 0, 0, "owner-1", 150)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(0, s.quotas.consumes)
	})

	s.Run("uncovered amount conflicts and leaves no record", func() {
		_, err := s.service.Report(ctx, 1, "cod", 1001, 0, 0, "owner-1", 150)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(0, s.quotas.consumes)

		verified, err := s.service.IsVerified(ctx, 1)
		s.NoError(err)
		s.False(verified)
	})

	s.Run("successful report consumes quota and stores an unverified catch", func() {
		id, err := s.service.Report(ctx, 1, "cod", 300, 40000000, -70000000, "owner-1", 150)
		s.Require().NoError(err)
		s.Equal(1, s.quotas.consumes)
		s.Equal(domain.Amount(700), s.quotas.remaining[domain.QuotaKey{Vessel: 1, Species: "cod"}])

		c, err := s.service.Details(ctx, id)
		s.Require().NoError(err)
		s.Require().NotNil(c)
		s.Equal(domain.VesselID(1), c.Vessel)
		s.Equal(domain.Species("cod"), c.Species)
		s.Equal(domain.Amount(300), c.Amount)
		s.Equal(Location{Lat: 40000000, Long: -70000000}, c.Location)
		s.Equal(domain.Epoch(150), c.ReportedAt)
		s.False(c.Verified)
	})

	s.Run("consume failure after coverage passed creates no orphan catch", func() {
		s.quotas.failConsume = true
		_, err := s.service.Report(ctx, 1, "cod", 100, 0, 0, "owner-1", 150)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		// The successful report above took id 1; a rejected report must not
		// have taken the next one.
		c, err := s.store.FindByID(ctx, 2)
		s.NoError(err)
		s.Nil(c)
	})
}

// =============================================================================
// Verify Tests
// =============================================================================

func (s *CatchServiceSuite) TestVerify() {
	ctx := context.Background()

	report := func() domain.CatchID {
		id, err := s.service.Report(ctx, 1, "cod", 100, 0, 0, "owner-1", 150)
		s.Require().NoError(err)
		return id
	}

	s.Run("unknown catch is not found, even for non-verifiers", func() {
		err := s.service.Verify(ctx, 42, "owner-1", 160)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-verifier may not verify", func() {
		id := report()
		err := s.service.Verify(ctx, id, "owner-1", 160)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		verified, err := s.service.IsVerified(ctx, id)
		s.NoError(err)
		s.False(verified)
	})

	s.Run("verifier flips the flag", func() {
		id := report()
		s.Require().NoError(s.service.Verify(ctx, id, "inspector", 160))

		verified, err := s.service.IsVerified(ctx, id)
		s.NoError(err)
		s.True(verified)
	})

	s.Run("verification is idempotent", func() {
		id := report()
		s.Require().NoError(s.service.Verify(ctx, id, "inspector", 160))
		s.NoError(s.service.Verify(ctx, id, "inspector", 161))
	})
}
