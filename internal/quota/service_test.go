package quota

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
)

// =============================================================================
// Quota Service Test Suite
// =============================================================================
// Justification for unit tests: the ledger's no-double-spend and expiry
// semantics are precondition-ordering sensitive and easier to pin down here
// than through full HTTP round-trips.

const adminPrincipal = domain.Principal("admin")

type fakeRoles struct {
	admin domain.Principal
}

func (f fakeRoles) IsAdmin(p domain.Principal) bool { return p == f.admin }

type fakeVessels struct {
	owners map[domain.VesselID]domain.Principal
	active map[domain.VesselID]bool
}

func (f fakeVessels) OwnerOf(_ context.Context, id domain.VesselID) (domain.Principal, error) {
	return f.owners[id], nil
}

func (f fakeVessels) IsActive(_ context.Context, id domain.VesselID) (bool, error) {
	return f.active[id], nil
}

type QuotaServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	vessels fakeVessels
	service *Service
}

func TestQuotaServiceSuite(t *testing.T) {
	suite.Run(t, new(QuotaServiceSuite))
}

func (s *QuotaServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.vessels = fakeVessels{
		owners: map[domain.VesselID]domain.Principal{1: "owner-1"},
		active: map[domain.VesselID]bool{1: true},
	}

	var err error
	s.service, err = New(s.store, fakeRoles{admin: adminPrincipal}, s.vessels)
	s.Require().NoError(err)
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *QuotaServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, fakeRoles{}, s.vessels)
		s.Error(err)
		s.Contains(err.Error(), "quota store is required")
	})

	s.Run("nil role directory returns error", func() {
		_, err := New(s.store, nil, s.vessels)
		s.Error(err)
		s.Contains(err.Error(), "role directory is required")
	})

	s.Run("nil vessel directory returns error", func() {
		_, err := New(s.store, fakeRoles{}, nil)
		s.Error(err)
		s.Contains(err.Error(), "vessel directory is required")
	})
}

// =============================================================================
// Allocate Tests
// =============================================================================

func (s *QuotaServiceSuite) TestAllocate() {
	ctx := context.Background()

	s.Run("non-admin caller is rejected", func() {
		err := s.service.Allocate(ctx, 1, "cod", 1000, 1000, "owner-1", 100)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown vessel is rejected", func() {
		err := s.service.Allocate(ctx, 99, "cod", 1000, 1000, adminPrincipal, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("inactive vessel is rejected", func() {
		s.vessels.owners[2] = "owner-2"
		s.vessels.active[2] = false
		err := s.service.Allocate(ctx, 2, "cod", 1000, 1000, adminPrincipal, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("allocation writes a fresh record with expiry now+offset", func() {
		err := s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100)
		s.NoError(err)

		q, err := s.service.Details(ctx, 1, "cod")
		s.NoError(err)
		s.Require().NotNil(q)
		s.Equal(domain.Amount(1000), q.Allocated)
		s.Equal(domain.Amount(0), q.Used)
		s.Equal(domain.Epoch(1100), q.Expiry)
	})

	s.Run("re-allocation replaces and resets used", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))
		s.Require().NoError(s.service.ValidateAndConsume(ctx, 1, "cod", 400, 150))

		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 500, 200, adminPrincipal, 300))

		q, err := s.service.Details(ctx, 1, "cod")
		s.NoError(err)
		s.Require().NotNil(q)
		s.Equal(domain.Amount(500), q.Allocated)
		s.Equal(domain.Amount(0), q.Used)
		s.Equal(domain.Epoch(500), q.Expiry)
	})
}

// =============================================================================
// ValidateAndConsume Tests
// =============================================================================
// Justification: this is the single mutation path behind catch reporting;
// every rejection must leave the record untouched.

func (s *QuotaServiceSuite) TestValidateAndConsume() {
	ctx := context.Background()

	s.Run("missing quota returns not found", func() {
		err := s.service.ValidateAndConsume(ctx, 1, "haddock", 10, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("consume within allocation decrements remaining", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))

		s.NoError(s.service.ValidateAndConsume(ctx, 1, "cod", 300, 150))

		remaining, ok, err := s.service.Remaining(ctx, 1, "cod", 150)
		s.NoError(err)
		s.True(ok)
		s.Equal(domain.Amount(700), remaining)
	})

	s.Run("over-consumption conflicts and leaves the record untouched", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))
		s.Require().NoError(s.service.ValidateAndConsume(ctx, 1, "cod", 300, 150))

		err := s.service.ValidateAndConsume(ctx, 1, "cod", 800, 200)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		remaining, ok, err := s.service.Remaining(ctx, 1, "cod", 200)
		s.NoError(err)
		s.True(ok)
		s.Equal(domain.Amount(700), remaining)
	})

	s.Run("consume at the expiry epoch is expired", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))

		err := s.service.ValidateAndConsume(ctx, 1, "cod", 1, 1100)
		s.True(dErrors.HasCode(err, dErrors.CodeExpired))
	})

	s.Run("consume one epoch before expiry succeeds", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))
		s.NoError(s.service.ValidateAndConsume(ctx, 1, "cod", 1, 1099))
	})

	s.Run("overflowing amount conflicts and leaves the record untouched", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))
		s.Require().NoError(s.service.ValidateAndConsume(ctx, 1, "cod", 300, 150))

		// Chosen so used+amount wraps past zero under uint64 addition.
		err := s.service.ValidateAndConsume(ctx, 1, "cod", domain.Amount(math.MaxUint64)-299, 200)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		remaining, ok, err := s.service.Remaining(ctx, 1, "cod", 200)
		s.NoError(err)
		s.True(ok)
		s.Equal(domain.Amount(700), remaining)
	})

	s.Run("exact exhaustion is allowed", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))
		s.NoError(s.service.ValidateAndConsume(ctx, 1, "cod", 1000, 150))

		remaining, ok, err := s.service.Remaining(ctx, 1, "cod", 150)
		s.NoError(err)
		s.True(ok)
		s.Equal(domain.Amount(0), remaining)
	})
}

// =============================================================================
// Remaining / IsValid Tests
// =============================================================================

func (s *QuotaServiceSuite) TestRemaining() {
	ctx := context.Background()

	s.Run("unknown key reports not ok", func() {
		_, ok, err := s.service.Remaining(ctx, 1, "pollock", 100)
		s.NoError(err)
		s.False(ok)
	})

	s.Run("expired quota reports not ok", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))

		_, ok, err := s.service.Remaining(ctx, 1, "cod", 1100)
		s.NoError(err)
		s.False(ok)
	})
}

func (s *QuotaServiceSuite) TestIsValid() {
	ctx := context.Background()

	s.Run("mirrors consume guards without mutating", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))

		valid, err := s.service.IsValid(ctx, 1, "cod", 1000, 150)
		s.NoError(err)
		s.True(valid)

		valid, err = s.service.IsValid(ctx, 1, "cod", 1001, 150)
		s.NoError(err)
		s.False(valid)

		valid, err = s.service.IsValid(ctx, 1, "cod", 1, 1100)
		s.NoError(err)
		s.False(valid)

		remaining, ok, err := s.service.Remaining(ctx, 1, "cod", 150)
		s.NoError(err)
		s.True(ok)
		s.Equal(domain.Amount(1000), remaining)
	})

	s.Run("unknown key is invalid", func() {
		valid, err := s.service.IsValid(ctx, 1, "tuna", 1, 100)
		s.NoError(err)
		s.False(valid)
	})

	s.Run("overflowing amount is invalid", func() {
		s.Require().NoError(s.service.Allocate(ctx, 1, "cod", 1000, 1000, adminPrincipal, 100))
		s.Require().NoError(s.service.ValidateAndConsume(ctx, 1, "cod", 300, 150))

		valid, err := s.service.IsValid(ctx, 1, "cod", domain.Amount(math.MaxUint64)-299, 200)
		s.NoError(err)
		s.False(valid)
	})
}
