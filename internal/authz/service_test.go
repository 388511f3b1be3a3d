package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
)

const adminPrincipal = domain.Principal("admin")

type AuthzServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
}

func TestAuthzServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthzServiceSuite))
}

func (s *AuthzServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()

	var err error
	s.service, err = New(s.store, adminPrincipal)
	s.Require().NoError(err)
}

func (s *AuthzServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil, adminPrincipal)
		s.Error(err)
		s.Contains(err.Error(), "authz store is required")
	})

	s.Run("empty administrator returns error", func() {
		_, err := New(s.store, "")
		s.Error(err)
		s.Contains(err.Error(), "administrator principal is required")
	})
}

func (s *AuthzServiceSuite) TestIsAdmin() {
	s.True(s.service.IsAdmin(adminPrincipal))
	s.False(s.service.IsAdmin("owner-1"))
	s.False(s.service.IsAdmin(""))
}

func (s *AuthzServiceSuite) TestGrants() {
	ctx := context.Background()

	s.Run("non-admin may not grant", func() {
		err := s.service.AddVerifier(ctx, "inspector", "owner-1", 100)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		ok, err := s.service.IsVerifier(ctx, "inspector")
		s.NoError(err)
		s.False(ok)
	})

	s.Run("empty principal is invalid input", func() {
		err := s.service.AddCertifier(ctx, "", adminPrincipal, 100)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("roles are independent sets", func() {
		s.Require().NoError(s.service.AddVerifier(ctx, "inspector", adminPrincipal, 100))
		s.Require().NoError(s.service.AddCertifier(ctx, "authority", adminPrincipal, 100))

		ok, err := s.service.IsVerifier(ctx, "inspector")
		s.NoError(err)
		s.True(ok)

		ok, err = s.service.IsCertifier(ctx, "inspector")
		s.NoError(err)
		s.False(ok)

		ok, err = s.service.IsCertifier(ctx, "authority")
		s.NoError(err)
		s.True(ok)
	})

	s.Run("one principal may hold both roles", func() {
		s.Require().NoError(s.service.AddVerifier(ctx, "dual", adminPrincipal, 100))
		s.Require().NoError(s.service.AddCertifier(ctx, "dual", adminPrincipal, 100))

		ok, err := s.service.IsVerifier(ctx, "dual")
		s.NoError(err)
		s.True(ok)

		ok, err = s.service.IsCertifier(ctx, "dual")
		s.NoError(err)
		s.True(ok)
	})

	s.Run("granting twice is a no-op success", func() {
		s.Require().NoError(s.service.AddVerifier(ctx, "inspector", adminPrincipal, 100))
		s.NoError(s.service.AddVerifier(ctx, "inspector", adminPrincipal, 101))
	})

	s.Run("empty principal never holds a role", func() {
		ok, err := s.service.IsVerifier(ctx, "")
		s.NoError(err)
		s.False(ok)
	})
}
