package httptransport_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fairchain/internal/audit"
	"fairchain/internal/authz"
	"fairchain/internal/catchlog"
	"fairchain/internal/identity"
	"fairchain/internal/ledger"
	"fairchain/internal/market"
	"fairchain/internal/platform/metrics"
	"fairchain/internal/quota"
	httptransport "fairchain/internal/transport/http"
	"fairchain/internal/vessel"
	"fairchain/pkg/domain"
)

// RouterSuite drives the assembled HTTP surface end to end over in-memory
// stores, checking the numeric result contract at the boundary.
type RouterSuite struct {
	suite.Suite
	router http.Handler
	tokens *identity.Service
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	trail := audit.NewInMemoryStore()
	publisher := audit.NewPublisher([]audit.Sink{trail})

	roles, err := authz.New(authz.NewInMemoryStore(), "admin", authz.WithAudit(publisher))
	s.Require().NoError(err)
	blacklist, err := market.NewBlacklist(market.NewInMemoryBlacklistStore(), roles, market.WithBlacklistAudit(publisher))
	s.Require().NoError(err)
	vessels, err := vessel.New(vessel.NewInMemoryStore(), blacklist, vessel.WithAudit(publisher))
	s.Require().NoError(err)
	quotas, err := quota.New(quota.NewInMemoryStore(), roles, vessels, quota.WithAudit(publisher))
	s.Require().NoError(err)
	catches, err := catchlog.New(catchlog.NewInMemoryStore(), vessels, quotas, roles, catchlog.WithAudit(publisher))
	s.Require().NoError(err)
	certifier, err := market.NewCertifier(market.NewInMemoryCertificationStore(), roles, catches, market.WithCertifierAudit(publisher))
	s.Require().NoError(err)

	core := ledger.New(vessels, quotas, catches, certifier, blacklist, roles)
	s.tokens = identity.New("test-signing-key")

	handler := httptransport.NewHandler(core, trail, metrics.New(), logger)
	s.router = httptransport.NewRouter(handler, s.tokens)
}

// do issues a request as the named principal at the given logical epoch.
func (s *RouterSuite) do(method, path string, principal domain.Principal, epoch uint64, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Epoch", strconv.FormatUint(epoch, 10))
	if !principal.IsZero() {
		token, err := s.tokens.Issue(principal, time.Hour)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func (s *RouterSuite) TestAuthRequired() {
	rec := s.do(http.MethodPost, "/vessels", "", 100, map[string]string{"name": "Selkie"})
	s.Equal(http.StatusUnauthorized, rec.Code)

	body := decodeBody[map[string]string](s.T(), rec)
	s.Equal("UNAUTHORIZED", body["error"])
}

func (s *RouterSuite) TestHealthIsOpen() {
	rec := s.do(http.MethodGet, "/healthz", "", 100, nil)
	s.Equal(http.StatusOK, rec.Code)
}

// TestCatchLifecycle walks the full flow through the HTTP surface.
func (s *RouterSuite) TestCatchLifecycle() {
	rec := s.do(http.MethodPost, "/roles/verifiers", "admin", 1, map[string]string{"principal": "inspector"})
	s.Require().Equal(http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/roles/certifiers", "admin", 1, map[string]string{"principal": "authority"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/vessels", "owner-1", 50, map[string]string{"name": "Selkie", "type": "trawler"})
	s.Require().Equal(http.StatusCreated, rec.Code)
	created := decodeBody[map[string]uint64](s.T(), rec)
	vesselID := created["vessel_id"]
	s.Require().NotZero(vesselID)
	vesselPath := strconv.FormatUint(vesselID, 10)

	rec = s.do(http.MethodPost, "/quotas", "admin", 100, map[string]any{
		"vessel_id": vesselID, "species": "cod", "amount": 1000, "expiry_offset": 1000,
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/catches", "owner-1", 150, map[string]any{
		"vessel_id": vesselID, "species": "cod", "amount": 300, "lat": 40000000, "long": -70000000,
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	reported := decodeBody[map[string]uint64](s.T(), rec)
	catchID := reported["catch_id"]
	s.Require().NotZero(catchID)
	catchPath := strconv.FormatUint(catchID, 10)

	rec = s.do(http.MethodGet, "/quotas/"+vesselPath+"/cod", "owner-1", 150, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	q := decodeBody[map[string]any](s.T(), rec)
	s.Equal(float64(700), q["remaining"])

	// Over-quota report is a conflict and does not consume.
	rec = s.do(http.MethodPost, "/catches", "owner-1", 150, map[string]any{
		"vessel_id": vesselID, "species": "cod", "amount": 800,
	})
	s.Equal(http.StatusConflict, rec.Code)

	// An amount big enough to wrap used+amount is a conflict too, and must
	// not move the remaining budget.
	rec = s.do(http.MethodPost, "/catches", "owner-1", 150, map[string]any{
		"vessel_id": vesselID, "species": "cod", "amount": uint64(math.MaxUint64) - 299,
	})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/quotas/"+vesselPath+"/cod", "owner-1", 150, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	q = decodeBody[map[string]any](s.T(), rec)
	s.Equal(float64(700), q["remaining"])

	// Certification before verification is refused.
	rec = s.do(http.MethodPost, "/catches/"+catchPath+"/certification", "authority", 200, map[string]any{"expiry_offset": 500})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/catches/"+catchPath+"/verify", "inspector", 160, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/catches/"+catchPath+"/certification", "authority", 200, map[string]any{"expiry_offset": 500})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/catches/"+catchPath+"/certification", "owner-1", 400, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	cert := decodeBody[map[string]any](s.T(), rec)
	s.Equal(true, cert["certified"])

	// Validity is recomputed against the epoch of the read.
	rec = s.do(http.MethodGet, "/catches/"+catchPath+"/certification", "owner-1", 700, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	cert = decodeBody[map[string]any](s.T(), rec)
	s.Equal(false, cert["certified"])

	rec = s.do(http.MethodGet, "/catches/"+catchPath, "owner-1", 700, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	c := decodeBody[map[string]any](s.T(), rec)
	s.Equal(true, c["verified"])
	s.Equal(float64(40000000), c["lat"])
}

func (s *RouterSuite) TestBlacklistGatesRegistration() {
	rec := s.do(http.MethodPost, "/blacklist", "admin", 100, map[string]string{"entity": "shady", "reason": "fraud"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/vessels", "shady", 101, map[string]string{"name": "Ghost"})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/blacklist/shady", "admin", 102, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	entry := decodeBody[map[string]any](s.T(), rec)
	s.Equal(true, entry["blacklisted"])
	s.Equal("fraud", entry["reason"])

	rec = s.do(http.MethodDelete, "/blacklist/shady", "admin", 103, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/vessels", "shady", 104, map[string]string{"name": "Ghost"})
	s.Equal(http.StatusCreated, rec.Code)
}

func (s *RouterSuite) TestErrorContract() {
	s.Run("unknown catch is 404", func() {
		rec := s.do(http.MethodGet, "/catches/999", "owner-1", 100, nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("malformed id is 400", func() {
		rec := s.do(http.MethodGet, "/catches/not-a-number", "owner-1", 100, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown body field is 400", func() {
		rec := s.do(http.MethodPost, "/vessels", "owner-1", 100, map[string]string{"name": "Selkie", "surprise": "field"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("non-admin allocation is 401", func() {
		rec := s.do(http.MethodPost, "/vessels", "owner-1", 100, map[string]string{"name": "Selkie"})
		s.Require().Equal(http.StatusCreated, rec.Code)
		created := decodeBody[map[string]uint64](s.T(), rec)

		rec = s.do(http.MethodPost, "/quotas", "owner-1", 100, map[string]any{
			"vessel_id": created["vessel_id"], "species": "cod", "amount": 100, "expiry_offset": 100,
		})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

func (s *RouterSuite) TestAuditTrailIsAdminOnly() {
	rec := s.do(http.MethodPost, "/vessels", "owner-1", 50, map[string]string{"name": "Selkie"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/audit", "owner-1", 60, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/audit", "admin", 60, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	events := decodeBody[[]map[string]any](s.T(), rec)
	s.Require().NotEmpty(events)
	s.Equal("vessel_registered", events[0]["action"])
}
