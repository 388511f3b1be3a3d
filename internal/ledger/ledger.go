// Package ledger is the explicit context object owning all five registries.
//
// Every external operation enters through one method here and runs under a
// single mutex, so each call behaves as one indivisible transaction against
// the shared state: either all guards pass and all writes commit, or nothing
// changes. The entities are small enough that coarse-grained locking costs
// nothing measurable, and it makes the report pipeline's post-check consume
// failure unreachable by construction.
//
// No operation suspends or spans multiple external calls, so the critical
// sections stay short; there is no background work.
package ledger

import (
	"context"
	"sync"

	"fairchain/internal/authz"
	"fairchain/internal/catchlog"
	"fairchain/internal/market"
	"fairchain/internal/quota"
	"fairchain/internal/vessel"
	"fairchain/pkg/domain"
)

// Ledger serializes every operation of the compliance core.
type Ledger struct {
	mu sync.Mutex

	vessels   *vessel.Service
	quotas    *quota.Service
	catches   *catchlog.Service
	certifier *market.Certifier
	blacklist *market.Blacklist
	roles     *authz.Service
}

func New(
	vessels *vessel.Service,
	quotas *quota.Service,
	catches *catchlog.Service,
	certifier *market.Certifier,
	blacklist *market.Blacklist,
	roles *authz.Service,
) *Ledger {
	return &Ledger{
		vessels:   vessels,
		quotas:    quotas,
		catches:   catches,
		certifier: certifier,
		blacklist: blacklist,
		roles:     roles,
	}
}

// --- VesselRegistry ---

func (l *Ledger) RegisterVessel(ctx context.Context, name, vesselType string, caller domain.Principal, now domain.Epoch) (domain.VesselID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vessels.Register(ctx, name, vesselType, caller, now)
}

func (l *Ledger) SetVesselActive(ctx context.Context, id domain.VesselID, active bool, caller domain.Principal, now domain.Epoch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vessels.SetActive(ctx, id, active, caller, now)
}

func (l *Ledger) VesselDetails(ctx context.Context, id domain.VesselID) (*vessel.Vessel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vessels.Details(ctx, id)
}

// --- QuotaLedger ---

func (l *Ledger) AllocateQuota(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, expiryOffset uint64, caller domain.Principal, now domain.Epoch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quotas.Allocate(ctx, vesselID, species, amount, expiryOffset, caller, now)
}

func (l *Ledger) QuotaRemaining(ctx context.Context, vesselID domain.VesselID, species domain.Species, now domain.Epoch) (domain.Amount, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quotas.Remaining(ctx, vesselID, species, now)
}

func (l *Ledger) QuotaDetails(ctx context.Context, vesselID domain.VesselID, species domain.Species) (*quota.Quota, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quotas.Details(ctx, vesselID, species)
}

// --- CatchRegister ---

func (l *Ledger) ReportCatch(ctx context.Context, vesselID domain.VesselID, species domain.Species, amount domain.Amount, lat, long int64, caller domain.Principal, now domain.Epoch) (domain.CatchID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.catches.Report(ctx, vesselID, species, amount, lat, long, caller, now)
}

func (l *Ledger) VerifyCatch(ctx context.Context, id domain.CatchID, caller domain.Principal, now domain.Epoch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.catches.Verify(ctx, id, caller, now)
}

func (l *Ledger) CatchDetails(ctx context.Context, id domain.CatchID) (*catchlog.Catch, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.catches.Details(ctx, id)
}

// --- MarketCertifier ---

func (l *Ledger) Certify(ctx context.Context, catchID domain.CatchID, expiryOffset uint64, caller domain.Principal, now domain.Epoch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.certifier.Certify(ctx, catchID, expiryOffset, caller, now)
}

func (l *Ledger) IsCertified(ctx context.Context, catchID domain.CatchID, now domain.Epoch) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.certifier.IsCertified(ctx, catchID, now)
}

func (l *Ledger) CertificationOf(ctx context.Context, catchID domain.CatchID) (*market.Certification, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.certifier.CertificationOf(ctx, catchID)
}

// --- Blacklist ---

func (l *Ledger) Blacklist(ctx context.Context, entity domain.Principal, reason string, caller domain.Principal, now domain.Epoch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.blacklist.Blacklist(ctx, entity, reason, caller, now)
}

func (l *Ledger) Unblacklist(ctx context.Context, entity, caller domain.Principal, now domain.Epoch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.blacklist.Unblacklist(ctx, entity, caller, now)
}

func (l *Ledger) BlacklistEntry(ctx context.Context, entity domain.Principal) (*market.BlacklistEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.blacklist.EntryOf(ctx, entity)
}

// --- AuthorizationDirectory ---

func (l *Ledger) AddVerifier(ctx context.Context, principal, caller domain.Principal, now domain.Epoch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.roles.AddVerifier(ctx, principal, caller, now)
}

func (l *Ledger) AddCertifier(ctx context.Context, principal, caller domain.Principal, now domain.Epoch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.roles.AddCertifier(ctx, principal, caller, now)
}

func (l *Ledger) IsAdmin(principal domain.Principal) bool {
	return l.roles.IsAdmin(principal)
}
