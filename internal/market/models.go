// Package market is the market certifier: it issues time-bounded
// certifications for verified catches and owns the blacklist consulted by
// the vessel registry.
package market

import "fairchain/pkg/domain"

// Certification marks a catch as market-eligible until Expiry. Validity is
// recomputed on every read (now < Expiry), never stored as a boolean.
// Re-certification overwrites the record.
type Certification struct {
	CatchID   domain.CatchID
	IssuedAt  domain.Epoch
	Expiry    domain.Epoch
	Authority domain.Principal
}

// Valid reports whether the certification still holds at now.
func (c Certification) Valid(now domain.Epoch) bool {
	return now < c.Expiry
}

// BlacklistEntry bars an entity from future participation. Presence alone is
// the gate; reason and epoch are for the audit trail.
type BlacklistEntry struct {
	Entity        domain.Principal
	Reason        string
	BlacklistedAt domain.Epoch
}
