// Package catchlog is the catch register. Reporting a catch is the one
// operation that spans three registries: ownership and activity come from the
// vessel registry, coverage comes from the quota ledger, and only then is the
// record created.
package catchlog

import "fairchain/pkg/domain"

// Catch is one reported catch. Records are immutable except for Verified,
// which flips false to true exactly once.
//
// State machine: Reported --verify(authorized)--> Verified. No transition
// out of Verified and no deletion.
type Catch struct {
	ID         domain.CatchID
	Vessel     domain.VesselID
	Species    domain.Species
	Amount     domain.Amount
	Location   Location
	ReportedAt domain.Epoch
	Verified   bool
}

// Location is a catch position in microdegrees (degrees scaled by 1e6),
// kept integral so records stay value-comparable.
type Location struct {
	Lat  int64
	Long int64
}
