// Package domain holds the typed identities shared by every registry.
//
// Identities are opaque comparable tokens: the core never inspects or
// cryptographically verifies them, it only compares them. Logical time is an
// externally supplied monotonic counter; the core reads it, never advances it.
package domain

import (
	"fmt"
	"math"
	"strconv"

	dErrors "fairchain/pkg/domain-errors"
)

// Principal identifies a caller (vessel owner, verifier, certifier,
// administrator). Authenticity is established by the hosting environment
// before a principal reaches the core.
type Principal string

// IsZero reports whether the principal is unset.
func (p Principal) IsZero() bool { return p == "" }

func (p Principal) String() string { return string(p) }

// VesselID is a dense monotonic identifier assigned by the vessel registry.
// IDs are never reused.
type VesselID uint64

func (v VesselID) String() string { return strconv.FormatUint(uint64(v), 10) }

// CatchID is a dense monotonic identifier assigned by the catch register.
type CatchID uint64

func (c CatchID) String() string { return strconv.FormatUint(uint64(c), 10) }

// Species names the caught species, e.g. "Tuna". Compared verbatim.
type Species string

// Amount is a non-negative quantity of quota or catch, in the unit the
// allocating authority uses (the core does not interpret units).
type Amount uint64

// Epoch is the logical time counter supplied by the environment on every
// call. It is monotonically non-decreasing across calls and stands in for
// wall-clock time in every expiry comparison.
type Epoch uint64

// Add returns the epoch advanced by offset, for computing expiries. The sum
// saturates at MaxUint64 so an oversized offset yields the farthest future
// expiry rather than wrapping into the past.
func (e Epoch) Add(offset uint64) Epoch {
	if offset > math.MaxUint64-uint64(e) {
		return Epoch(math.MaxUint64)
	}
	return e + Epoch(offset)
}

// QuotaKey identifies one allocation record. Structural equality makes it
// usable directly as a map key.
type QuotaKey struct {
	Vessel  VesselID
	Species Species
}

func (k QuotaKey) String() string {
	return fmt.Sprintf("%d/%s", k.Vessel, k.Species)
}

// ParseVesselID parses a vessel id from its decimal string form, as it
// arrives on the wire. Zero is not a valid id: assignment starts at one.
func ParseVesselID(s string) (VesselID, error) {
	n, err := parseID(s, "vessel id")
	return VesselID(n), err
}

// ParseCatchID parses a catch id from its decimal string form.
func ParseCatchID(s string) (CatchID, error) {
	n, err := parseID(s, "catch id")
	return CatchID(n), err
}

func parseID(s, what string) (uint64, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+what)
	}
	if n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, what+" must be positive")
	}
	return n, nil
}
