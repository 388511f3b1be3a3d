// Package vessel is the vessel registry: identity, ownership, and
// active/inactive status. Registration is gated on the market blacklist.
package vessel

import "fairchain/pkg/domain"

// Vessel is a registered fishing vessel. Records are never deleted; only
// Active is mutable, and only by the owner.
type Vessel struct {
	ID           domain.VesselID
	Owner        domain.Principal
	Name         string
	Type         string
	RegisteredAt domain.Epoch
	Active       bool
}
