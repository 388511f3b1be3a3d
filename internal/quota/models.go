// Package quota is the quota ledger: per-(vessel, species) allocation and
// consumption counters with expiry.
package quota

import "fairchain/pkg/domain"

// Quota is one allocation record. Invariant: Used <= Allocated at all times.
// Allocation replaces the record wholesale and resets Used to zero.
type Quota struct {
	Key       domain.QuotaKey
	Allocated domain.Amount
	Used      domain.Amount
	Expiry    domain.Epoch
}

// Remaining returns the unconsumed amount.
func (q Quota) Remaining() domain.Amount {
	return q.Allocated - q.Used
}

// Expired reports whether the record's validity window has elapsed at now.
// Expiry is exclusive: a quota expiring at 1100 is spent at 1100, not 1099.
func (q Quota) Expired(now domain.Epoch) bool {
	return now >= q.Expiry
}
