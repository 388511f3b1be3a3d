package quota

import (
	"context"

	"fairchain/pkg/domain"
)

// Store persists quota records. Consume is the single atomic step that the
// no-double-spend invariant rests on: all three guards and the mutation
// happen under one lock (memory) or one statement (Postgres), with no
// partial mutation on any failure path.
type Store interface {
	// Put replaces the record for q.Key wholesale.
	Put(ctx context.Context, q Quota) error
	// Get returns (nil, nil) for an unknown key.
	Get(ctx context.Context, key domain.QuotaKey) (*Quota, error)
	// Consume validates and consumes in one step. Returns
	// sentinel.ErrNotFound (no record), sentinel.ErrExpired (now >= expiry),
	// or sentinel.ErrInsufficient (used+amount > allocated).
	Consume(ctx context.Context, key domain.QuotaKey, amount domain.Amount, now domain.Epoch) error
}
