package quota

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairchain/pkg/domain"
	"fairchain/pkg/platform/sentinel"
)

// PostgresStore persists quota records in the quotas table
// (scripts/schema.sql). Consume runs as a single conditional UPDATE so the
// guards and the mutation commit together; when it matches no row, a
// follow-up read distinguishes which guard failed.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Put(ctx context.Context, q Quota) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO quotas (vessel_id, species, allocated, used, expiry)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (vessel_id, species)
		 DO UPDATE SET allocated = $3, used = $4, expiry = $5`,
		uint64(q.Key.Vessel), string(q.Key.Species), uint64(q.Allocated), uint64(q.Used), int64(q.Expiry),
	)
	if err != nil {
		return fmt.Errorf("put quota: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key domain.QuotaKey) (*Quota, error) {
	var (
		allocated, used uint64
		expiry          int64
	)
	err := s.pool.QueryRow(ctx,
		`SELECT allocated, used, expiry FROM quotas WHERE vessel_id = $1 AND species = $2`,
		uint64(key.Vessel), string(key.Species),
	).Scan(&allocated, &used, &expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quota: %w", err)
	}
	return &Quota{
		Key:       key,
		Allocated: domain.Amount(allocated),
		Used:      domain.Amount(used),
		Expiry:    domain.Epoch(expiry),
	}, nil
}

func (s *PostgresStore) Consume(ctx context.Context, key domain.QuotaKey, amount domain.Amount, now domain.Epoch) error {
	// BIGINT caps allocations at MaxInt64; anything larger can never fit the
	// remaining budget, and would fail parameter encoding instead of the
	// guard.
	if amount > math.MaxInt64 {
		return s.failedGuard(ctx, key, now)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE quotas SET used = used + $3
		 WHERE vessel_id = $1 AND species = $2
		   AND expiry > $4
		   AND $3 <= allocated - used`,
		uint64(key.Vessel), string(key.Species), uint64(amount), int64(now),
	)
	if err != nil {
		return fmt.Errorf("consume quota: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return s.failedGuard(ctx, key, now)
}

// failedGuard reads the record back to name the guard a refused consume hit.
func (s *PostgresStore) failedGuard(ctx context.Context, key domain.QuotaKey, now domain.Epoch) error {
	q, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	switch {
	case q == nil:
		return sentinel.ErrNotFound
	case q.Expired(now):
		return sentinel.ErrExpired
	default:
		return sentinel.ErrInsufficient
	}
}
