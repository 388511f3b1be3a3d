package vessel

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairchain/pkg/domain"
	"fairchain/pkg/platform/sentinel"
)

// PostgresStore persists vessels in the vessels table (scripts/schema.sql).
// The BIGSERIAL primary key provides the monotonic, never-reused id.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, v Vessel) (domain.VesselID, error) {
	var id uint64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO vessels (owner_principal, name, vessel_type, registered_at, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		v.Owner.String(), v.Name, v.Type, int64(v.RegisteredAt), v.Active,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create vessel: %w", err)
	}
	return domain.VesselID(id), nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.VesselID) (*Vessel, error) {
	var (
		v            Vessel
		registeredAt int64
		owner        string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_principal, name, vessel_type, registered_at, active
		 FROM vessels WHERE id = $1`,
		uint64(id),
	).Scan(&v.ID, &owner, &v.Name, &v.Type, &registeredAt, &v.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vessel: %w", err)
	}
	v.Owner = domain.Principal(owner)
	v.RegisteredAt = domain.Epoch(registeredAt)
	return &v, nil
}

func (s *PostgresStore) SetActive(ctx context.Context, id domain.VesselID, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE vessels SET active = $2 WHERE id = $1`,
		uint64(id), active,
	)
	if err != nil {
		return fmt.Errorf("set vessel active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
