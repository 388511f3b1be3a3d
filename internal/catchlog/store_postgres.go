package catchlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairchain/pkg/domain"
	"fairchain/pkg/platform/sentinel"
)

// PostgresStore persists catches in the catches table (scripts/schema.sql).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, c Catch) (domain.CatchID, error) {
	var id uint64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO catches (vessel_id, species, amount, lat, long, reported_at, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		uint64(c.Vessel), string(c.Species), uint64(c.Amount),
		c.Location.Lat, c.Location.Long, int64(c.ReportedAt), c.Verified,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create catch: %w", err)
	}
	return domain.CatchID(id), nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.CatchID) (*Catch, error) {
	var (
		c          Catch
		amount     uint64
		reportedAt int64
		species    string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, vessel_id, species, amount, lat, long, reported_at, verified
		 FROM catches WHERE id = $1`,
		uint64(id),
	).Scan(&c.ID, &c.Vessel, &species, &amount, &c.Location.Lat, &c.Location.Long, &reportedAt, &c.Verified)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find catch: %w", err)
	}
	c.Species = domain.Species(species)
	c.Amount = domain.Amount(amount)
	c.ReportedAt = domain.Epoch(reportedAt)
	return &c, nil
}

func (s *PostgresStore) MarkVerified(ctx context.Context, id domain.CatchID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE catches SET verified = TRUE WHERE id = $1`,
		uint64(id),
	)
	if err != nil {
		return fmt.Errorf("mark catch verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
