package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairchain/pkg/domain"
)

// PostgresStore persists role membership in the role_members table
// (scripts/schema.sql).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Grant(ctx context.Context, role Role, principal domain.Principal) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO role_members (role, principal) VALUES ($1, $2)
		 ON CONFLICT (role, principal) DO NOTHING`,
		string(role), principal.String(),
	)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

func (s *PostgresStore) Has(ctx context.Context, role Role, principal domain.Principal) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx,
		`SELECT 1 FROM role_members WHERE role = $1 AND principal = $2`,
		string(role), principal.String(),
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query role membership: %w", err)
	}
	return true, nil
}
