package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairchain/pkg/domain"
)

// PostgresCertificationStore persists certifications in the certifications
// table (scripts/schema.sql).
type PostgresCertificationStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCertificationStore(pool *pgxpool.Pool) *PostgresCertificationStore {
	return &PostgresCertificationStore{pool: pool}
}

func (s *PostgresCertificationStore) Put(ctx context.Context, cert Certification) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO certifications (catch_id, issued_at, expiry, authority)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (catch_id)
		 DO UPDATE SET issued_at = $2, expiry = $3, authority = $4`,
		uint64(cert.CatchID), int64(cert.IssuedAt), int64(cert.Expiry), cert.Authority.String(),
	)
	if err != nil {
		return fmt.Errorf("put certification: %w", err)
	}
	return nil
}

func (s *PostgresCertificationStore) Get(ctx context.Context, catchID domain.CatchID) (*Certification, error) {
	var (
		issuedAt, expiry int64
		authority        string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT issued_at, expiry, authority FROM certifications WHERE catch_id = $1`,
		uint64(catchID),
	).Scan(&issuedAt, &expiry, &authority)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get certification: %w", err)
	}
	return &Certification{
		CatchID:   catchID,
		IssuedAt:  domain.Epoch(issuedAt),
		Expiry:    domain.Epoch(expiry),
		Authority: domain.Principal(authority),
	}, nil
}

// PostgresBlacklistStore persists the deny-list in the blacklist table.
type PostgresBlacklistStore struct {
	pool *pgxpool.Pool
}

func NewPostgresBlacklistStore(pool *pgxpool.Pool) *PostgresBlacklistStore {
	return &PostgresBlacklistStore{pool: pool}
}

func (s *PostgresBlacklistStore) Add(ctx context.Context, entry BlacklistEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO blacklist (entity, reason, blacklisted_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (entity)
		 DO UPDATE SET reason = $2, blacklisted_at = $3`,
		entry.Entity.String(), entry.Reason, int64(entry.BlacklistedAt),
	)
	if err != nil {
		return fmt.Errorf("add blacklist entry: %w", err)
	}
	return nil
}

func (s *PostgresBlacklistStore) Remove(ctx context.Context, entity domain.Principal) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM blacklist WHERE entity = $1`, entity.String())
	if err != nil {
		return fmt.Errorf("remove blacklist entry: %w", err)
	}
	return nil
}

func (s *PostgresBlacklistStore) Find(ctx context.Context, entity domain.Principal) (*BlacklistEntry, error) {
	var (
		reason        string
		blacklistedAt int64
	)
	err := s.pool.QueryRow(ctx,
		`SELECT reason, blacklisted_at FROM blacklist WHERE entity = $1`,
		entity.String(),
	).Scan(&reason, &blacklistedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blacklist entry: %w", err)
	}
	return &BlacklistEntry{
		Entity:        entity,
		Reason:        reason,
		BlacklistedAt: domain.Epoch(blacklistedAt),
	}, nil
}
