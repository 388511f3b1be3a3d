//go:build integration

package containers

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema mirrors scripts/schema.sql so integration suites start from the
// production table shapes without a filesystem dependency on the repo layout.
const schema = `
CREATE TABLE IF NOT EXISTS vessels (
    id              BIGSERIAL PRIMARY KEY,
    owner_principal TEXT        NOT NULL,
    name            TEXT        NOT NULL,
    vessel_type     TEXT        NOT NULL,
    registered_at   BIGINT      NOT NULL,
    active          BOOLEAN     NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS quotas (
    vessel_id BIGINT NOT NULL,
    species   TEXT   NOT NULL,
    allocated BIGINT NOT NULL,
    used      BIGINT NOT NULL DEFAULT 0,
    expiry    BIGINT NOT NULL,
    PRIMARY KEY (vessel_id, species),
    CONSTRAINT quotas_used_within_allocated CHECK (used >= 0 AND used <= allocated)
);

CREATE TABLE IF NOT EXISTS catches (
    id          BIGSERIAL PRIMARY KEY,
    vessel_id   BIGINT  NOT NULL,
    species     TEXT    NOT NULL,
    amount      BIGINT  NOT NULL,
    lat         BIGINT  NOT NULL,
    long        BIGINT  NOT NULL,
    reported_at BIGINT  NOT NULL,
    verified    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS certifications (
    catch_id  BIGINT PRIMARY KEY,
    issued_at BIGINT NOT NULL,
    expiry    BIGINT NOT NULL,
    authority TEXT   NOT NULL
);

CREATE TABLE IF NOT EXISTS blacklist (
    entity         TEXT   PRIMARY KEY,
    reason         TEXT   NOT NULL,
    blacklisted_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS role_members (
    role      TEXT NOT NULL,
    principal TEXT NOT NULL,
    PRIMARY KEY (role, principal)
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// applied and a ready pgx pool.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts a Postgres container and applies the schema.
// Ryuk reaps the container after the test process exits.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("fairchain"),
		tcpostgres.WithUsername("fairchain"),
		tcpostgres.WithPassword("fairchain"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, Pool: pool}
}

// TruncateTables clears the named tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.Pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", strings.Join(tables, ", ")))
	return err
}
