//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors the host tables this service touches: the shared preference
// table, the user table columns we update, and the user meta table.
const schema = `
CREATE TABLE IF NOT EXISTS t_preference (
    s_section TEXT NOT NULL,
    s_name    TEXT NOT NULL,
    s_value   TEXT NOT NULL,
    PRIMARY KEY (s_section, s_name)
);

CREATE TABLE IF NOT EXISTS t_user (
    pk_i_id        BIGINT PRIMARY KEY,
    s_address      TEXT NOT NULL DEFAULT '',
    s_city         TEXT NOT NULL DEFAULT '',
    s_city_area    TEXT NOT NULL DEFAULT '',
    s_country      TEXT NOT NULL DEFAULT '',
    s_phone_mobile TEXT NOT NULL DEFAULT '',
    s_region       TEXT NOT NULL DEFAULT '',
    s_zip          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS t_user_meta (
    fk_i_user_id BIGINT NOT NULL,
    s_name       TEXT NOT NULL,
    s_value      TEXT NOT NULL,
    PRIMARY KEY (fk_i_user_id, s_name)
);
`

// PostgresContainer wraps a testcontainers Postgres instance with both
// database handles the stores use.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("rfm_test"),
		tcpostgres.WithUsername("rfm"),
		tcpostgres.WithPassword("rfm"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to create pgx pool: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		pool.Close()
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// No t.Cleanup: the container is shared through the Manager and Ryuk
	// handles teardown.
	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
		Pool:      pool,
	}
}

// TruncateTables clears the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx,
		fmt.Sprintf("TRUNCATE TABLE %s", strings.Join(tables, ", ")))
	return err
}
