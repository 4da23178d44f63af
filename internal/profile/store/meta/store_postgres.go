package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// PostgresStore persists attributes in the host's user meta table.
//
// Expected schema:
//
//	CREATE TABLE t_user_meta (
//	    fk_i_user_id BIGINT NOT NULL,
//	    s_name       TEXT NOT NULL,
//	    s_value      TEXT NOT NULL,
//	    PRIMARY KEY (fk_i_user_id, s_name)
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed meta store. A nil handle yields
// a store that reports itself unusable.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Name() string { return "postgres-meta" }

func (s *PostgresStore) Usable() bool { return s.db != nil }

func (s *PostgresStore) Upsert(ctx context.Context, userID int64, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO t_user_meta (fk_i_user_id, s_name, s_value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (fk_i_user_id, s_name) DO UPDATE SET s_value = EXCLUDED.s_value`,
		userID, name, value,
	)
	if err != nil {
		return fmt.Errorf("upsert user meta %s: %w", name, err)
	}
	return nil
}

func (s *PostgresStore) Value(ctx context.Context, userID int64, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT s_value FROM t_user_meta WHERE fk_i_user_id = $1 AND s_name = $2`,
		userID, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read user meta %s: %w", name, err)
	}
	return value, nil
}
