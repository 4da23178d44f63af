package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nootkan/required-fields-manager/internal/policy"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// prefSection namespaces this service's rows inside the host's shared
// preference table.
const prefSection = "required_fields_manager"

// PostgresStore persists policy flags in the host's preference table.
//
// Expected schema:
//
//	CREATE TABLE t_preference (
//	    s_section TEXT NOT NULL,
//	    s_name    TEXT NOT NULL,
//	    s_value   TEXT NOT NULL,
//	    PRIMARY KEY (s_section, s_name)
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed preference store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key policy.Key) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT s_value FROM t_preference WHERE s_section = $1 AND s_name = $2`,
		prefSection, string(key),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key policy.Key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO t_preference (s_section, s_name, s_value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (s_section, s_name) DO UPDATE SET s_value = EXCLUDED.s_value`,
		prefSection, string(key), value,
	)
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key policy.Key) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM t_preference WHERE s_section = $1 AND s_name = $2`,
		prefSection, string(key),
	)
	if err != nil {
		return fmt.Errorf("delete preference %s: %w", key, err)
	}
	return nil
}
