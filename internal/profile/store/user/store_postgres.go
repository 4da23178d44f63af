package user

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nootkan/required-fields-manager/internal/profile"
	"github.com/nootkan/required-fields-manager/pkg/platform/sentinel"
)

// PostgresStore reaches the host's user table through pgx.
//
// Expected schema (the relevant columns of the host's t_user):
//
//	CREATE TABLE t_user (
//	    pk_i_id        BIGINT PRIMARY KEY,
//	    s_address      TEXT NOT NULL DEFAULT '',
//	    s_city         TEXT NOT NULL DEFAULT '',
//	    s_city_area    TEXT NOT NULL DEFAULT '',
//	    s_country      TEXT NOT NULL DEFAULT '',
//	    s_phone_mobile TEXT NOT NULL DEFAULT '',
//	    s_region       TEXT NOT NULL DEFAULT '',
//	    s_zip          TEXT NOT NULL DEFAULT ''
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a pgx-backed user store. A nil pool yields a store
// that reports itself unusable, which the adapter filters at construction.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Name() string { return "postgres-user" }

func (s *PostgresStore) Usable() bool { return s.pool != nil }

func (s *PostgresStore) UpdateFields(ctx context.Context, userID int64, fields map[profile.Column]string) error {
	if len(fields) == 0 {
		return nil
	}

	// Column names come from the closed profile.Column set, validated by the
	// adapter; values travel as bind parameters. Sorted for a stable query.
	columns := make([]string, 0, len(fields))
	for col := range fields {
		columns = append(columns, string(col))
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, col := range columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, fields[profile.Column(col)])
	}
	args = append(args, userID)

	query := fmt.Sprintf("UPDATE t_user SET %s WHERE pk_i_id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Field(ctx context.Context, userID int64, column profile.Column) (string, error) {
	query := fmt.Sprintf("SELECT %s FROM t_user WHERE pk_i_id = $1", string(column))

	var value string
	err := s.pool.QueryRow(ctx, query, userID).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read user field %s: %w", column, err)
	}
	return value, nil
}
