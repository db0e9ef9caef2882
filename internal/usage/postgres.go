package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists counters in the usage_records table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Count(ctx context.Context, key Key) (int, error) {
	day, err := parseDay(key.Day)
	if err != nil {
		return 0, fmt.Errorf("parsing usage day: %w", err)
	}

	var count int
	err = s.pool.QueryRow(ctx,
		`SELECT count FROM usage_records WHERE client_id = $1 AND day = $2`,
		key.ClientID, day,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fetching usage count: %w", err)
	}
	return count, nil
}

// IncrementIfBelow relies on the conditional upsert: when count is already at
// limit the WHERE clause suppresses the update and no row is returned.
func (s *PostgresStore) IncrementIfBelow(ctx context.Context, key Key, limit int) (int, bool, error) {
	day, err := parseDay(key.Day)
	if err != nil {
		return 0, false, fmt.Errorf("parsing usage day: %w", err)
	}

	var count int
	err = s.pool.QueryRow(ctx,
		`INSERT INTO usage_records (client_id, day, count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (client_id, day) DO UPDATE
		 SET count = usage_records.count + 1,
		     updated_at = NOW()
		 WHERE usage_records.count < $3
		 RETURNING count`,
		key.ClientID, day, limit,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		current, cerr := s.Count(ctx, key)
		if cerr != nil {
			return 0, false, cerr
		}
		return current, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("incrementing usage: %w", err)
	}
	return count, true, nil
}

func (s *PostgresStore) Sweep(ctx context.Context, today string) (int, error) {
	day, err := parseDay(today)
	if err != nil {
		return 0, fmt.Errorf("parsing usage day: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM usage_records WHERE day <> $1`, day)
	if err != nil {
		return 0, fmt.Errorf("sweeping usage records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
