package postgres

import (
	"context"
	"errors"
	"fmt"

	"wager-treasury/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const counterColumns = `scope, daily_count, daily_reset_date, last_action_at, updated_at`

// RateLimitRepo implements ports.RateLimitRepository.
type RateLimitRepo struct {
	pool Pool
}

// NewRateLimitRepo creates a new RateLimitRepo.
func NewRateLimitRepo(pool Pool) *RateLimitRepo {
	return &RateLimitRepo{pool: pool}
}

// Seed inserts a zero counter unless one exists. A concurrent seeder waits
// on the primary key and then does nothing.
func (r *RateLimitRepo) Seed(ctx context.Context, tx pgx.Tx, scope, today string) error {
	query := `INSERT INTO rate_limit_counters (scope, daily_count, daily_reset_date, updated_at)
		VALUES ($1, 0, $2, NOW()) ON CONFLICT (scope) DO NOTHING`

	if _, err := tx.Exec(ctx, query, scope, today); err != nil {
		return fmt.Errorf("seed rate limit counter: %w", err)
	}
	return nil
}

// Get fetches a scope's counter (without locking).
func (r *RateLimitRepo) Get(ctx context.Context, scope string) (*domain.RateLimitCounter, error) {
	query := `SELECT ` + counterColumns + ` FROM rate_limit_counters WHERE scope = $1`
	return scanCounter(r.pool.QueryRow(ctx, query, scope), "get rate limit counter")
}

// GetForUpdate fetches a scope's counter with pessimistic locking.
// This MUST be called within a transaction.
func (r *RateLimitRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, scope string) (*domain.RateLimitCounter, error) {
	query := `SELECT ` + counterColumns + ` FROM rate_limit_counters WHERE scope = $1 FOR UPDATE`
	return scanCounter(tx.QueryRow(ctx, query, scope), "get rate limit counter for update")
}

// Upsert writes the counter, creating the row on first use.
func (r *RateLimitRepo) Upsert(ctx context.Context, tx pgx.Tx, c *domain.RateLimitCounter) error {
	query := `INSERT INTO rate_limit_counters (scope, daily_count, daily_reset_date, last_action_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (scope) DO UPDATE SET daily_count = EXCLUDED.daily_count,
			daily_reset_date = EXCLUDED.daily_reset_date, last_action_at = EXCLUDED.last_action_at,
			updated_at = EXCLUDED.updated_at`

	if _, err := tx.Exec(ctx, query, c.Scope, c.DailyCount, c.DailyResetDate, c.LastActionAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert rate limit counter: %w", err)
	}
	return nil
}

func scanCounter(row pgx.Row, op string) (*domain.RateLimitCounter, error) {
	c := &domain.RateLimitCounter{}
	err := row.Scan(&c.Scope, &c.DailyCount, &c.DailyResetDate, &c.LastActionAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}
