package postgres

import (
	"context"
	"errors"
	"fmt"

	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

// StatsRepo implements ports.StatsRepository over the daily payout and
// transfer tables, which share one layout.
type StatsRepo struct {
	pool Pool
}

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(pool Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func statsTable(kind domain.StatKind) (string, error) {
	switch kind {
	case domain.StatKindPayout:
		return "daily_payout_stats", nil
	case domain.StatKindTransfer:
		return "daily_transfer_stats", nil
	}
	return "", fmt.Errorf("unknown stat kind %q", kind)
}

// Seed inserts an empty stat for date unless one exists.
func (r *StatsRepo) Seed(ctx context.Context, tx pgx.Tx, kind domain.StatKind, date string) error {
	table, err := statsTable(kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + table + ` (date) VALUES ($1) ON CONFLICT (date) DO NOTHING`
	if _, err := tx.Exec(ctx, query, date); err != nil {
		return fmt.Errorf("seed %s stat: %w", kind, err)
	}
	return nil
}

// Get fetches a day's stat (without locking).
func (r *StatsRepo) Get(ctx context.Context, kind domain.StatKind, date string) (*domain.DailyStat, error) {
	return r.get(ctx, r.pool, kind, date, "")
}

// GetForUpdate fetches a day's stat with pessimistic locking.
// This MUST be called within a transaction.
func (r *StatsRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, kind domain.StatKind, date string) (*domain.DailyStat, error) {
	return r.get(ctx, tx, kind, date, " FOR UPDATE")
}

func (r *StatsRepo) get(ctx context.Context, q querier, kind domain.StatKind, date, lock string) (*domain.DailyStat, error) {
	table, err := statsTable(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT date, total_amount::text, count, largest_amount::text, last_at FROM ` + table +
		` WHERE date = $1` + lock

	s := &domain.DailyStat{}
	var total, largest string
	if err := q.QueryRow(ctx, query, date).Scan(&s.Date, &total, &s.Count, &largest, &s.LastAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s stat: %w", kind, err)
	}
	if s.TotalAmount, err = domain.ParseRaw(total); err != nil {
		return nil, apperror.ErrCorruptRecord(string(kind)+" stat", err)
	}
	if s.LargestAmount, err = domain.ParseRaw(largest); err != nil {
		return nil, apperror.ErrCorruptRecord(string(kind)+" stat", err)
	}
	return s, nil
}

// Upsert writes a day's stat within a transaction.
func (r *StatsRepo) Upsert(ctx context.Context, tx pgx.Tx, kind domain.StatKind, s *domain.DailyStat) error {
	table, err := statsTable(kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + table + ` (date, total_amount, count, largest_amount, last_at)
		VALUES ($1, $2::numeric, $3, $4::numeric, $5)
		ON CONFLICT (date) DO UPDATE SET total_amount = EXCLUDED.total_amount, count = EXCLUDED.count,
			largest_amount = EXCLUDED.largest_amount, last_at = EXCLUDED.last_at`

	_, err = tx.Exec(ctx, query,
		s.Date, domain.RawString(s.TotalAmount), s.Count, domain.RawString(s.LargestAmount), s.LastAt,
	)
	if err != nil {
		return fmt.Errorf("upsert %s stat: %w", kind, err)
	}
	return nil
}
