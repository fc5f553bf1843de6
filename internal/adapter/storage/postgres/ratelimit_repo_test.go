package postgres

import (
	"context"
	"testing"
	"time"

	"wager-treasury/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitRepo_GetForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRateLimitRepo(mock)
	last := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM rate_limit_counters WHERE scope .+ FOR UPDATE").
		WithArgs(domain.ScopeBuybackCycle).
		WillReturnRows(pgxmock.NewRows([]string{"scope", "daily_count", "daily_reset_date", "last_action_at", "updated_at"}).
			AddRow(domain.ScopeBuybackCycle, 3, "2026-03-01", &last, last))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	c, err := repo.GetForUpdate(context.Background(), tx, domain.ScopeBuybackCycle)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 3, c.DailyCount)
	assert.Equal(t, "2026-03-01", c.DailyResetDate)
	require.NotNil(t, c.LastActionAt)
	assert.True(t, last.Equal(*c.LastActionAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitRepo_Get_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRateLimitRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM rate_limit_counters").
		WithArgs("fresh:scope").
		WillReturnError(pgx.ErrNoRows)

	c, err := repo.Get(context.Background(), "fresh:scope")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestRateLimitRepo_Seed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRateLimitRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rate_limit_counters .+ ON CONFLICT \\(scope\\) DO NOTHING").
		WithArgs(domain.ScopeBuybackCycle, "2026-03-01").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Seed(context.Background(), tx, domain.ScopeBuybackCycle, "2026-03-01"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitRepo_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewRateLimitRepo(mock)
	now := time.Now().UTC()
	c := &domain.RateLimitCounter{Scope: "wallet:transfer", DailyCount: 1, DailyResetDate: domain.UTCDate(now), LastActionAt: &now, UpdatedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rate_limit_counters .+ ON CONFLICT \\(scope\\) DO UPDATE").
		WithArgs(c.Scope, 1, c.DailyResetDate, c.LastActionAt, c.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(context.Background(), tx, c))
	assert.NoError(t, mock.ExpectationsWereMet())
}
