package postgres

import (
	"context"
	"testing"
	"time"

	"wager-treasury/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRefRepo_Insert(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"first use", 1, true},
		{"replay", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := NewTxRefRepo(mock)
			ref := &domain.UsedTxRef{TxRef: "0xdep", CommitmentID: uuid.New(), UsedAt: time.Now().UTC()}

			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO used_tx_refs .+ ON CONFLICT").
				WithArgs(ref.TxRef, ref.CommitmentID, ref.UsedAt).
				WillReturnResult(pgxmock.NewResult("INSERT", tt.affected))

			tx, err := mock.Begin(context.Background())
			require.NoError(t, err)

			inserted, err := repo.Insert(context.Background(), tx, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, inserted)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTxRefRepo_Exists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTxRefRepo(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0xdep").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "0xdep")
	require.NoError(t, err)
	assert.True(t, exists)
}
