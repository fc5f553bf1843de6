package postgres

import (
	"context"
	"fmt"

	"wager-treasury/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// TxRefRepo implements ports.TxRefRepository.
type TxRefRepo struct {
	pool Pool
}

// NewTxRefRepo creates a new TxRefRepo.
func NewTxRefRepo(pool Pool) *TxRefRepo {
	return &TxRefRepo{pool: pool}
}

// Insert records a deposit reference. The primary key makes the insert the
// replay check: a reference already present affects no rows.
func (r *TxRefRepo) Insert(ctx context.Context, tx pgx.Tx, ref *domain.UsedTxRef) (bool, error) {
	query := `INSERT INTO used_tx_refs (tx_ref, commitment_id, used_at) VALUES ($1, $2, $3)
		ON CONFLICT (tx_ref) DO NOTHING`

	tag, err := tx.Exec(ctx, query, ref.TxRef, ref.CommitmentID, ref.UsedAt)
	if err != nil {
		return false, fmt.Errorf("insert used tx ref: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Exists reports whether txRef has been credited before.
func (r *TxRefRepo) Exists(ctx context.Context, txRef string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM used_tx_refs WHERE tx_ref = $1)`, txRef).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check used tx ref: %w", err)
	}
	return exists, nil
}
