package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor over the ledger pool. The
// repositories lock ledger rows with SELECT ... FOR UPDATE, so every
// money-moving operation runs inside one of these transactions.
type Transactor struct {
	pool Pool
}

// NewTransactor creates a Transactor over the ledger pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a ledger transaction.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", err)
	}
	return tx, nil
}
