package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const buybackColumns = `id, created_at, updated_at, asset_spent::text, token_bought::text, token_burned::text,
		swap_tx_ref, transfer_tx_ref, burn_tx_ref, status, error, strategy, hot_token_before::text, swap_settled`

// BuybackRepo implements ports.BuybackRepository.
type BuybackRepo struct {
	pool Pool
}

// NewBuybackRepo creates a new BuybackRepo.
func NewBuybackRepo(pool Pool) *BuybackRepo {
	return &BuybackRepo{pool: pool}
}

// Create inserts a new cycle record.
func (r *BuybackRepo) Create(ctx context.Context, b *domain.BuybackRecord) error {
	query := `INSERT INTO buyback_records (id, created_at, updated_at, asset_spent, token_bought, token_burned,
		swap_tx_ref, transfer_tx_ref, burn_tx_ref, status, error, strategy, hot_token_before, swap_settled)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8, $9, $10, $11, $12, $13::numeric, $14)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.CreatedAt, b.UpdatedAt,
		domain.RawString(b.AssetSpent), domain.RawString(b.TokenBought), domain.RawString(b.TokenBurned),
		b.SwapTxRef, b.TransferTxRef, b.BurnTxRef, b.Status, b.Error, b.Strategy,
		nullableRaw(b.HotTokenBefore), b.SwapSettled,
	)
	if err != nil {
		return fmt.Errorf("insert buyback record: %w", err)
	}
	return nil
}

// Update persists every mutable field of a cycle record.
func (r *BuybackRepo) Update(ctx context.Context, b *domain.BuybackRecord) error {
	query := `UPDATE buyback_records SET updated_at = $1, asset_spent = $2::numeric, token_bought = $3::numeric,
		token_burned = $4::numeric, swap_tx_ref = $5, transfer_tx_ref = $6, burn_tx_ref = $7, status = $8, error = $9,
		hot_token_before = $10::numeric, swap_settled = $11
		WHERE id = $12`

	tag, err := r.pool.Exec(ctx, query,
		b.UpdatedAt,
		domain.RawString(b.AssetSpent), domain.RawString(b.TokenBought), domain.RawString(b.TokenBurned),
		b.SwapTxRef, b.TransferTxRef, b.BurnTxRef, b.Status, b.Error,
		nullableRaw(b.HotTokenBefore), b.SwapSettled, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update buyback record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("buyback record not found: %s", b.ID)
	}
	return nil
}

// GetByID fetches a cycle record.
func (r *BuybackRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BuybackRecord, error) {
	query := `SELECT ` + buybackColumns + ` FROM buyback_records WHERE id = $1`
	return scanBuyback(r.pool.QueryRow(ctx, query, id), "get buyback record")
}

// LatestResumable returns the newest record whose swap was broadcast but
// whose burn did not land.
func (r *BuybackRepo) LatestResumable(ctx context.Context) (*domain.BuybackRecord, error) {
	query := `SELECT ` + buybackColumns + ` FROM buyback_records
		WHERE burn_tx_ref IS NULL AND swap_tx_ref IS NOT NULL AND status IN ('swapped', 'failed')
			AND (token_bought > 0 OR (NOT swap_settled AND hot_token_before IS NOT NULL))
		ORDER BY created_at DESC LIMIT 1`
	return scanBuyback(r.pool.QueryRow(ctx, query), "get latest resumable buyback")
}

func scanBuyback(row pgx.Row, op string) (*domain.BuybackRecord, error) {
	b := &domain.BuybackRecord{}
	var spent, bought, burned string
	var before *string
	err := row.Scan(
		&b.ID, &b.CreatedAt, &b.UpdatedAt, &spent, &bought, &burned,
		&b.SwapTxRef, &b.TransferTxRef, &b.BurnTxRef, &b.Status, &b.Error, &b.Strategy,
		&before, &b.SwapSettled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if b.AssetSpent, err = domain.ParseRaw(spent); err != nil {
		return nil, apperror.ErrCorruptRecord("buyback record", err)
	}
	if b.TokenBought, err = domain.ParseRaw(bought); err != nil {
		return nil, apperror.ErrCorruptRecord("buyback record", err)
	}
	if b.TokenBurned, err = domain.ParseRaw(burned); err != nil {
		return nil, apperror.ErrCorruptRecord("buyback record", err)
	}
	if before != nil {
		if b.HotTokenBefore, err = domain.ParseRaw(*before); err != nil {
			return nil, apperror.ErrCorruptRecord("buyback record", err)
		}
	}
	return b, nil
}

func nullableRaw(v *big.Int) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
