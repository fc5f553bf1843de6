package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"wager-treasury/internal/core/domain"
	"wager-treasury/pkg/apperror"

	"github.com/jackc/pgx/v5"
)

const walletColumns = `role, public_key, encrypted_secret, cached_native_balance::text, cached_token_balance::text,
		total_distributed, last_sync, created_at, updated_at`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts the singleton wallet for a role within a transaction.
func (r *WalletRepo) Create(ctx context.Context, tx pgx.Tx, w *domain.Wallet) error {
	query := `INSERT INTO wallets (role, public_key, encrypted_secret, cached_native_balance, cached_token_balance,
		total_distributed, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		w.Role, w.PublicKey, w.EncryptedSecret,
		domain.RawString(w.CachedNativeBalance), domain.RawString(w.CachedTokenBalance),
		w.TotalDistributed, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if uniqueViolationOn(err, "") {
			return apperror.ErrWalletExists(string(w.Role))
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByRole fetches a role's wallet (without locking).
func (r *WalletRepo) GetByRole(ctx context.Context, role domain.WalletRole) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE role = $1`
	return scanWallet(r.pool.QueryRow(ctx, query, role), "get wallet by role")
}

// GetByRoleForUpdate fetches a role's wallet with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByRoleForUpdate(ctx context.Context, tx pgx.Tx, role domain.WalletRole) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE role = $1 FOR UPDATE`
	return scanWallet(tx.QueryRow(ctx, query, role), "get wallet for update")
}

// UpdateCachedBalances stores the latest chain balance reading.
func (r *WalletRepo) UpdateCachedBalances(ctx context.Context, role domain.WalletRole, native, token *big.Int, syncedAt time.Time) error {
	query := `UPDATE wallets SET cached_native_balance = $1::numeric, cached_token_balance = $2::numeric,
		last_sync = $3, updated_at = NOW() WHERE role = $4`

	tag, err := r.pool.Exec(ctx, query, domain.RawString(native), domain.RawString(token), syncedAt, role)
	if err != nil {
		return fmt.Errorf("update cached balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", role)
	}
	return nil
}

// AddDistributed adds a payout to the role's running total within a transaction.
func (r *WalletRepo) AddDistributed(ctx context.Context, tx pgx.Tx, role domain.WalletRole, amount int64) error {
	query := `UPDATE wallets SET total_distributed = total_distributed + $1, updated_at = NOW() WHERE role = $2`

	tag, err := tx.Exec(ctx, query, amount, role)
	if err != nil {
		return fmt.Errorf("add distributed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", role)
	}
	return nil
}

func scanWallet(row pgx.Row, op string) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	var native, token string
	err := row.Scan(
		&w.Role, &w.PublicKey, &w.EncryptedSecret, &native, &token,
		&w.TotalDistributed, &w.LastSync, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if w.CachedNativeBalance, err = domain.ParseRaw(native); err != nil {
		return nil, apperror.ErrCorruptRecord("wallet", err)
	}
	if w.CachedTokenBalance, err = domain.ParseRaw(token); err != nil {
		return nil, apperror.ErrCorruptRecord("wallet", err)
	}
	return w, nil
}
