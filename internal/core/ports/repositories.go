package ports

import (
	"context"
	"math/big"
	"time"

	"wager-treasury/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository persists the per-role custody singletons.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByRole(ctx context.Context, role domain.WalletRole) (*domain.Wallet, error)
	GetByRoleForUpdate(ctx context.Context, tx pgx.Tx, role domain.WalletRole) (*domain.Wallet, error)
	UpdateCachedBalances(ctx context.Context, role domain.WalletRole, native, token *big.Int, syncedAt time.Time) error
	AddDistributed(ctx context.Context, tx pgx.Tx, role domain.WalletRole, amount int64) error
}

// CommitmentRepository persists wager commitments.
type CommitmentRepository interface {
	// Create inserts a commitment. A concurrent live commitment for the same
	// bettor surfaces as a state conflict from the partial unique index.
	Create(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Commitment, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Commitment, error)
	GetLiveByBettorForUpdate(ctx context.Context, tx pgx.Tx, bettor string) (*domain.Commitment, error)
	MarkDeposited(ctx context.Context, tx pgx.Tx, id uuid.UUID, txRef string) error
	// SaveOutcome stores the drawn outcome, payout reservation and resolver lease.
	SaveOutcome(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error
	// SetPayoutTxRef records a broadcast payout right away, outside any transaction.
	SetPayoutTxRef(ctx context.Context, id uuid.UUID, txRef string) error
	MarkResolved(ctx context.Context, tx pgx.Tx, c *domain.Commitment) error
	// ExpireDue moves live commitments whose deadline passed before now to
	// expired, skipping winners awaiting payout. Returns the ids moved.
	ExpireDue(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]uuid.UUID, error)
}

// TxRefRepository is the append-only replay-protection set.
type TxRefRepository interface {
	// Insert records txRef. It returns false if txRef was already present.
	Insert(ctx context.Context, tx pgx.Tx, ref *domain.UsedTxRef) (bool, error)
	Exists(ctx context.Context, txRef string) (bool, error)
}

// RateLimitRepository persists throttle counters.
type RateLimitRepository interface {
	// Seed creates an empty counter for scope if none exists, so a following
	// GetForUpdate always has a row to lock.
	Seed(ctx context.Context, tx pgx.Tx, scope, today string) error
	GetForUpdate(ctx context.Context, tx pgx.Tx, scope string) (*domain.RateLimitCounter, error)
	Get(ctx context.Context, scope string) (*domain.RateLimitCounter, error)
	Upsert(ctx context.Context, tx pgx.Tx, c *domain.RateLimitCounter) error
}

// StatsRepository persists daily payout and transfer statistics.
type StatsRepository interface {
	// Seed creates an empty stat for date if none exists.
	Seed(ctx context.Context, tx pgx.Tx, kind domain.StatKind, date string) error
	Get(ctx context.Context, kind domain.StatKind, date string) (*domain.DailyStat, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, kind domain.StatKind, date string) (*domain.DailyStat, error)
	Upsert(ctx context.Context, tx pgx.Tx, kind domain.StatKind, s *domain.DailyStat) error
}

// BuybackRepository persists buyback cycle records.
type BuybackRepository interface {
	Create(ctx context.Context, r *domain.BuybackRecord) error
	Update(ctx context.Context, r *domain.BuybackRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BuybackRecord, error)
	// LatestResumable returns the newest record that completed its swap but
	// not its burn, or nil.
	LatestResumable(ctx context.Context) (*domain.BuybackRecord, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
