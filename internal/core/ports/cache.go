package ports

import (
	"context"
	"time"

	"wager-treasury/internal/core/domain"
)

// LeaseLocker hands out named, expiring leases shared between replicas.
// Acquire returns the holder token and false when the lease is taken.
type LeaseLocker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, name, token string) error
}

// BalanceCache holds recent balance readings for read-only views.
type BalanceCache interface {
	Get(ctx context.Context, role domain.WalletRole) (*domain.WalletBalance, error)
	Set(ctx context.Context, b *domain.WalletBalance, ttl time.Duration) error
	Invalidate(ctx context.Context, role domain.WalletRole) error
}
