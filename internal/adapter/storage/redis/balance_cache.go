package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wager-treasury/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// BalanceCache implements ports.BalanceCache. Entries are read-side only:
// safety checks always query the chain.
type BalanceCache struct {
	client *goredis.Client
	prefix string
}

// NewBalanceCache creates a new Redis-backed balance cache.
func NewBalanceCache(client *goredis.Client) *BalanceCache {
	return &BalanceCache{
		client: client,
		prefix: "wts:balance:",
	}
}

type cachedBalance struct {
	Role          domain.WalletRole `json:"role"`
	Address       string            `json:"address"`
	Native        string            `json:"native"`
	NativeSymbol  string            `json:"native_symbol"`
	NativeDecimal int32             `json:"native_decimals"`
	Token         string            `json:"token"`
	TokenSymbol   string            `json:"token_symbol"`
	TokenDecimal  int32             `json:"token_decimals"`
	SyncedAt      time.Time         `json:"synced_at"`
}

// Get returns a cached reading, or nil, nil on a miss.
func (c *BalanceCache) Get(ctx context.Context, role domain.WalletRole) (*domain.WalletBalance, error) {
	val, err := c.client.Get(ctx, c.prefix+string(role)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis balance get: %w", err)
	}

	var cb cachedBalance
	if err := json.Unmarshal(val, &cb); err != nil {
		// A garbled entry is just a miss.
		return nil, nil
	}
	native, err := domain.ParseRaw(cb.Native)
	if err != nil {
		return nil, nil
	}
	token, err := domain.ParseRaw(cb.Token)
	if err != nil {
		return nil, nil
	}
	return &domain.WalletBalance{
		Role:     cb.Role,
		Address:  cb.Address,
		Native:   domain.NewAmount(native, domain.Asset{Symbol: cb.NativeSymbol, Decimals: cb.NativeDecimal}),
		Token:    domain.NewAmount(token, domain.Asset{Symbol: cb.TokenSymbol, Decimals: cb.TokenDecimal}),
		SyncedAt: cb.SyncedAt,
	}, nil
}

// Set stores a reading with ttl.
func (c *BalanceCache) Set(ctx context.Context, b *domain.WalletBalance, ttl time.Duration) error {
	val, err := json.Marshal(cachedBalance{
		Role:          b.Role,
		Address:       b.Address,
		Native:        domain.RawString(b.Native.Raw),
		NativeSymbol:  b.Native.Asset.Symbol,
		NativeDecimal: b.Native.Asset.Decimals,
		Token:         domain.RawString(b.Token.Raw),
		TokenSymbol:   b.Token.Asset.Symbol,
		TokenDecimal:  b.Token.Asset.Decimals,
		SyncedAt:      b.SyncedAt,
	})
	if err != nil {
		return fmt.Errorf("encode balance: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+string(b.Role), val, ttl).Err(); err != nil {
		return fmt.Errorf("redis balance set: %w", err)
	}
	return nil
}

// Invalidate drops the cached reading for role, e.g. after money moves.
func (c *BalanceCache) Invalidate(ctx context.Context, role domain.WalletRole) error {
	if err := c.client.Del(ctx, c.prefix+string(role)).Err(); err != nil {
		return fmt.Errorf("redis balance invalidate: %w", err)
	}
	return nil
}
