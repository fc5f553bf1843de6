package service

import (
	"context"
	"math/big"
	"testing"
	"time"

	"wager-treasury/internal/adapter/storage/memory"
	"wager-treasury/internal/core/domain"
	"wager-treasury/internal/core/ports/mocks"
	"wager-treasury/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type treasuryTestDeps struct {
	svc    *TreasuryServiceImpl
	vault  *mocks.MockWalletVault
	cache  *mocks.MockBalanceCache
	safety *SafetyServiceImpl
	store  *memory.Store
	clock  *testClock
}

func setupTreasury(t *testing.T, policy SafetyPolicy) *treasuryTestDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	clock := &testClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	safety := NewSafetyService(memory.NewRateLimitRepo(store), memory.NewStatsRepo(store), store, policy, zerolog.Nop())
	safety.now = clock.Now

	d := &treasuryTestDeps{
		vault:  mocks.NewMockWalletVault(ctrl),
		cache:  mocks.NewMockBalanceCache(ctrl),
		safety: safety,
		store:  store,
		clock:  clock,
	}
	d.svc = NewTreasuryService(d.vault, d.cache, memory.NewRateLimitRepo(store), memory.NewStatsRepo(store),
		safety, testNative, time.Minute, zerolog.Nop())
	d.svc.now = clock.Now
	return d
}

func testBalance(role domain.WalletRole, native, token int64) *domain.WalletBalance {
	return &domain.WalletBalance{
		Role:     role,
		Address:  "0x0000000000000000000000000000000000000001",
		Native:   testNative.Amount(big.NewInt(native)),
		Token:    testToken.Amount(big.NewInt(token)),
		SyncedAt: time.Date(2026, 3, 10, 11, 59, 0, 0, time.UTC),
	}
}

func TestTreasuryService_BalancesUsesCacheThenVault(t *testing.T) {
	d := setupTreasury(t, SafetyPolicy{})
	ctx := context.Background()

	hot := testBalance(domain.WalletRoleHot, 1000, 5)
	cold := testBalance(domain.WalletRoleCold, 2000, 0)

	d.cache.EXPECT().Get(ctx, domain.WalletRoleHot).Return(hot, nil)
	d.cache.EXPECT().Get(ctx, domain.WalletRoleCold).Return(nil, nil)
	d.vault.EXPECT().GetBalance(ctx, domain.WalletRoleCold).Return(cold, nil)
	d.cache.EXPECT().Set(ctx, cold, time.Minute).Return(nil)
	d.cache.EXPECT().Get(ctx, domain.WalletRoleBurn).Return(nil, nil)
	d.vault.EXPECT().GetBalance(ctx, domain.WalletRoleBurn).Return(nil, apperror.ErrNotFound("wallet"))

	balances, err := d.svc.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2, "a role without a wallet is left out")
	assert.Equal(t, domain.WalletRoleHot, balances[0].Role)
	assert.Equal(t, int64(2000), balances[1].Native.Raw.Int64())
}

func TestTreasuryService_CacheFailureFallsBack(t *testing.T) {
	d := setupTreasury(t, SafetyPolicy{})
	ctx := context.Background()

	for _, role := range domain.WalletRoles {
		b := testBalance(role, 10, 0)
		d.cache.EXPECT().Get(ctx, role).Return(nil, assert.AnError)
		d.vault.EXPECT().GetBalance(ctx, role).Return(b, nil)
		d.cache.EXPECT().Set(ctx, b, time.Minute).Return(assert.AnError)
	}

	balances, err := d.svc.Balances(ctx)
	require.NoError(t, err)
	assert.Len(t, balances, 3)
}

func TestTreasuryService_ChainErrorPropagates(t *testing.T) {
	d := setupTreasury(t, SafetyPolicy{})
	ctx := context.Background()

	d.cache.EXPECT().Get(ctx, domain.WalletRoleHot).Return(nil, nil)
	d.vault.EXPECT().GetBalance(ctx, domain.WalletRoleHot).Return(nil, apperror.ErrExternal("chain", assert.AnError))

	_, err := d.svc.Balances(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindExternal))
}

func TestTreasuryService_Snapshot(t *testing.T) {
	lockout := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	d := setupTreasury(t, SafetyPolicy{
		LockoutUntil:     lockout,
		PayoutCeilingBps: 2000,
		Rules:            map[string]SafetyRule{"bot:post": {DailyLimit: 3}},
	})
	ctx := context.Background()

	tx, err := d.store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, d.safety.RecordPayoutTx(ctx, tx, big.NewInt(1500), big.NewInt(100000)))
	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, d.safety.RecordAction(ctx, "bot:post"))

	d.cache.EXPECT().Get(ctx, domain.WalletRoleHot).Return(testBalance(domain.WalletRoleHot, 100000, 0), nil)
	d.cache.EXPECT().Get(ctx, domain.WalletRoleCold).Return(testBalance(domain.WalletRoleCold, 0, 0), nil)
	d.cache.EXPECT().Get(ctx, domain.WalletRoleBurn).Return(testBalance(domain.WalletRoleBurn, 0, 0), nil)

	snap, err := d.svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", snap.Date)
	assert.Len(t, snap.Balances, 3)
	assert.Equal(t, int64(1500), snap.Payouts.TotalAmount.Int64())
	assert.Equal(t, 1, snap.Payouts.Count)
	assert.Equal(t, int64(0), snap.Transfers.TotalAmount.Int64())
	assert.Equal(t, int64(20000), snap.PayoutCeiling.Raw.Int64())
	require.Len(t, snap.Counters, 1)
	assert.Equal(t, "bot:post", snap.Counters[0].Scope)
	assert.Equal(t, 1, snap.Counters[0].DailyCount)
	require.NotNil(t, snap.LockoutUntil)
	assert.Equal(t, lockout, *snap.LockoutUntil)
}
