package service

import (
	"context"
	"math/big"
	"sync"
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

type safetyTestDeps struct {
	svc   *SafetyServiceImpl
	store *memory.Store
	clock *testClock
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func setupSafety(t *testing.T, policy SafetyPolicy) *safetyTestDeps {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := NewSafetyService(memory.NewRateLimitRepo(store), memory.NewStatsRepo(store), store, policy, zerolog.Nop())
	svc.now = clock.Now
	return &safetyTestDeps{svc: svc, store: store, clock: clock}
}

func TestSafetyService_CheckAllowed_FirstActionSkipsInterval(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{})
	ctx := context.Background()

	decision, err := d.svc.CheckAllowed(ctx, "global", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 3, decision.Remaining)
}

func TestSafetyService_RecordThenThrottle(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{})
	ctx := context.Background()

	require.NoError(t, d.svc.RecordAction(ctx, "global"))

	decision, err := d.svc.CheckAllowed(ctx, "global", 3, time.Hour)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.ReasonMinInterval, decision.Reason)
	require.NotNil(t, decision.RetryAt)
	assert.Equal(t, d.clock.Now().Add(time.Hour), *decision.RetryAt)

	d.clock.Advance(time.Hour)
	decision, err = d.svc.CheckAllowed(ctx, "global", 3, time.Hour)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 2, decision.Remaining)
}

func TestSafetyService_DailyLimitResetsNextDay(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, d.svc.RecordAction(ctx, "channel:a"))
	}

	decision, err := d.svc.CheckAllowed(ctx, "channel:a", 2, 0)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.ReasonDailyLimit, decision.Reason)

	d.clock.Advance(12 * time.Hour)
	decision, err = d.svc.CheckAllowed(ctx, "channel:a", 2, 0)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "counter rolls over at the UTC day boundary")
	assert.Equal(t, 2, decision.Remaining)
}

func TestSafetyService_LockoutOverridesCounters(t *testing.T) {
	lockout := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	d := setupSafety(t, SafetyPolicy{LockoutUntil: lockout})
	ctx := context.Background()

	decision, err := d.svc.CheckAllowed(ctx, "global", 100, 0)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, domain.ReasonLockout)
	require.NotNil(t, decision.RetryAt)
	assert.Equal(t, lockout, *decision.RetryAt)

	d.clock.Advance(13 * time.Hour)
	decision, err = d.svc.CheckAllowed(ctx, "global", 100, 0)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestSafetyService_CheckRule(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{Rules: map[string]SafetyRule{
		"bot:post": {DailyLimit: 1, MinInterval: time.Minute},
	}})
	ctx := context.Background()

	decision, err := d.svc.CheckRule(ctx, "bot:post")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	_, err = d.svc.CheckRule(ctx, "unknown")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = d.svc.CheckAllowed(ctx, "", 1, 0)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestSafetyService_TryAcquire_Concurrent(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{})
	ctx := context.Background()

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := d.svc.TryAcquire(ctx, domain.ScopeBuybackCycle, 5, time.Hour)
			if !assert.NoError(t, err) {
				return
			}
			if decision.Allowed {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted, "the interval admits a single cycle")
}

func TestSafetyService_AcquireRule_Concurrent(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{Rules: map[string]SafetyRule{
		"bot:post": {DailyLimit: 1, MinInterval: 3 * time.Hour},
	}})
	ctx := context.Background()

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := d.svc.AcquireRule(ctx, "bot:post")
			if !assert.NoError(t, err) {
				return
			}
			if decision.Allowed {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
	counter, err := memory.NewRateLimitRepo(d.store).Get(ctx, "bot:post")
	require.NoError(t, err)
	require.NotNil(t, counter)
	assert.Equal(t, 1, counter.DailyCount)

	_, err = d.svc.AcquireRule(ctx, "unknown")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestSafetyService_TryAcquire_RefusalRecordsNothing(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{})
	ctx := context.Background()

	first, err := d.svc.TryAcquire(ctx, "scope", 1, 0)
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 0, first.Remaining)

	second, err := d.svc.TryAcquire(ctx, "scope", 1, 0)
	require.NoError(t, err)
	assert.False(t, second.Allowed)

	counter, err := memory.NewRateLimitRepo(d.store).Get(ctx, "scope")
	require.NoError(t, err)
	assert.Equal(t, 1, counter.DailyCount)
}

func TestSafetyService_PayoutCeiling(t *testing.T) {
	tests := []struct {
		name     string
		policy   SafetyPolicy
		treasury int64
		want     int64
	}{
		{"share of treasury", SafetyPolicy{PayoutCeilingBps: 2000}, 100000, 20000},
		{"absolute cap wins", SafetyPolicy{PayoutCeilingBps: 2000, PayoutCeilingMax: 5000}, 100000, 5000},
		{"cap above share", SafetyPolicy{PayoutCeilingBps: 1000, PayoutCeilingMax: 50000}, 100000, 10000},
		{"empty treasury", SafetyPolicy{PayoutCeilingBps: 2000}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupSafety(t, tt.policy)
			assert.Equal(t, tt.want, d.svc.PayoutCeiling(big.NewInt(tt.treasury)).Int64())
		})
	}
}

func TestSafetyService_PayoutCircuitBreaker(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{PayoutCeilingBps: 1000}) // 10%
	ctx := context.Background()
	treasury := big.NewInt(100000)

	require.NoError(t, d.svc.CheckPayoutCircuitBreaker(ctx, big.NewInt(6000), treasury))

	tx, err := d.store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, d.svc.RecordPayoutTx(ctx, tx, big.NewInt(6000), treasury))
	require.NoError(t, tx.Commit(ctx))

	err = d.svc.CheckPayoutCircuitBreaker(ctx, big.NewInt(5000), treasury)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindSafetyLimit))

	tx, err = d.store.Begin(ctx)
	require.NoError(t, err)
	err = d.svc.RecordPayoutTx(ctx, tx, big.NewInt(5000), treasury)
	require.NoError(t, tx.Rollback(ctx))
	assert.True(t, apperror.IsKind(err, apperror.KindSafetyLimit))

	stat, err := memory.NewStatsRepo(d.store).Get(ctx, domain.StatKindPayout, domain.UTCDate(d.clock.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(6000), stat.TotalAmount.Int64(), "a refused payout is not recorded")
	assert.Equal(t, 1, stat.Count)

	require.NoError(t, d.svc.CheckPayoutCircuitBreaker(ctx, big.NewInt(4000), treasury), "exactly at the ceiling is allowed")
}

func TestSafetyService_TransferCeiling(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{DailyTransferCeiling: big.NewInt(1000)})
	ctx := context.Background()

	require.NoError(t, d.svc.CheckTransferCeiling(ctx, big.NewInt(800)))

	tx, err := d.store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, d.svc.RecordTransferTx(ctx, tx, big.NewInt(800)))
	require.NoError(t, tx.Commit(ctx))

	err = d.svc.CheckTransferCeiling(ctx, big.NewInt(201))
	assert.True(t, apperror.IsKind(err, apperror.KindSafetyLimit))

	unlimited := setupSafety(t, SafetyPolicy{})
	require.NoError(t, unlimited.svc.CheckTransferCeiling(ctx, big.NewInt(1_000_000)))
}

func TestSafetyService_RecordAction_UpsertFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	counters := mocks.NewMockRateLimitRepository(ctrl)
	stats := mocks.NewMockStatsRepository(ctrl)
	transactor := mocks.NewMockDBTransactor(ctrl)
	svc := NewSafetyService(counters, stats, transactor, SafetyPolicy{}, zerolog.Nop())

	ctx := context.Background()
	tx := &mockTx{}

	transactor.EXPECT().Begin(ctx).Return(tx, nil)
	counters.EXPECT().Seed(ctx, tx, "global", gomock.Any()).Return(nil)
	counters.EXPECT().GetForUpdate(ctx, tx, "global").Return(nil, nil)
	counters.EXPECT().Upsert(ctx, tx, gomock.Any()).Return(assert.AnError)

	err := svc.RecordAction(ctx, "global")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))
}

func TestSafetyService_ScenarioE_DailyLimitAndDayBoundary(t *testing.T) {
	d := setupSafety(t, SafetyPolicy{})
	ctx := context.Background()
	d.clock.t = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 6; i++ {
		if i > 0 {
			d.clock.Advance(3 * time.Hour)
		}
		decision, err := d.svc.TryAcquire(ctx, "global", 6, 3*time.Hour)
		require.NoError(t, err)
		require.True(t, decision.Allowed, "action %d at %s", i+1, d.clock.Now())
	}
	assert.Equal(t, 23, d.clock.Now().Hour())

	d.clock.Advance(10 * time.Minute)
	decision, err := d.svc.TryAcquire(ctx, "global", 6, 3*time.Hour)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.ReasonDailyLimit, decision.Reason)

	d.clock.Advance(time.Hour) // 00:10 next day, 70 minutes after the last action
	decision, err = d.svc.TryAcquire(ctx, "global", 6, 3*time.Hour)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 5, decision.Remaining)
}
