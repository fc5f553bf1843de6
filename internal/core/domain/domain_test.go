package domain

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to CommitmentStatus
		want     bool
	}{
		{CommitmentStatusPending, CommitmentStatusDeposited, true},
		{CommitmentStatusPending, CommitmentStatusExpired, true},
		{CommitmentStatusPending, CommitmentStatusResolved, false},
		{CommitmentStatusDeposited, CommitmentStatusResolved, true},
		{CommitmentStatusDeposited, CommitmentStatusExpired, true},
		{CommitmentStatusDeposited, CommitmentStatusPending, false},
		{CommitmentStatusResolved, CommitmentStatusExpired, false},
		{CommitmentStatusExpired, CommitmentStatusDeposited, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestCommitmentStatus_LiveAndTerminal(t *testing.T) {
	for _, s := range LiveStatuses {
		assert.True(t, s.IsLive())
		assert.False(t, s.IsTerminal())
	}
	assert.True(t, CommitmentStatusResolved.IsTerminal())
	assert.True(t, CommitmentStatusExpired.IsTerminal())
	assert.False(t, Choice("edge").IsValid())
}

func TestCommitmentHash_Verify(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	nonce := []byte{1, 2, 3, 4}

	hash := ComputeCommitmentHash(secret, ChoiceHeads, 1000, nonce)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, ComputeCommitmentHash(secret, ChoiceHeads, 1000, nonce))

	assert.True(t, VerifyCommitment(hash, secret, ChoiceHeads, 1000, nonce))
	assert.False(t, VerifyCommitment(hash, secret, ChoiceTails, 1000, nonce), "choice is bound")
	assert.False(t, VerifyCommitment(hash, secret, ChoiceHeads, 1001, nonce), "amount is bound")
	assert.False(t, VerifyCommitment(hash, secret, ChoiceHeads, 1000, []byte{1, 2, 3, 5}), "nonce is bound")
}

func TestOutcomeFromRandomness_Deterministic(t *testing.T) {
	id := uuid.MustParse("6f1c1c64-5d0e-4c55-9a53-2b9f0b8f6a10")
	randomness := []byte("beacon-round-42")

	first := OutcomeFromRandomness(randomness, []byte("s"), id)
	assert.True(t, first.IsValid())
	assert.Equal(t, first, OutcomeFromRandomness(randomness, []byte("s"), id))

	seen := map[Choice]bool{}
	for i := 0; i < 64; i++ {
		seen[OutcomeFromRandomness(randomness, []byte{byte(i)}, id)] = true
	}
	assert.Len(t, seen, 2, "both sides are reachable")
}

func TestCommitment_Reveal(t *testing.T) {
	c := &Commitment{
		Status:         CommitmentStatusDeposited,
		Secret:         []byte{0xab},
		Nonce:          []byte{0x01},
		Choice:         ChoiceTails,
		BetAmount:      500,
		CommitmentHash: "h",
	}
	assert.Nil(t, c.Reveal(), "hidden while live")

	c.Status = CommitmentStatusExpired
	r := c.Reveal()
	require.NotNil(t, r)
	assert.Equal(t, "ab", r.Secret)
	assert.Equal(t, "01", r.Nonce)
	assert.Equal(t, int64(500), r.BetAmount)

	c.Secret = nil
	assert.Nil(t, c.Reveal())
}

func TestCommitment_Timing(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	lease := now.Add(time.Minute)
	c := &Commitment{ExpiresAt: now, ResolveLeaseUntil: &lease}

	assert.False(t, c.IsExpiredAt(now), "expiry is exclusive")
	assert.True(t, c.IsExpiredAt(now.Add(time.Nanosecond)))
	assert.True(t, c.LeaseHeldAt(now))
	assert.False(t, c.LeaseHeldAt(lease))
}

func TestPayoutFor(t *testing.T) {
	assert.Equal(t, int64(1960), PayoutFor(1000))
	assert.Equal(t, int64(1), PayoutFor(1), "truncates toward zero")
	assert.Equal(t, int64(0), PayoutFor(0))
}

func TestRateLimitCounter_Evaluate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Minute)

	tests := []struct {
		name       string
		counter    RateLimitCounter
		lockout    time.Time
		limit      int
		interval   time.Duration
		wantAllow  bool
		wantReason string
		wantRetry  time.Time
	}{
		{
			name:      "fresh counter",
			counter:   RateLimitCounter{DailyResetDate: "2026-03-10"},
			limit:     3,
			interval:  time.Hour,
			wantAllow: true,
		},
		{
			name:       "lockout",
			counter:    RateLimitCounter{},
			lockout:    now.Add(time.Hour),
			limit:      3,
			wantReason: ReasonLockout,
			wantRetry:  now.Add(time.Hour),
		},
		{
			name:       "daily limit",
			counter:    RateLimitCounter{DailyCount: 3, LastActionAt: &recent},
			limit:      3,
			wantReason: ReasonDailyLimit,
			wantRetry:  time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "min interval",
			counter:    RateLimitCounter{DailyCount: 1, LastActionAt: &recent},
			limit:      3,
			interval:   time.Hour,
			wantReason: ReasonMinInterval,
			wantRetry:  recent.Add(time.Hour),
		},
		{
			name:      "interval ignored after rollover",
			counter:   RateLimitCounter{DailyCount: 0, LastActionAt: &recent},
			limit:     3,
			interval:  time.Hour,
			wantAllow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.counter.Evaluate(now, tt.lockout, tt.limit, tt.interval)
			assert.Equal(t, tt.wantAllow, d.Allowed)
			if tt.wantReason != "" {
				assert.Contains(t, d.Reason, tt.wantReason)
				require.NotNil(t, d.RetryAt)
				assert.Equal(t, tt.wantRetry, *d.RetryAt)
			}
		})
	}
}

func TestRateLimitCounter_RecordRollsOver(t *testing.T) {
	c := &RateLimitCounter{DailyCount: 5, DailyResetDate: "2026-03-09"}
	now := time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC)

	c.Record(now)
	assert.Equal(t, 1, c.DailyCount)
	assert.Equal(t, "2026-03-10", c.DailyResetDate)
	require.NotNil(t, c.LastActionAt)
	assert.Equal(t, now, *c.LastActionAt)

	assert.False(t, c.RolloverTo("2026-03-10"))
	assert.True(t, c.RolloverTo("2026-03-11"))
	assert.Equal(t, 0, c.DailyCount)
}

func TestDailyStat_Add(t *testing.T) {
	s := NewDailyStat("2026-03-10")
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(900), s.Projected(big.NewInt(900)).Int64())
	assert.Equal(t, int64(0), s.TotalAmount.Int64(), "Projected does not mutate")

	s.Add(big.NewInt(900), at)
	s.Add(big.NewInt(1200), at.Add(time.Hour))
	s.Add(big.NewInt(300), at.Add(2*time.Hour))

	assert.Equal(t, int64(2400), s.TotalAmount.Int64())
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, int64(1200), s.LargestAmount.Int64())
	require.NotNil(t, s.LastAt)
	assert.Equal(t, at.Add(2*time.Hour), *s.LastAt)
}

func TestAmount_Scaling(t *testing.T) {
	eth := Asset{Symbol: "ETH", Decimals: 18}
	raw, ok := new(big.Int).SetString("1250000000000000000", 10)
	require.True(t, ok)

	a := eth.Amount(raw)
	assert.Equal(t, "1.25", a.Display().String())
	assert.Equal(t, "1.25 ETH", a.String())
	assert.Equal(t, raw.String(), eth.FromDisplay(decimal.RequireFromString("1.25")).String())
	assert.Equal(t, int64(1), Asset{Decimals: 2}.FromDisplay(decimal.RequireFromString("0.019")).Int64(), "sub-unit truncated")

	assert.True(t, Amount{}.IsZero())
	assert.Equal(t, "0", RawString(nil))
}

func TestParseRaw(t *testing.T) {
	v, err := ParseRaw("")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	v, err = ParseRaw("1000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", v.String())

	_, err = ParseRaw("-5")
	assert.Error(t, err)
	_, err = ParseRaw("1e18")
	assert.Error(t, err)
}

func TestRandomnessProof_Decode(t *testing.T) {
	p := &RandomnessProof{
		Version:    RandomnessProofVersion,
		Source:     RandomnessSourceBeacon,
		Round:      42,
		Randomness: "deadbeef",
		RequestID:  "req-1",
	}
	encoded, err := p.Encode()
	require.NoError(t, err)

	decoded, err := DecodeRandomnessProof(encoded)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)

	bad := []string{
		`not json`,
		`{"v":2,"source":"beacon","randomness":"00","request_id":"x"}`,
		`{"v":1,"source":"oracle","randomness":"00","request_id":"x"}`,
		`{"v":1,"source":"fallback","randomness":"","request_id":"x"}`,
		`{"v":1,"source":"fallback","randomness":"zz","request_id":"x"}`,
	}
	for _, s := range bad {
		_, err := DecodeRandomnessProof(s)
		assert.ErrorIs(t, err, ErrMalformedProof, s)
	}
}

func TestBuybackRecord_IsResumable(t *testing.T) {
	swap := "0xswap"
	burn := "0xburn"

	tests := []struct {
		name string
		rec  BuybackRecord
		want bool
	}{
		{"pending", BuybackRecord{Status: BuybackStatusPending}, false},
		{"swapped", BuybackRecord{Status: BuybackStatusSwapped, SwapTxRef: &swap, TokenBought: big.NewInt(5)}, true},
		{"failed after swap", BuybackRecord{Status: BuybackStatusFailed, SwapTxRef: &swap, TokenBought: big.NewInt(5)}, true},
		{"failed during swap", BuybackRecord{Status: BuybackStatusFailed, SwapTxRef: &swap}, false},
		{"swap confirm timed out", BuybackRecord{Status: BuybackStatusFailed, SwapTxRef: &swap, HotTokenBefore: big.NewInt(0)}, true},
		{"swap settled without output", BuybackRecord{Status: BuybackStatusFailed, SwapTxRef: &swap, HotTokenBefore: big.NewInt(0), TokenBought: big.NewInt(0), SwapSettled: true}, false},
		{"never broadcast", BuybackRecord{Status: BuybackStatusFailed, HotTokenBefore: big.NewInt(0)}, false},
		{"failed after burn", BuybackRecord{Status: BuybackStatusFailed, SwapTxRef: &swap, TokenBought: big.NewInt(5), BurnTxRef: &burn}, false},
		{"burned", BuybackRecord{Status: BuybackStatusBurned, SwapTxRef: &swap, TokenBought: big.NewInt(5)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.IsResumable())
		})
	}
}

func TestBuybackRecord_Fail(t *testing.T) {
	rec := &BuybackRecord{Status: BuybackStatusSwapped}
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	rec.Fail(errors.New("burn cap exceeded"), at)
	assert.Equal(t, BuybackStatusFailed, rec.Status)
	require.NotNil(t, rec.Error)
	assert.Equal(t, "burn cap exceeded", *rec.Error)
	assert.Equal(t, at, rec.UpdatedAt)
}

func TestWalletRole_IsValid(t *testing.T) {
	for _, r := range WalletRoles {
		assert.True(t, r.IsValid())
	}
	assert.False(t, WalletRole("savings").IsValid())
	assert.Equal(t, "2026-03-11", UTCDate(time.Date(2026, 3, 10, 23, 0, 0, 0, time.FixedZone("x", -3600))), "converted to UTC first")
}
