package memory

import (
	"math/big"
	"time"

	"wager-treasury/internal/core/domain"
)

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneWallet(w *domain.Wallet) *domain.Wallet {
	c := *w
	c.CachedNativeBalance = cloneInt(w.CachedNativeBalance)
	c.CachedTokenBalance = cloneInt(w.CachedTokenBalance)
	c.LastSync = cloneTime(w.LastSync)
	return &c
}

func cloneCommitment(m *domain.Commitment) *domain.Commitment {
	c := *m
	c.Secret = nil
	c.Nonce = append([]byte(nil), m.Nonce...)
	c.DepositTxRef = cloneString(m.DepositTxRef)
	c.PayoutTxRef = cloneString(m.PayoutTxRef)
	c.PayoutReservedAt = cloneTime(m.PayoutReservedAt)
	c.ResolveLeaseUntil = cloneTime(m.ResolveLeaseUntil)
	c.ResolvedAt = cloneTime(m.ResolvedAt)
	if m.Outcome != nil {
		o := *m.Outcome
		c.Outcome = &o
	}
	if m.Won != nil {
		w := *m.Won
		c.Won = &w
	}
	if m.RandomnessProof != nil {
		p := *m.RandomnessProof
		c.RandomnessProof = &p
	}
	return &c
}

func cloneCounter(m *domain.RateLimitCounter) *domain.RateLimitCounter {
	c := *m
	c.LastActionAt = cloneTime(m.LastActionAt)
	return &c
}

func cloneStat(m *domain.DailyStat) *domain.DailyStat {
	c := *m
	c.TotalAmount = cloneInt(m.TotalAmount)
	c.LargestAmount = cloneInt(m.LargestAmount)
	c.LastAt = cloneTime(m.LastAt)
	return &c
}

func cloneBuyback(m *domain.BuybackRecord) *domain.BuybackRecord {
	c := *m
	c.AssetSpent = cloneInt(m.AssetSpent)
	c.TokenBought = cloneInt(m.TokenBought)
	c.TokenBurned = cloneInt(m.TokenBurned)
	c.HotTokenBefore = cloneInt(m.HotTokenBefore)
	c.SwapTxRef = cloneString(m.SwapTxRef)
	c.TransferTxRef = cloneString(m.TransferTxRef)
	c.BurnTxRef = cloneString(m.BurnTxRef)
	c.Error = cloneString(m.Error)
	return &c
}
