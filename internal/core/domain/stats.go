package domain

import (
	"math/big"
	"time"
)

// StatKind selects which daily statistics table a row belongs to.
type StatKind string

const (
	StatKindPayout   StatKind = "payout"
	StatKindTransfer StatKind = "transfer"
)

// DailyStat aggregates money movement for one UTC day.
type DailyStat struct {
	Date          string     `json:"date"`
	TotalAmount   *big.Int   `json:"-"`
	Count         int        `json:"count"`
	LargestAmount *big.Int   `json:"-"`
	LastAt        *time.Time `json:"last_at,omitempty"`
}

// NewDailyStat returns an empty stat for date.
func NewDailyStat(date string) *DailyStat {
	return &DailyStat{Date: date, TotalAmount: new(big.Int), LargestAmount: new(big.Int)}
}

// Projected returns TotalAmount + amount without mutating the stat.
func (s *DailyStat) Projected(amount *big.Int) *big.Int {
	total := new(big.Int)
	if s.TotalAmount != nil {
		total.Set(s.TotalAmount)
	}
	return total.Add(total, amount)
}

// Add records one movement of amount at at.
func (s *DailyStat) Add(amount *big.Int, at time.Time) {
	s.TotalAmount = s.Projected(amount)
	s.Count++
	if s.LargestAmount == nil || amount.Cmp(s.LargestAmount) > 0 {
		s.LargestAmount = new(big.Int).Set(amount)
	}
	t := at.UTC()
	s.LastAt = &t
}

// TreasurySnapshot is the operator view of balances and today's limits.
type TreasurySnapshot struct {
	Date          string             `json:"date"`
	Balances      []WalletBalance    `json:"balances"`
	Payouts       *DailyStat         `json:"payouts"`
	PayoutCeiling Amount             `json:"payout_ceiling"`
	Transfers     *DailyStat         `json:"transfers"`
	Counters      []RateLimitCounter `json:"counters"`
	LockoutUntil  *time.Time         `json:"lockout_until,omitempty"`
}
