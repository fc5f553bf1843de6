package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	// CommitmentTransitions counts commitments entering each status
	CommitmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_commitment_transitions_total",
			Help: "Total number of commitment state transitions by target status",
		},
		[]string{"status"},
	)

	// WagerOutcomes counts resolved wagers by result and randomness source
	WagerOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_outcomes_total",
			Help: "Total number of resolved wagers",
		},
		[]string{"result", "source"},
	)

	// PayoutsSent counts payout broadcasts by status
	PayoutsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wager_payouts_total",
			Help: "Total number of winner payouts attempted",
		},
		[]string{"status"},
	)

	// SafetyRejections counts actions refused by the safety layer
	SafetyRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treasury_safety_rejections_total",
			Help: "Total number of actions refused by rate limits and circuit breakers",
		},
		[]string{"check"},
	)

	// BuybackCycles counts buyback cycles by result
	BuybackCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treasury_buyback_cycles_total",
			Help: "Total number of buyback-and-burn cycles",
		},
		[]string{"result"},
	)

	// TokensBurned tracks the display amount of project tokens destroyed
	TokensBurned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "treasury_tokens_burned_total",
			Help: "Project tokens burned, in display units",
		},
	)

	// WalletBalance tracks the last observed balance per wallet and asset
	WalletBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "treasury_wallet_balance",
			Help: "Last observed wallet balance in display units",
		},
		[]string{"role", "asset"},
	)

	// ExpiredSwept counts commitments expired by the sweeper
	ExpiredSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wager_expired_swept_total",
			Help: "Total number of commitments expired by the sweeper",
		},
	)
)

// Display converts a raw amount with decimals into a float for gauges.
func Display(raw *big.Int, decimals int32) float64 {
	if raw == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(raw, -decimals).Float64()
	return f
}
