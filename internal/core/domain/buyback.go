package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// BuybackStatus is the persisted progress of a buyback-and-burn cycle.
type BuybackStatus string

const (
	BuybackStatusPending BuybackStatus = "pending"
	BuybackStatusSwapped BuybackStatus = "swapped"
	BuybackStatusBurned  BuybackStatus = "burned"
	BuybackStatusFailed  BuybackStatus = "failed"
)

// BurnStrategyKind names the burn path configured at startup.
type BurnStrategyKind string

const (
	BurnStrategyAirlock BurnStrategyKind = "airlock"
	BurnStrategyDirect  BurnStrategyKind = "direct"
)

// BuybackRecord is one cycle. Each step is persisted before the next begins.
type BuybackRecord struct {
	ID            uuid.UUID        `json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	AssetSpent    *big.Int         `json:"-"`
	TokenBought   *big.Int         `json:"-"`
	TokenBurned   *big.Int         `json:"-"`
	SwapTxRef     *string          `json:"swap_tx_ref,omitempty"`
	TransferTxRef *string          `json:"transfer_tx_ref,omitempty"`
	BurnTxRef     *string          `json:"burn_tx_ref,omitempty"`
	Status        BuybackStatus    `json:"status"`
	Error         *string          `json:"error,omitempty"`
	Strategy      BurnStrategyKind `json:"strategy"`

	// HotTokenBefore is the hot wallet's token balance just before the swap
	// was broadcast. SwapSettled is set once the swap receipt was read.
	HotTokenBefore *big.Int `json:"-"`
	SwapSettled    bool     `json:"swap_settled"`
}

// SwapDone reports whether the swap step was confirmed.
func (r *BuybackRecord) SwapDone() bool {
	return r.SwapTxRef != nil && r.TokenBought != nil && r.TokenBought.Sign() > 0
}

// SwapUnsettled reports whether the swap was broadcast but its outcome was
// never read, so the tokens it bought may still be sitting unaccounted.
func (r *BuybackRecord) SwapUnsettled() bool {
	return r.SwapTxRef != nil && !r.SwapSettled && r.HotTokenBefore != nil
}

// IsResumable reports whether a cycle can be finished without a new swap.
func (r *BuybackRecord) IsResumable() bool {
	if r.BurnTxRef != nil {
		return false
	}
	switch r.Status {
	case BuybackStatusSwapped:
		return true
	case BuybackStatusFailed:
		return r.SwapDone() || r.SwapUnsettled()
	}
	return false
}

// Fail marks the record failed with cause.
func (r *BuybackRecord) Fail(cause error, at time.Time) {
	msg := cause.Error()
	r.Status = BuybackStatusFailed
	r.Error = &msg
	r.UpdatedAt = at
}

// QuoteRequest asks the exchange to price selling AmountIn of the native
// asset for the project token.
type QuoteRequest struct {
	SellToken   string   // empty for the native asset
	BuyToken    string
	AmountIn    *big.Int
	Taker       string
	SlippageBps int
}

// SwapQuote is the exchange's priced, ready-to-sign swap.
type SwapQuote struct {
	QuoteID      string
	AmountIn     *big.Int
	AmountOut    *big.Int
	MinAmountOut *big.Int
	Executable   bool
	To           string
	Data         []byte
	Value        *big.Int
	GasLimit     uint64
	ExpiresAt    *time.Time
}

// BuybackResult is what RunCycle reports to callers.
type BuybackResult struct {
	Record    *BuybackRecord `json:"record,omitempty"`
	DryRun    bool           `json:"dry_run"`
	Skipped   bool           `json:"skipped"`
	Reason    string         `json:"reason,omitempty"`
	Spendable *big.Int       `json:"-"`
	Quote     *SwapQuote     `json:"-"`
	Resumed   bool           `json:"resumed"`
}

// Skip reasons reported in BuybackResult.Reason.
const (
	SkipInsufficientBalance = "insufficient balance"
	SkipRateLimited         = "rate limited"
	SkipInProgress          = "cycle in progress"
)
